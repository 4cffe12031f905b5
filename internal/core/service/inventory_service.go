package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

type InventoryService struct {
	repo ports.InventoryRepository
	log  zerolog.Logger
}

func NewInventoryService(repo ports.InventoryRepository, log zerolog.Logger) *InventoryService {
	return &InventoryService{repo: repo, log: log}
}

func (s *InventoryService) Classifications(ctx context.Context) ([]domain.Classification, error) {
	out, err := s.repo.ListClassifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}
	return out, nil
}

// AddClassification creates a classification, rejecting duplicate names.
func (s *InventoryService) AddClassification(ctx context.Context, name string) (*domain.Classification, error) {
	name = strings.TrimSpace(name)

	exists, err := s.repo.ClassificationExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("add classification: %w", err)
	}
	if exists {
		return nil, domain.ErrClassificationExists
	}

	c, err := s.repo.CreateClassification(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrClassificationExists) {
			return nil, err
		}
		return nil, fmt.Errorf("add classification: %w", err)
	}
	s.log.Info().Int64("classification_id", c.ID).Str("name", c.Name).Msg("classification added")
	return c, nil
}

// VehiclesByClassification may return an empty slice; that is not an error.
func (s *InventoryService) VehiclesByClassification(ctx context.Context, classificationID int64) ([]domain.Vehicle, error) {
	out, err := s.repo.ListByClassification(ctx, classificationID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return out, nil
}

func (s *InventoryService) Vehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	v, err := s.repo.FindVehicle(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return v, nil
}

func (s *InventoryService) AddVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error) {
	created, err := s.repo.CreateVehicle(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("add vehicle: %w", err)
	}
	s.log.Info().Int64("inv_id", created.ID).Str("make", created.Make).Str("model", created.Model).Msg("vehicle added")
	return created, nil
}

func (s *InventoryService) UpdateVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error) {
	updated, err := s.repo.UpdateVehicle(ctx, v)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	s.log.Info().Int64("inv_id", updated.ID).Msg("vehicle updated")
	return updated, nil
}

func (s *InventoryService) DeleteVehicle(ctx context.Context, id int64) error {
	if err := s.repo.DeleteVehicle(ctx, id); err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			return err
		}
		return fmt.Errorf("delete vehicle: %w", err)
	}
	s.log.Info().Int64("inv_id", id).Msg("vehicle deleted")
	return nil
}
