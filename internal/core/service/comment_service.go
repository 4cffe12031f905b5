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

var errEmptyComment = errors.New("comment text is required")

type CommentService struct {
	repo ports.CommentRepository
	log  zerolog.Logger
}

func NewCommentService(repo ports.CommentRepository, log zerolog.Logger) *CommentService {
	return &CommentService{repo: repo, log: log}
}

// ForVehicle lists comments newest first.
func (s *CommentService) ForVehicle(ctx context.Context, vehicleID int64) ([]domain.Comment, error) {
	out, err := s.repo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return out, nil
}

func (s *CommentService) Add(ctx context.Context, accountID, vehicleID int64, text string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errEmptyComment
	}
	c, err := s.repo.Create(ctx, accountID, vehicleID, text)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	s.log.Info().Int64("account_id", accountID).Int64("inv_id", vehicleID).Msg("comment added")
	return c, nil
}
