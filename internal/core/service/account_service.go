package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
	"github.com/csemotors/dealership/internal/pkg/password"
)

const defaultBulkWorkers = 4

type AccountService struct {
	repo        ports.AccountRepository
	bulkWorkers int
	log         zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, log zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, bulkWorkers: defaultBulkWorkers, log: log}
}

func (s *AccountService) Get(ctx context.Context, id int64) (*domain.Account, error) {
	acc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return acc, nil
}

// EmailTaken reports whether email belongs to an account other than exceptID.
// exceptID 0 checks against every account.
func (s *AccountService) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	email = strings.TrimSpace(email)
	if exceptID <= 0 {
		exists, err := s.repo.EmailExists(ctx, email)
		if err != nil {
			return false, fmt.Errorf("email taken: %w", err)
		}
		return exists, nil
	}

	acc, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("email taken: %w", err)
	}
	return acc.ID != exceptID, nil
}

func (s *AccountService) UpdateInfo(ctx context.Context, upd domain.AccountUpdate) (*domain.Account, error) {
	if !upd.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	acc, err := s.repo.UpdateInfo(ctx, upd)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) || errors.Is(err, domain.ErrEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	s.log.Info().Int64("account_id", acc.ID).Msg("account updated")
	return acc, nil
}

func (s *AccountService) UpdatePassword(ctx context.Context, id int64, plain string) error {
	hash, err := password.Hash(plain)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return err
		}
		return fmt.Errorf("update password: %w", err)
	}
	s.log.Info().Int64("account_id", id).Msg("account password updated")
	return nil
}

// List returns every account sorted by id.
func (s *AccountService) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// BulkUpdate applies every row independently and concurrently. A failing row
// never aborts the others and nothing is rolled back; results[i] belongs to rows[i].
func (s *AccountService) BulkUpdate(ctx context.Context, rows []domain.AccountUpdate) []ports.BulkRowResult {
	results := make([]ports.BulkRowResult, len(rows))

	var g errgroup.Group
	g.SetLimit(s.bulkWorkers)

	for i, row := range rows {
		g.Go(func() error {
			results[i] = s.applyRow(ctx, row)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *AccountService) applyRow(ctx context.Context, row domain.AccountUpdate) ports.BulkRowResult {
	res := ports.BulkRowResult{Update: row}

	if !row.Role.Valid() {
		res.Err = domain.ErrInvalidRole
		return res
	}

	original, err := s.repo.FindByID(ctx, row.ID)
	if err != nil {
		res.Err = err
		s.log.Warn().Err(err).Int64("account_id", row.ID).Msg("bulk update row failed")
		return res
	}
	if !row.Changes(*original) {
		res.Account = original
		return res
	}

	updated, err := s.repo.UpdateInfo(ctx, row)
	if err != nil {
		res.Err = err
		s.log.Warn().Err(err).Int64("account_id", row.ID).Msg("bulk update row failed")
		return res
	}

	res.Account = updated
	res.Changed = true
	s.log.Info().Int64("account_id", row.ID).Str("role", row.Role.String()).Msg("bulk update row applied")
	return res
}
