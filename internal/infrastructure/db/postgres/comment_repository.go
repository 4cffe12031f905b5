package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/csemotors/dealership/internal/core/domain"
)

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// ListByVehicle returns the comments of a vehicle with author names, newest first.
func (r *CommentRepository) ListByVehicle(ctx context.Context, vehicleID int64) ([]domain.Comment, error) {
	const op = "postgres.CommentRepository.ListByVehicle"

	rows, err := r.db.QueryContext(ctx, `
		SELECT c.comment_id, c.account_id, c.inv_id, c.comment_text, c.comment_date,
		       a.account_firstname, a.account_lastname
		FROM comments c
		JOIN account a ON c.account_id = a.account_id
		WHERE c.inv_id = $1
		ORDER BY c.comment_date DESC`, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.AccountID, &c.VehicleID, &c.Text, &c.CreatedAt,
			&c.FirstName, &c.LastName); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (r *CommentRepository) Create(ctx context.Context, accountID, vehicleID int64, text string) (*domain.Comment, error) {
	const op = "postgres.CommentRepository.Create"

	c := domain.Comment{AccountID: accountID, VehicleID: vehicleID, Text: text}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO comments (account_id, inv_id, comment_text, comment_date)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING comment_id, comment_date`, accountID, vehicleID, text).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}
