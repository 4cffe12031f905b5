package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/csemotors/dealership/internal/core/domain"
)

const vehicleColumns = `i.inv_id, i.classification_id, c.classification_name, i.inv_make, i.inv_model,
	i.inv_year, i.inv_description, i.inv_image, i.inv_thumbnail, i.inv_price, i.inv_miles, i.inv_color`

type InventoryRepository struct {
	db *sql.DB
}

func NewInventoryRepository(db *sql.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// ListClassifications returns every classification ordered by name.
func (r *InventoryRepository) ListClassifications(ctx context.Context) ([]domain.Classification, error) {
	const op = "postgres.InventoryRepository.ListClassifications"

	rows, err := r.db.QueryContext(ctx,
		`SELECT classification_id, classification_name FROM classification ORDER BY classification_name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []domain.Classification
	for rows.Next() {
		var c domain.Classification
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (r *InventoryRepository) ClassificationExists(ctx context.Context, name string) (bool, error) {
	const op = "postgres.InventoryRepository.ClassificationExists"

	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM classification WHERE classification_name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

func (r *InventoryRepository) CreateClassification(ctx context.Context, name string) (*domain.Classification, error) {
	const op = "postgres.InventoryRepository.CreateClassification"

	c := domain.Classification{Name: name}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO classification (classification_name) VALUES ($1) RETURNING classification_id`, name).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrClassificationExists
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// ListByClassification returns the vehicles of a classification joined with its name.
func (r *InventoryRepository) ListByClassification(ctx context.Context, classificationID int64) ([]domain.Vehicle, error) {
	const op = "postgres.InventoryRepository.ListByClassification"

	query := `SELECT ` + vehicleColumns + `
			  FROM inventory AS i
			  JOIN classification AS c ON i.classification_id = c.classification_id
			  WHERE i.classification_id = $1
			  ORDER BY i.inv_id`
	rows, err := r.db.QueryContext(ctx, query, classificationID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (r *InventoryRepository) FindVehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	const op = "postgres.InventoryRepository.FindVehicle"

	query := `SELECT ` + vehicleColumns + `
			  FROM inventory AS i
			  JOIN classification AS c ON i.classification_id = c.classification_id
			  WHERE i.inv_id = $1`
	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (r *InventoryRepository) CreateVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error) {
	const op = "postgres.InventoryRepository.CreateVehicle"

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO inventory (
			classification_id, inv_make, inv_model, inv_year,
			inv_description, inv_image, inv_thumbnail,
			inv_price, inv_miles, inv_color
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING inv_id`,
		v.ClassificationID, v.Make, v.Model, v.Year,
		v.Description, v.Image, v.Thumbnail,
		v.Price, v.Miles, v.Color,
	).Scan(&v.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &v, nil
}

func (r *InventoryRepository) UpdateVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error) {
	const op = "postgres.InventoryRepository.UpdateVehicle"

	res, err := r.db.ExecContext(ctx, `
		UPDATE inventory
		SET inv_make = $1, inv_model = $2, inv_description = $3, inv_image = $4,
		    inv_thumbnail = $5, inv_price = $6, inv_year = $7, inv_miles = $8,
		    inv_color = $9, classification_id = $10
		WHERE inv_id = $11`,
		v.Make, v.Model, v.Description, v.Image,
		v.Thumbnail, v.Price, v.Year, v.Miles,
		v.Color, v.ClassificationID, v.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return nil, domain.ErrVehicleNotFound
	}
	return &v, nil
}

func (r *InventoryRepository) DeleteVehicle(ctx context.Context, id int64) error {
	const op = "postgres.InventoryRepository.DeleteVehicle"

	res, err := r.db.ExecContext(ctx, `DELETE FROM inventory WHERE inv_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := row.Scan(&v.ID, &v.ClassificationID, &v.ClassificationName, &v.Make, &v.Model,
		&v.Year, &v.Description, &v.Image, &v.Thumbnail, &v.Price, &v.Miles, &v.Color)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
