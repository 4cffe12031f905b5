package ports

import (
	"context"

	"github.com/csemotors/dealership/internal/core/domain"
)

// AccountRepository defines persistence for accounts.
type AccountRepository interface {
	Create(ctx context.Context, firstName, lastName, email, passwordHash string) (*domain.Account, error)
	FindCredentials(ctx context.Context, email string) (*domain.Credentials, error)
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]domain.Account, error)
	UpdateInfo(ctx context.Context, upd domain.AccountUpdate) (*domain.Account, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// SessionRepository stores server-side sessions.
type SessionRepository interface {
	Create(ctx context.Context, s domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// InventoryRepository defines persistence for classifications and vehicles.
type InventoryRepository interface {
	ListClassifications(ctx context.Context) ([]domain.Classification, error)
	ClassificationExists(ctx context.Context, name string) (bool, error)
	CreateClassification(ctx context.Context, name string) (*domain.Classification, error)
	ListByClassification(ctx context.Context, classificationID int64) ([]domain.Vehicle, error)
	FindVehicle(ctx context.Context, id int64) (*domain.Vehicle, error)
	CreateVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error)
	DeleteVehicle(ctx context.Context, id int64) error
}

// CommentRepository defines persistence for vehicle comments.
type CommentRepository interface {
	ListByVehicle(ctx context.Context, vehicleID int64) ([]domain.Comment, error)
	Create(ctx context.Context, accountID, vehicleID int64, text string) (*domain.Comment, error)
}
