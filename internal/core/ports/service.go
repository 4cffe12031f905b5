package ports

import (
	"context"

	"github.com/csemotors/dealership/internal/core/domain"
)

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	Identity domain.Identity
	Token    string
	Session  domain.Session
}

// BulkRowResult reports the outcome of a single row of an admin bulk update.
type BulkRowResult struct {
	Update  domain.AccountUpdate
	Account *domain.Account
	Changed bool
	Err     error
}

type AuthService interface {
	Register(ctx context.Context, firstName, lastName, email, password string) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	Authenticate(token string) (domain.Identity, error)
	IssueToken(id domain.Identity) (string, error)
}

type AccountService interface {
	Get(ctx context.Context, id int64) (*domain.Account, error)
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
	UpdateInfo(ctx context.Context, upd domain.AccountUpdate) (*domain.Account, error)
	UpdatePassword(ctx context.Context, id int64, password string) error
	List(ctx context.Context) ([]domain.Account, error)
	BulkUpdate(ctx context.Context, rows []domain.AccountUpdate) []BulkRowResult
}

type InventoryService interface {
	Classifications(ctx context.Context) ([]domain.Classification, error)
	AddClassification(ctx context.Context, name string) (*domain.Classification, error)
	VehiclesByClassification(ctx context.Context, classificationID int64) ([]domain.Vehicle, error)
	Vehicle(ctx context.Context, id int64) (*domain.Vehicle, error)
	AddVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error)
	DeleteVehicle(ctx context.Context, id int64) error
}

type CommentService interface {
	ForVehicle(ctx context.Context, vehicleID int64) ([]domain.Comment, error)
	Add(ctx context.Context, accountID, vehicleID int64, text string) (*domain.Comment, error)
}
