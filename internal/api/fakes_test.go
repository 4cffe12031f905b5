package api

import (
	"context"
	"errors"
	"time"

	"github.com/csemotors/dealership/internal/api/web"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

var errNotImplemented = errors.New("not implemented")

const clientToken = "client-token"

type fakeAuth struct{}

func (fakeAuth) Register(context.Context, string, string, string, string) (*domain.Account, error) {
	return nil, errNotImplemented
}

func (fakeAuth) Login(context.Context, string, string) (*ports.LoginResult, error) {
	return nil, domain.ErrInvalidCredentials
}

func (fakeAuth) Logout(context.Context, string) error { return nil }

func (fakeAuth) Authenticate(raw string) (domain.Identity, error) {
	if raw == clientToken {
		return domain.Identity{AccountID: 1, FirstName: "Carla", Email: "carla@example.com", Role: domain.RoleClient}, nil
	}
	return domain.Identity{}, errors.New("token expired")
}

func (fakeAuth) IssueToken(domain.Identity) (string, error) { return "", errNotImplemented }

type fakeAccounts struct{}

func (fakeAccounts) Get(context.Context, int64) (*domain.Account, error) {
	return nil, domain.ErrAccountNotFound
}

func (fakeAccounts) EmailTaken(context.Context, string, int64) (bool, error) { return false, nil }

func (fakeAccounts) UpdateInfo(context.Context, domain.AccountUpdate) (*domain.Account, error) {
	return nil, errNotImplemented
}

func (fakeAccounts) UpdatePassword(context.Context, int64, string) error { return errNotImplemented }

func (fakeAccounts) List(context.Context) ([]domain.Account, error) { return nil, nil }

func (fakeAccounts) BulkUpdate(context.Context, []domain.AccountUpdate) []ports.BulkRowResult {
	return nil
}

type fakeInventory struct{}

func (fakeInventory) Classifications(context.Context) ([]domain.Classification, error) {
	return []domain.Classification{{ID: 1, Name: "SUV"}}, nil
}

func (fakeInventory) AddClassification(context.Context, string) (*domain.Classification, error) {
	return nil, errNotImplemented
}

func (fakeInventory) VehiclesByClassification(context.Context, int64) ([]domain.Vehicle, error) {
	return nil, nil
}

func (fakeInventory) Vehicle(context.Context, int64) (*domain.Vehicle, error) {
	return nil, domain.ErrVehicleNotFound
}

func (fakeInventory) AddVehicle(context.Context, domain.Vehicle) (*domain.Vehicle, error) {
	return nil, errNotImplemented
}

func (fakeInventory) UpdateVehicle(context.Context, domain.Vehicle) (*domain.Vehicle, error) {
	return nil, errNotImplemented
}

func (fakeInventory) DeleteVehicle(context.Context, int64) error { return errNotImplemented }

type fakeComments struct{}

func (fakeComments) ForVehicle(context.Context, int64) ([]domain.Comment, error) { return nil, nil }

func (fakeComments) Add(context.Context, int64, int64, string) (*domain.Comment, error) {
	return nil, errNotImplemented
}

func newTestJar() *web.Jar {
	return web.NewJar([]byte("0123456789abcdef0123456789abcdef-api-tests"), time.Hour, time.Hour, false)
}
