package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/view"
	"github.com/csemotors/dealership/internal/api/web"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef-handler-tests")

type stubAuthService struct {
	registerFn     func(ctx context.Context, first, last, email, password string) (*domain.Account, error)
	loginFn        func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	logoutFn       func(ctx context.Context, sid string) error
	authenticateFn func(raw string) (domain.Identity, error)
	issueFn        func(id domain.Identity) (string, error)
}

func (s *stubAuthService) Register(ctx context.Context, first, last, email, password string) (*domain.Account, error) {
	return s.registerFn(ctx, first, last, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, sid string) error {
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx, sid)
}

func (s *stubAuthService) Authenticate(raw string) (domain.Identity, error) {
	return s.authenticateFn(raw)
}

func (s *stubAuthService) IssueToken(id domain.Identity) (string, error) {
	return s.issueFn(id)
}

type stubAccountService struct {
	getFn            func(ctx context.Context, id int64) (*domain.Account, error)
	emailTakenFn     func(ctx context.Context, email string, exceptID int64) (bool, error)
	updateInfoFn     func(ctx context.Context, upd domain.AccountUpdate) (*domain.Account, error)
	updatePasswordFn func(ctx context.Context, id int64, password string) error
	listFn           func(ctx context.Context) ([]domain.Account, error)
	bulkFn           func(ctx context.Context, rows []domain.AccountUpdate) []ports.BulkRowResult
}

func (s *stubAccountService) Get(ctx context.Context, id int64) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *stubAccountService) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	if s.emailTakenFn == nil {
		return false, nil
	}
	return s.emailTakenFn(ctx, email, exceptID)
}

func (s *stubAccountService) UpdateInfo(ctx context.Context, upd domain.AccountUpdate) (*domain.Account, error) {
	return s.updateInfoFn(ctx, upd)
}

func (s *stubAccountService) UpdatePassword(ctx context.Context, id int64, password string) error {
	return s.updatePasswordFn(ctx, id, password)
}

func (s *stubAccountService) List(ctx context.Context) ([]domain.Account, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s *stubAccountService) BulkUpdate(ctx context.Context, rows []domain.AccountUpdate) []ports.BulkRowResult {
	return s.bulkFn(ctx, rows)
}

type stubInventoryService struct {
	classificationsFn   func(ctx context.Context) ([]domain.Classification, error)
	addClassificationFn func(ctx context.Context, name string) (*domain.Classification, error)
	byClassificationFn  func(ctx context.Context, id int64) ([]domain.Vehicle, error)
	vehicleFn           func(ctx context.Context, id int64) (*domain.Vehicle, error)
	addVehicleFn        func(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error)
	updateVehicleFn     func(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error)
	deleteVehicleFn     func(ctx context.Context, id int64) error
}

func (s *stubInventoryService) Classifications(ctx context.Context) ([]domain.Classification, error) {
	if s.classificationsFn == nil {
		return nil, nil
	}
	return s.classificationsFn(ctx)
}

func (s *stubInventoryService) AddClassification(ctx context.Context, name string) (*domain.Classification, error) {
	return s.addClassificationFn(ctx, name)
}

func (s *stubInventoryService) VehiclesByClassification(ctx context.Context, id int64) ([]domain.Vehicle, error) {
	return s.byClassificationFn(ctx, id)
}

func (s *stubInventoryService) Vehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return s.vehicleFn(ctx, id)
}

func (s *stubInventoryService) AddVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error) {
	return s.addVehicleFn(ctx, v)
}

func (s *stubInventoryService) UpdateVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error) {
	return s.updateVehicleFn(ctx, v)
}

func (s *stubInventoryService) DeleteVehicle(ctx context.Context, id int64) error {
	return s.deleteVehicleFn(ctx, id)
}

type stubCommentService struct {
	forVehicleFn func(ctx context.Context, vehicleID int64) ([]domain.Comment, error)
	addFn        func(ctx context.Context, accountID, vehicleID int64, text string) (*domain.Comment, error)
}

func (s *stubCommentService) ForVehicle(ctx context.Context, vehicleID int64) ([]domain.Comment, error) {
	if s.forVehicleFn == nil {
		return nil, nil
	}
	return s.forVehicleFn(ctx, vehicleID)
}

func (s *stubCommentService) Add(ctx context.Context, accountID, vehicleID int64, text string) (*domain.Comment, error) {
	return s.addFn(ctx, accountID, vehicleID, text)
}

// newTestEcho returns an echo instance with the real renderer and validator.
func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	r, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e := echo.New()
	e.Renderer = r
	e.Validator = NewValidator()
	return e
}

func newTestJar() *web.Jar {
	return web.NewJar(testSecret, time.Hour, time.Hour, false)
}

func newTestPages(inv *stubInventoryService, jar *web.Jar) *Pages {
	return NewPages(inv, jar, zerolog.Nop())
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

// responseCookie returns the last Set-Cookie with the given name.
func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			found = ck
		}
	}
	return found
}
