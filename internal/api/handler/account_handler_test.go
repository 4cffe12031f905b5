package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/api/web"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

var ada = domain.Identity{AccountID: 7, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Role: domain.RoleClient}

func newAccountHandler(auth *stubAuthService, accounts *stubAccountService, inv *stubInventoryService, comments *stubCommentService) (*AccountHandler, *web.Jar) {
	jar := newTestJar()
	if inv == nil {
		inv = &stubInventoryService{}
	}
	if comments == nil {
		comments = &stubCommentService{}
	}
	h := NewAccountHandler(newTestPages(inv, jar), auth, accounts, comments, inv, jar, zerolog.Nop())
	return h, jar
}

func TestAccountHandler_Login_SetsCookiesAndRedirects(t *testing.T) {
	e := newTestEcho(t)
	auth := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "ada@example.com" || password != "Secret#123456" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return &ports.LoginResult{
				Identity: ada,
				Token:    "signed.jwt.token",
				Session:  domain.Session{ID: "sess-1", Identity: ada},
			}, nil
		},
	}
	h, jar := newAccountHandler(auth, &stubAccountService{}, nil, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/account/login", url.Values{
		"account_email":    {"ada@example.com"},
		"account_password": {"Secret#123456"},
	}), rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/account/" {
		t.Fatalf("expected redirect to /account/, got %q", loc)
	}

	tok := responseCookie(rec, web.TokenCookie)
	if tok == nil || tok.Value != "signed.jwt.token" || !tok.HttpOnly {
		t.Fatalf("unexpected jwt cookie: %+v", tok)
	}
	sid := responseCookie(rec, web.SessionCookie)
	if sid == nil || sid.Value == "" {
		t.Fatalf("expected sid cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sid)
	got, ok := jar.SessionID(e.NewContext(req, httptest.NewRecorder()))
	if !ok || got != "sess-1" {
		t.Fatalf("expected signed session id sess-1, got %q", got)
	}
}

func TestAccountHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho(t)
	auth := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h, _ := newAccountHandler(auth, &stubAccountService{}, nil, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/account/login", url.Values{
		"account_email":    {"ada@example.com"},
		"account_password": {"wrong"},
	}), rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Please check your credentials and try again.") {
		t.Fatalf("expected credentials notice")
	}
	if !strings.Contains(rec.Body.String(), `value="ada@example.com"`) {
		t.Fatalf("expected sticky email")
	}
	if responseCookie(rec, web.TokenCookie) != nil || responseCookie(rec, web.SessionCookie) != nil {
		t.Fatalf("no auth cookies expected on failed login")
	}
}

func TestAccountHandler_Login_StoreFailurePropagates(t *testing.T) {
	e := newTestEcho(t)
	boom := errors.New("session store down")
	auth := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			return nil, boom
		},
	}
	h, _ := newAccountHandler(auth, &stubAccountService{}, nil, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/account/login", url.Values{
		"account_email":    {"ada@example.com"},
		"account_password": {"Secret#123456"},
	}), rec)

	if err := h.Login(c); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if responseCookie(rec, web.TokenCookie) != nil || responseCookie(rec, web.SessionCookie) != nil {
		t.Fatalf("no cookies expected when the session was not stored")
	}
}

func TestAccountHandler_Login_ValidationSkipsService(t *testing.T) {
	e := newTestEcho(t)
	auth := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			t.Fatalf("login should not be called")
			return nil, nil
		},
	}
	h, _ := newAccountHandler(auth, &stubAccountService{}, nil, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/account/login", url.Values{"account_email": {"not-an-email"}}), rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "A valid email is required.") {
		t.Fatalf("expected field error in body")
	}
}

func TestAccountHandler_Logout_DeletesSessionAndClearsCookies(t *testing.T) {
	e := newTestEcho(t)
	var deleted string
	auth := &stubAuthService{
		logoutFn: func(ctx context.Context, sid string) error {
			deleted = sid
			return nil
		},
	}
	h, jar := newAccountHandler(auth, &stubAccountService{}, nil, nil)

	seed := httptest.NewRecorder()
	if err := jar.SetSession(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), seed), "sess-9"); err != nil {
		t.Fatalf("seed session cookie: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/account/logout", nil)
	req.AddCookie(responseCookie(seed, web.SessionCookie))
	req.AddCookie(&http.Cookie{Name: web.TokenCookie, Value: "signed.jwt.token"})
	rec := httptest.NewRecorder()

	if err := h.Logout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if deleted != "sess-9" {
		t.Fatalf("expected session sess-9 deleted, got %q", deleted)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != middleware.LoginPath {
		t.Fatalf("expected redirect to login, got %q", loc)
	}
	for _, name := range []string{web.TokenCookie, web.SessionCookie} {
		ck := responseCookie(rec, name)
		if ck == nil || ck.MaxAge >= 0 {
			t.Fatalf("expected %s cookie cleared, got %+v", name, ck)
		}
	}
	if responseCookie(rec, web.FlashCookie) == nil {
		t.Fatalf("expected logout notice to be flashed")
	}
}

func TestAccountHandler_Register_Success(t *testing.T) {
	e := newTestEcho(t)
	auth := &stubAuthService{
		registerFn: func(ctx context.Context, first, last, email, password string) (*domain.Account, error) {
			if first != "Ada" || last != "Lovelace" || email != "ada@example.com" {
				t.Fatalf("unexpected args: %s %s %s", first, last, email)
			}
			return &domain.Account{ID: 7, FirstName: first, LastName: last, Email: email, Role: domain.RoleClient}, nil
		},
	}
	h, _ := newAccountHandler(auth, &stubAccountService{}, nil, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/account/register", url.Values{
		"account_firstname": {" Ada "},
		"account_lastname":  {"Lovelace"},
		"account_email":     {"ada@example.com"},
		"account_password":  {"Secret#123456"},
	}), rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "registered Ada. Please log in.") {
		t.Fatalf("expected registration notice, got %s", body)
	}
	if !strings.Contains(body, `action="/account/login"`) {
		t.Fatalf("expected the login page")
	}
}

func TestAccountHandler_Register_WeakPassword(t *testing.T) {
	e := newTestEcho(t)
	auth := &stubAuthService{
		registerFn: func(ctx context.Context, first, last, email, password string) (*domain.Account, error) {
			t.Fatalf("register should not be called")
			return nil, nil
		},
	}
	h, _ := newAccountHandler(auth, &stubAccountService{}, nil, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/account/register", url.Values{
		"account_firstname": {"Ada"},
		"account_lastname":  {"Lovelace"},
		"account_email":     {"ada@example.com"},
		"account_password":  {"short"},
	}), rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Password does not meet requirements.") {
		t.Fatalf("expected password error")
	}
	if strings.Contains(body, `value="short"`) {
		t.Fatalf("password must not be echoed back")
	}
}

func TestAccountHandler_Register_EmailTaken(t *testing.T) {
	e := newTestEcho(t)
	auth := &stubAuthService{
		registerFn: func(ctx context.Context, first, last, email, password string) (*domain.Account, error) {
			t.Fatalf("register should not be called")
			return nil, nil
		},
	}
	accounts := &stubAccountService{
		emailTakenFn: func(ctx context.Context, email string, exceptID int64) (bool, error) {
			return email == "ada@example.com" && exceptID == 0, nil
		},
	}
	h, _ := newAccountHandler(auth, accounts, nil, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/account/register", url.Values{
		"account_firstname": {"Ada"},
		"account_lastname":  {"Lovelace"},
		"account_email":     {"ada@example.com"},
		"account_password":  {"Secret#123456"},
	}), rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Email exists. Please log in or use a different email.") {
		t.Fatalf("expected email exists error")
	}
}

func TestAccountHandler_Update_SelfReissuesToken(t *testing.T) {
	e := newTestEcho(t)
	var issuedFor domain.Identity
	auth := &stubAuthService{
		issueFn: func(id domain.Identity) (string, error) {
			issuedFor = id
			return "fresh.jwt.token", nil
		},
	}
	accounts := &stubAccountService{
		getFn: func(ctx context.Context, id int64) (*domain.Account, error) {
			return &domain.Account{ID: 7, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Role: domain.RoleClient}, nil
		},
		updateInfoFn: func(ctx context.Context, upd domain.AccountUpdate) (*domain.Account, error) {
			if upd.Role != domain.RoleClient {
				t.Fatalf("role must be kept, got %s", upd.Role)
			}
			return &domain.Account{ID: upd.ID, FirstName: upd.FirstName, LastName: upd.LastName, Email: upd.Email, Role: upd.Role}, nil
		},
	}
	h, _ := newAccountHandler(auth, accounts, nil, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/account/update", url.Values{
		"account_id":        {"7"},
		"account_firstname": {"Augusta"},
		"account_lastname":  {"Lovelace"},
		"account_email":     {"augusta@example.com"},
	}), rec)
	middleware.SetIdentity(c, ada)

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/account/" {
		t.Fatalf("expected redirect to /account/, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if issuedFor.FirstName != "Augusta" || issuedFor.Email != "augusta@example.com" {
		t.Fatalf("token not reissued with new details: %+v", issuedFor)
	}
	if ck := responseCookie(rec, web.TokenCookie); ck == nil || ck.Value != "fresh.jwt.token" {
		t.Fatalf("expected refreshed jwt cookie, got %+v", ck)
	}
}

func TestAccountHandler_Update_OtherAccountForbiddenForClient(t *testing.T) {
	e := newTestEcho(t)
	accounts := &stubAccountService{
		updateInfoFn: func(ctx context.Context, upd domain.AccountUpdate) (*domain.Account, error) {
			t.Fatalf("update should not be called")
			return nil, nil
		},
	}
	h, _ := newAccountHandler(&stubAuthService{}, accounts, nil, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/account/update", url.Values{
		"account_id":        {"8"},
		"account_firstname": {"Mallory"},
		"account_lastname":  {"Smith"},
		"account_email":     {"mallory@example.com"},
	}), rec)
	middleware.SetIdentity(c, ada)

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
}

func TestAccountHandler_UpdatePassword_WeakPassword(t *testing.T) {
	e := newTestEcho(t)
	accounts := &stubAccountService{
		getFn: func(ctx context.Context, id int64) (*domain.Account, error) {
			return &domain.Account{ID: 7, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Role: domain.RoleClient}, nil
		},
		updatePasswordFn: func(ctx context.Context, id int64, password string) error {
			t.Fatalf("update password should not be called")
			return nil
		},
	}
	h, _ := newAccountHandler(&stubAuthService{}, accounts, nil, nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/account/update/password", url.Values{
		"account_id":       {"7"},
		"account_password": {"alllowercase"},
	}), rec)
	middleware.SetIdentity(c, ada)

	if err := h.UpdatePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_AdminUpdate_PartialFailure(t *testing.T) {
	e := newTestEcho(t)
	accounts := &stubAccountService{
		bulkFn: func(ctx context.Context, rows []domain.AccountUpdate) []ports.BulkRowResult {
			if len(rows) != 2 || rows[0].ID != 1 || rows[1].ID != 3 {
				t.Fatalf("expected rows 1 and 3, got %+v", rows)
			}
			if rows[1].Role != domain.RoleEmployee {
				t.Fatalf("expected parsed role, got %s", rows[1].Role)
			}
			return []ports.BulkRowResult{
				{Update: rows[0], Changed: true},
				{Update: rows[1], Err: errors.New("db down")},
			}
		},
		listFn: func(ctx context.Context) ([]domain.Account, error) {
			return []domain.Account{
				{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Role: domain.RoleClient},
				{ID: 2, FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Role: domain.RoleClient},
				{ID: 3, FirstName: "Bob", LastName: "Builder", Email: "bob@example.com", Role: domain.RoleClient},
			}, nil
		},
	}
	h, _ := newAccountHandler(&stubAuthService{}, accounts, nil, nil)

	form := url.Values{
		"accounts[0][account_id]":        {"1"},
		"accounts[0][account_firstname]": {"Ada"},
		"accounts[0][account_lastname]":  {"Lovelace"},
		"accounts[0][account_email]":     {"ada@example.com"},
		"accounts[0][account_type]":      {"Admin"},
		"accounts[1][account_id]":        {"2"},
		"accounts[1][account_firstname]": {"Grace"},
		"accounts[1][account_lastname]":  {"Hopper"},
		"accounts[1][account_email]":     {"grace@example.com"},
		"accounts[1][account_type]":      {"Superuser"},
		"accounts[2][account_id]":        {"3"},
		"accounts[2][account_firstname]": {"Bob"},
		"accounts[2][account_lastname]":  {"Builder"},
		"accounts[2][account_email]":     {"bob@example.com"},
		"accounts[2][account_type]":      {"Employee"},
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/account/admin", form), rec)
	middleware.SetIdentity(c, domain.Identity{AccountID: 99, FirstName: "Root", Role: domain.RoleOwner})

	if err := h.AdminUpdate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Account 1 ada@example.com was updated.",
		"Account 2 grace@example.com was not updated: Please choose a valid account type.",
		"An error occurred for account 3 bob@example.com",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body", want)
		}
	}
}

func TestAccountHandler_AddComment(t *testing.T) {
	e := newTestEcho(t)
	inv := &stubInventoryService{
		vehicleFn: func(ctx context.Context, id int64) (*domain.Vehicle, error) {
			return &domain.Vehicle{ID: id, Make: "DMC", Model: "Delorean"}, nil
		},
	}
	var posted string
	comments := &stubCommentService{
		addFn: func(ctx context.Context, accountID, vehicleID int64, text string) (*domain.Comment, error) {
			if accountID != 7 || vehicleID != 5 {
				t.Fatalf("unexpected ids: %d %d", accountID, vehicleID)
			}
			posted = text
			return &domain.Comment{ID: 1, AccountID: accountID, VehicleID: vehicleID, Text: text}, nil
		},
	}
	h, _ := newAccountHandler(&stubAuthService{}, &stubAccountService{}, inv, comments)

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/account/comments", url.Values{
		"inv_id":       {"5"},
		"comment_text": {"  Great car  "},
	}), rec)
	middleware.SetIdentity(c, ada)

	if err := h.AddComment(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if posted != "Great car" {
		t.Fatalf("expected trimmed comment, got %q", posted)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/inv/detail/5" {
		t.Fatalf("expected redirect to detail page, got %q", loc)
	}
}

func TestAccountHandler_EditPage_RequiresIdentity(t *testing.T) {
	e := newTestEcho(t)
	h, _ := newAccountHandler(&stubAuthService{}, &stubAccountService{}, nil, nil)

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/account/edit/7", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("7")

	err := h.EditPage(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
