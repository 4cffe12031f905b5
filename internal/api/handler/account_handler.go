package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/metrics"
	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/api/web"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

const (
	accountHome = "/account/"

	noticeBadCredentials  = "Please check your credentials and try again."
	noticeRegistered      = "Congratulations, you're registered %s. Please log in."
	noticeRegisterFailed  = "Sorry, the registration failed."
	noticeLoggedOut       = "You are now logged out."
	noticeAccountUpdated  = "Your account information has been updated."
	noticeUpdateFailed    = "Sorry, the update failed."
	noticePasswordUpdated = "Your account password was successfully updated."
	noticePasswordFailed  = "Sorry, the password update failed."
	noticeEditForbidden   = "You can only edit your own account."
	noticeRowUpdated      = "Account %d %s was updated."
	noticeRowFailed       = "An error occurred for account %d %s: it failed to update."
	noticeRowInvalid      = "Account %d %s was not updated: %s"
	noticeCommentPosted   = "Your comment was posted."
	noticeCommentFailed   = "Sorry, your comment could not be posted."

	msgEmailRegistered = "Email exists. Please log in or use a different email."
	msgEmailTaken      = "Email exists. Please use a different email."

	fieldAccountEmail = "account_email"
)

type AccountHandler struct {
	*Pages
	auth     ports.AuthService
	accounts ports.AccountService
	comments ports.CommentService
	vehicles ports.InventoryService
	jar      *web.Jar
	log      zerolog.Logger
}

func NewAccountHandler(
	pages *Pages,
	auth ports.AuthService,
	accounts ports.AccountService,
	comments ports.CommentService,
	vehicles ports.InventoryService,
	jar *web.Jar,
	log zerolog.Logger,
) *AccountHandler {
	return &AccountHandler{
		Pages:    pages,
		auth:     auth,
		accounts: accounts,
		comments: comments,
		vehicles: vehicles,
		jar:      jar,
		log:      log,
	}
}

func (h *AccountHandler) LoginPage(c echo.Context) error {
	return h.Render(c, http.StatusOK, "account/login", h.Page(c, "Login"))
}

// Login authenticates the form credentials. The session is persisted by the
// auth service before any cookie or redirect is written.
func (h *AccountHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Email = strings.TrimSpace(form.Email)

	page := h.Page(c, "Login")
	page.Form = form
	if err := c.Validate(&form); err != nil {
		ve, ok := formErrors(err)
		if !ok {
			return err
		}
		page.Errors = ve
		return h.Render(c, http.StatusBadRequest, "account/login", page)
	}

	res, err := h.auth.Login(c.Request().Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
			page.Notices = append(page.Notices, noticeBadCredentials)
			return h.Render(c, http.StatusBadRequest, "account/login", page)
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return err
	}

	if err := h.jar.SetSession(c, res.Session.ID); err != nil {
		return fmt.Errorf("set session cookie: %w", err)
	}
	h.jar.SetToken(c, res.Token)
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.Redirect(http.StatusSeeOther, accountHome)
}

// Logout deletes the server-side session and clears both auth cookies.
func (h *AccountHandler) Logout(c echo.Context) error {
	if sid, ok := h.jar.SessionID(c); ok {
		if err := h.auth.Logout(c.Request().Context(), sid); err != nil {
			h.log.Error().Err(err).Msg("logout: delete session")
		}
	}
	h.jar.ClearToken(c)
	h.jar.ClearSession(c)
	h.Flash(c, noticeLoggedOut)
	return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func (h *AccountHandler) RegisterPage(c echo.Context) error {
	return h.Render(c, http.StatusOK, "account/register", h.Page(c, "Register"))
}

func (h *AccountHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.FirstName = strings.TrimSpace(form.FirstName)
	form.LastName = strings.TrimSpace(form.LastName)
	form.Email = strings.TrimSpace(form.Email)

	ctx := c.Request().Context()
	page := h.Page(c, "Register")
	page.Form = registerForm{FirstName: form.FirstName, LastName: form.LastName, Email: form.Email}

	errs := ValidationErrors{}
	if err := c.Validate(&form); err != nil {
		ve, ok := formErrors(err)
		if !ok {
			return err
		}
		errs = ve
	}
	if _, bad := errs[fieldAccountEmail]; !bad {
		taken, err := h.accounts.EmailTaken(ctx, form.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			errs[fieldAccountEmail] = msgEmailRegistered
		}
	}
	if len(errs) > 0 {
		page.Errors = errs
		return h.Render(c, http.StatusBadRequest, "account/register", page)
	}

	acc, err := h.auth.Register(ctx, form.FirstName, form.LastName, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			page.Errors = ValidationErrors{fieldAccountEmail: msgEmailRegistered}
			return h.Render(c, http.StatusBadRequest, "account/register", page)
		}
		h.log.Error().Err(err).Str("email", form.Email).Msg("registration failed")
		page.Notices = append(page.Notices, noticeRegisterFailed)
		return h.Render(c, http.StatusInternalServerError, "account/register", page)
	}

	metrics.AccountsRegisteredTotal.Inc()
	login := h.Page(c, "Login")
	login.Form = loginForm{Email: acc.Email}
	login.Notices = append(login.Notices, fmt.Sprintf(noticeRegistered, acc.FirstName))
	return h.Render(c, http.StatusCreated, "account/login", login)
}

func (h *AccountHandler) Management(c echo.Context) error {
	return h.Render(c, http.StatusOK, "account/management", h.Page(c, "Account Management"))
}

func (h *AccountHandler) EditPage(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := caller.AuthorizeAccountEdit(id); err != nil {
		h.Flash(c, noticeEditForbidden)
		return c.Redirect(http.StatusSeeOther, accountHome)
	}

	acc, err := h.accounts.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	page := h.Page(c, "Edit Account Details")
	page.Form = accountForm{ID: acc.ID, FirstName: acc.FirstName, LastName: acc.LastName, Email: acc.Email}
	return h.Render(c, http.StatusOK, "account/edit", page)
}

// Update changes names and email. The role is kept; only the admin panel
// changes roles. Editing one's own account reissues the token cookie so the
// greeting reflects the new details.
func (h *AccountHandler) Update(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var form accountForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.FirstName = strings.TrimSpace(form.FirstName)
	form.LastName = strings.TrimSpace(form.LastName)
	form.Email = strings.TrimSpace(form.Email)

	if err := caller.AuthorizeAccountEdit(form.ID); err != nil {
		h.Flash(c, noticeEditForbidden)
		return c.Redirect(http.StatusSeeOther, accountHome)
	}

	ctx := c.Request().Context()
	page := h.Page(c, "Edit Account Details")
	page.Form = form

	errs := ValidationErrors{}
	if err := c.Validate(&form); err != nil {
		ve, ok := formErrors(err)
		if !ok {
			return err
		}
		errs = ve
	}
	if _, bad := errs[fieldAccountEmail]; !bad {
		taken, err := h.accounts.EmailTaken(ctx, form.Email, form.ID)
		if err != nil {
			return err
		}
		if taken {
			errs[fieldAccountEmail] = msgEmailTaken
		}
	}
	if len(errs) > 0 {
		page.Errors = errs
		return h.Render(c, http.StatusBadRequest, "account/edit", page)
	}

	current, err := h.accounts.Get(ctx, form.ID)
	if err != nil {
		return err
	}
	acc, err := h.accounts.UpdateInfo(ctx, domain.AccountUpdate{
		ID:        form.ID,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Role:      current.Role,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			page.Errors = ValidationErrors{fieldAccountEmail: msgEmailTaken}
			return h.Render(c, http.StatusBadRequest, "account/edit", page)
		}
		h.log.Error().Err(err).Int64("account_id", form.ID).Msg("account update failed")
		page.Notices = append(page.Notices, noticeUpdateFailed)
		return h.Render(c, http.StatusInternalServerError, "account/edit", page)
	}

	if acc.ID == caller.AccountID {
		token, err := h.auth.IssueToken(acc.Identity())
		if err != nil {
			return fmt.Errorf("reissue token: %w", err)
		}
		h.jar.SetToken(c, token)
	}
	h.Flash(c, noticeAccountUpdated)
	return c.Redirect(http.StatusSeeOther, accountHome)
}

func (h *AccountHandler) UpdatePassword(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var form passwordForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := caller.AuthorizeAccountEdit(form.ID); err != nil {
		h.Flash(c, noticeEditForbidden)
		return c.Redirect(http.StatusSeeOther, accountHome)
	}

	ctx := c.Request().Context()
	acc, err := h.accounts.Get(ctx, form.ID)
	if err != nil {
		return err
	}
	page := h.Page(c, "Edit Account Details")
	page.Form = accountForm{ID: acc.ID, FirstName: acc.FirstName, LastName: acc.LastName, Email: acc.Email}

	if err := c.Validate(&form); err != nil {
		ve, ok := formErrors(err)
		if !ok {
			return err
		}
		page.Errors = ve
		return h.Render(c, http.StatusBadRequest, "account/edit", page)
	}

	if err := h.accounts.UpdatePassword(ctx, form.ID, form.Password); err != nil {
		h.log.Error().Err(err).Int64("account_id", form.ID).Msg("password update failed")
		page.Notices = append(page.Notices, noticePasswordFailed)
		return h.Render(c, http.StatusInternalServerError, "account/edit", page)
	}

	h.Flash(c, noticePasswordUpdated)
	return c.Redirect(http.StatusSeeOther, accountHome)
}

func (h *AccountHandler) AdminPage(c echo.Context) error {
	return h.renderAdmin(c, nil)
}

// AdminUpdate applies every submitted row on its own. Invalid rows are
// reported without touching the store; valid rows are updated concurrently
// and each gets its own notice.
func (h *AccountHandler) AdminUpdate(c echo.Context) error {
	params, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	rows := parseAdminRows(params)

	var notices []string
	valid := make([]domain.AccountUpdate, 0, len(rows))
	for _, row := range rows {
		if err := c.Validate(&row); err != nil {
			ve, ok := formErrors(err)
			if !ok {
				return err
			}
			metrics.BulkUpdateRowsTotal.WithLabelValues("invalid").Inc()
			notices = append(notices, fmt.Sprintf(noticeRowInvalid, row.ID, row.Email, ve.Error()))
			continue
		}
		valid = append(valid, row.update())
	}

	for _, res := range h.accounts.BulkUpdate(c.Request().Context(), valid) {
		switch {
		case res.Err != nil:
			metrics.BulkUpdateRowsTotal.WithLabelValues("failed").Inc()
			notices = append(notices, fmt.Sprintf(noticeRowFailed, res.Update.ID, res.Update.Email))
		case res.Changed:
			metrics.BulkUpdateRowsTotal.WithLabelValues("updated").Inc()
			notices = append(notices, fmt.Sprintf(noticeRowUpdated, res.Update.ID, res.Update.Email))
		default:
			metrics.BulkUpdateRowsTotal.WithLabelValues("unchanged").Inc()
		}
	}

	return h.renderAdmin(c, notices)
}

func (h *AccountHandler) renderAdmin(c echo.Context, notices []string) error {
	accounts, err := h.accounts.List(c.Request().Context())
	if err != nil {
		return err
	}
	page := h.Page(c, "Admin Panel")
	page.Notices = notices
	page.Data = accounts
	return h.Render(c, http.StatusOK, "account/admin", page)
}

// AddComment posts a comment as the caller and returns to the vehicle page.
func (h *AccountHandler) AddComment(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var form commentForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Text = strings.TrimSpace(form.Text)

	ctx := c.Request().Context()
	if _, err := h.vehicles.Vehicle(ctx, form.VehicleID); err != nil {
		return err
	}
	back := fmt.Sprintf("/inv/detail/%d", form.VehicleID)

	if err := c.Validate(&form); err != nil {
		ve, ok := formErrors(err)
		if !ok {
			return err
		}
		h.Flash(c, ve.Error())
		return c.Redirect(http.StatusSeeOther, back)
	}

	if _, err := h.comments.Add(ctx, caller.AccountID, form.VehicleID, form.Text); err != nil {
		h.log.Error().Err(err).Int64("inv_id", form.VehicleID).Msg("add comment failed")
		h.Flash(c, noticeCommentFailed)
		return c.Redirect(http.StatusSeeOther, back)
	}
	h.Flash(c, noticeCommentPosted)
	return c.Redirect(http.StatusSeeOther, back)
}
