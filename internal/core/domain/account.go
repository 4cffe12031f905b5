package domain

import "errors"

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
)

// Account models a registered user. It never carries the password hash;
// see Credentials.
type Account struct {
	ID        int64  `json:"account_id"`
	FirstName string `json:"account_firstname"`
	LastName  string `json:"account_lastname"`
	Email     string `json:"account_email"`
	Role      Role   `json:"account_type"`
}

// Identity returns the snapshot carried by sessions and tokens.
func (a Account) Identity() Identity {
	return Identity{
		AccountID: a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Role:      a.Role,
	}
}

// Credentials pairs an account with its stored bcrypt hash. Only the login
// path loads it.
type Credentials struct {
	Account
	PasswordHash string `json:"-"`
}

// AccountUpdate carries the editable profile fields of an account.
type AccountUpdate struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Role      Role
}

// Changes reports whether applying u to a would alter any field.
func (u AccountUpdate) Changes(a Account) bool {
	return u.FirstName != a.FirstName ||
		u.LastName != a.LastName ||
		u.Email != a.Email ||
		u.Role != a.Role
}
