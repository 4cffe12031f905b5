package service

import (
	"context"
	"errors"
	"sync"

	"github.com/csemotors/dealership/internal/core/domain"
)

type stubAccountRepo struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]*domain.Credentials
	// failUpdate makes UpdateInfo fail for the listed ids.
	failUpdate map[int64]error
	// existsCalls counts EmailExists lookups.
	existsCalls int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[int64]*domain.Credentials), failUpdate: make(map[int64]error)}
}

func (r *stubAccountRepo) seed(acc domain.Account, hash string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[acc.ID] = &domain.Credentials{Account: acc, PasswordHash: hash}
	if acc.ID > r.nextID {
		r.nextID = acc.ID
	}
}

func (r *stubAccountRepo) Create(_ context.Context, firstName, lastName, email, hash string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.accounts {
		if c.Email == email {
			return nil, domain.ErrEmailExists
		}
	}
	r.nextID++
	acc := domain.Account{ID: r.nextID, FirstName: firstName, LastName: lastName, Email: email, Role: domain.RoleClient}
	r.accounts[acc.ID] = &domain.Credentials{Account: acc, PasswordHash: hash}
	return &acc, nil
}

func (r *stubAccountRepo) FindCredentials(_ context.Context, email string) (*domain.Credentials, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.accounts {
		if c.Email == email {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	acc := c.Account
	return &acc, nil
}

func (r *stubAccountRepo) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	c, err := r.FindCredentials(ctx, email)
	if err != nil {
		return nil, err
	}
	return &c.Account, nil
}

func (r *stubAccountRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	r.existsCalls++
	r.mu.Unlock()
	_, err := r.FindCredentials(ctx, email)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *stubAccountRepo) List(_ context.Context) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Account, 0, len(r.accounts))
	for id := int64(1); id <= r.nextID; id++ {
		if c, ok := r.accounts[id]; ok {
			out = append(out, c.Account)
		}
	}
	return out, nil
}

func (r *stubAccountRepo) UpdateInfo(_ context.Context, upd domain.AccountUpdate) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failUpdate[upd.ID]; ok {
		return nil, err
	}
	c, ok := r.accounts[upd.ID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	c.FirstName, c.LastName, c.Email, c.Role = upd.FirstName, upd.LastName, upd.Email, upd.Role
	acc := c.Account
	return &acc, nil
}

func (r *stubAccountRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	c.PasswordHash = hash
	return nil
}

type stubSessionRepo struct {
	mu        sync.Mutex
	sessions  map[string]domain.Session
	createErr error
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]domain.Session)}
}

func (r *stubSessionRepo) Create(_ context.Context, s domain.Session) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return nil
}

func (r *stubSessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (r *stubSessionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}
