package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/agricult/storectl/internal/api"
)

// Gateway is the slice of the API client the session service needs.
type Gateway interface {
	Login(ctx context.Context, creds api.Credentials) (*api.LoginResult, error)
	Register(ctx context.Context, reg api.Registration) error
}

// Service owns the in-memory session and keeps the persisted form in sync
// with it on every transition. It implements api.TokenSource.
type Service struct {
	gateway  Gateway
	store    *FileStore
	logger   *slog.Logger
	validate *validator.Validate

	mu       sync.Mutex
	current  Session
	onLogout []func()
}

// NewService creates a session service, restoring any persisted session.
// A corrupt session file degrades to no session rather than failing boot.
func NewService(gateway Gateway, store *FileStore, logger *slog.Logger) (*Service, error) {
	sess, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return &Service{
		gateway:  gateway,
		store:    store,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		current:  sess,
	}, nil
}

// Current returns the active session; the zero value means none.
func (s *Service) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Token implements api.TokenSource.
func (s *Service) Token() string {
	return s.Current().Token
}

// OnLogout registers a hook run after the session is cleared. The cart
// synchronizer registers its Clear so cart data never leaks across
// identities.
func (s *Service) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = append(s.onLogout, fn)
}

// Login authenticates with the server and establishes the session.
// On any failure — rejected credentials, tokenless response, network
// error — the existing session state is left untouched and
// api.ErrInvalidCredentials is returned.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	res, err := s.gateway.Login(ctx, api.Credentials{
		Username: username,
		Password: password,
	})
	if err != nil {
		s.logger.Info("login failed", "username", username, "error", err)
		return Session{}, api.ErrInvalidCredentials
	}

	sess := Session{
		Token:    res.Token,
		Username: res.Username,
		Role:     res.Role,
	}
	if err := s.store.Save(sess); err != nil {
		return Session{}, fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	s.logger.Info("logged in", "username", sess.Username)
	return sess, nil
}

// Register creates a new account. It does not establish a session; the
// caller logs in afterwards, as the original flow does.
func (s *Service) Register(ctx context.Context, reg api.Registration) error {
	if err := s.validate.Struct(reg); err != nil {
		return fmt.Errorf("invalid registration: %w", err)
	}
	if err := s.gateway.Register(ctx, reg); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	s.logger.Info("registered", "username", reg.Username)
	return nil
}

// Logout unconditionally clears the session, its persisted form, and runs
// the on-logout hooks. It never contacts the server.
func (s *Service) Logout() error {
	s.mu.Lock()
	s.current = Session{}
	hooks := s.onLogout
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		return err
	}
	for _, fn := range hooks {
		fn()
	}
	s.logger.Info("logged out")
	return nil
}
