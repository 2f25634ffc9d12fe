package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"cameroonmark/internal/domain/auth"
	"cameroonmark/internal/domain/storage"
	"cameroonmark/internal/domain/user"
)

var errIncompleteResponse = errors.New("auth response is missing user or token")

// API is the part of the marketplace API the session store calls
type API interface {
	Login(ctx context.Context, email, password string) (*auth.AuthResponse, error)
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error)
	ResetPassword(ctx context.Context, email string) error
	GetCurrentUser(ctx context.Context) (*user.User, error)
	UpdateProfile(ctx context.Context, req user.UpdateProfileRequest) (*user.User, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
}

// Service defines the session store interface
type Service interface {
	// Rehydrate restores stored credentials and revalidates them. Only the first call does any work.
	Rehydrate(ctx context.Context) error
	Login(ctx context.Context, email, password string) (*user.User, error)
	Register(ctx context.Context, req auth.RegisterRequest) (*user.User, error)
	Logout(ctx context.Context)
	ResetPassword(ctx context.Context, email string) error
	UpdateProfile(ctx context.Context, req user.UpdateProfileRequest) (*user.User, error)
	ChangePassword(ctx context.Context, req user.ChangePasswordRequest) error

	Current() auth.Session
	IsAuthenticated() bool

	// Token and Evict let the API client attach and revoke the bearer credential.
	Token() string
	Evict(token string)
}

type service struct {
	api    API
	store  storage.Store
	keys   storage.Keys
	logger *zap.Logger

	mu     sync.Mutex
	status auth.Status
	user   *user.User
	token  string
	// seq numbers operations in start order; applied is the seq of the last one whose result was kept.
	seq     uint64
	applied uint64

	rehydrateOnce sync.Once
	rehydrateErr  error
}

// NewService creates a new session store
func NewService(api API, store storage.Store, keys storage.Keys, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		api:    api,
		store:  store,
		keys:   keys,
		logger: logger.Named("session"),
		status: auth.StatusUnauthenticated,
	}
}

func (s *service) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

func (s *service) Rehydrate(ctx context.Context) error {
	s.rehydrateOnce.Do(func() {
		s.rehydrateErr = s.rehydrate(ctx)
	})
	return s.rehydrateErr
}

func (s *service) rehydrate(ctx context.Context) error {
	seq := s.begin()
	token, cached, ok := s.loadStored(ctx)
	if !ok {
		return nil
	}

	s.mu.Lock()
	// A login or logout that finished while storage was being read owns the session now.
	if seq < s.applied || s.status != auth.StatusUnauthenticated {
		s.mu.Unlock()
		return auth.ErrSuperseded
	}
	s.status = auth.StatusPending
	s.user = cached
	s.token = token
	s.mu.Unlock()

	u, err := s.api.GetCurrentUser(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.applied {
		return auth.ErrSuperseded
	}
	pending := s.status == auth.StatusPending && s.token == token

	if err != nil {
		s.logger.Warn("failed to validate stored session", zap.Error(err))
		if pending {
			s.applied = seq
			s.resetLocked()
			s.removeCredentials(ctx)
		}
		return err
	}
	if !pending {
		return auth.ErrSuperseded
	}
	s.applied = seq

	s.status = auth.StatusAuthenticated
	s.user = u.Clone()
	s.token = token
	s.persistLocked(ctx)
	s.logger.Info("session restored", zap.String("user_id", u.ID))
	return nil
}

// loadStored reads the stored token and user. Unreadable entries are discarded.
func (s *service) loadStored(ctx context.Context) (string, *user.User, bool) {
	token, err := s.store.Get(ctx, s.keys.Token)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil, false
	}
	if err != nil {
		s.logger.Error("failed to read stored token", zap.String("key", s.keys.Token), zap.Error(err))
		s.removeCredentials(ctx)
		return "", nil, false
	}

	raw, err := s.store.Get(ctx, s.keys.User)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil, false
	}
	if err != nil {
		s.logger.Error("failed to read stored user", zap.String("key", s.keys.User), zap.Error(err))
		s.removeCredentials(ctx)
		return "", nil, false
	}

	var cached user.User
	if err := json.Unmarshal([]byte(raw), &cached); err != nil || token == "" {
		s.logger.Warn("discarding unreadable stored session", zap.Error(err))
		s.removeCredentials(ctx)
		return "", nil, false
	}
	return token, &cached, true
}

func (s *service) Login(ctx context.Context, email, password string) (*user.User, error) {
	seq := s.begin()

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn("login failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	if err := s.establish(ctx, seq, resp); err != nil {
		return nil, err
	}
	return resp.User.Clone(), nil
}

// errorDetailer is implemented by API errors that carry a decoded body
type errorDetailer interface {
	ErrorDetails() map[string]any
}

func (s *service) Register(ctx context.Context, req auth.RegisterRequest) (*user.User, error) {
	seq := s.begin()

	resp, err := s.api.Register(ctx, req)
	if err != nil {
		s.logger.Warn("registration failed", zap.String("email", req.Email), zap.Error(err))
		var d errorDetailer
		if errors.As(err, &d) && d.ErrorDetails() != nil {
			return nil, &auth.ValidationError{Details: d.ErrorDetails(), Err: err}
		}
		return nil, err
	}
	if err := s.establish(ctx, seq, resp); err != nil {
		return nil, err
	}
	return resp.User.Clone(), nil
}

// establish applies a successful login or registration unless a later operation already won
func (s *service) establish(ctx context.Context, seq uint64, resp *auth.AuthResponse) error {
	if resp == nil || resp.User == nil || resp.Token == "" {
		return errIncompleteResponse
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.applied {
		s.logger.Info("discarding stale auth response", zap.String("user_id", resp.User.ID))
		return auth.ErrSuperseded
	}
	s.applied = seq
	s.status = auth.StatusAuthenticated
	s.user = resp.User.Clone()
	s.token = resp.Token
	s.persistLocked(ctx)
	return nil
}

func (s *service) Logout(ctx context.Context) {
	seq := s.begin()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = seq
	s.resetLocked()
	s.removeCredentials(ctx)
}

func (s *service) ResetPassword(ctx context.Context, email string) error {
	if err := s.api.ResetPassword(ctx, email); err != nil {
		s.logger.Warn("password reset failed", zap.String("email", email), zap.Error(err))
		return err
	}
	return nil
}

func (s *service) UpdateProfile(ctx context.Context, req user.UpdateProfileRequest) (*user.User, error) {
	token, ok := s.authenticatedToken()
	if !ok {
		return nil, auth.ErrNotAuthenticated
	}

	u, err := s.api.UpdateProfile(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != auth.StatusAuthenticated || s.token != token {
		return nil, auth.ErrSuperseded
	}
	s.user = u.Clone()
	s.persistLocked(ctx)
	return u.Clone(), nil
}

func (s *service) ChangePassword(ctx context.Context, req user.ChangePasswordRequest) error {
	if _, ok := s.authenticatedToken(); !ok {
		return auth.ErrNotAuthenticated
	}
	return s.api.ChangePassword(ctx, req.CurrentPassword, req.NewPassword)
}

func (s *service) authenticatedToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.status == auth.StatusAuthenticated
}

func (s *service) Current() auth.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return auth.Session{
		Status: s.status,
		User:   s.user.Clone(),
		Token:  s.token,
	}
}

func (s *service) IsAuthenticated() bool {
	return s.Current().IsAuthenticated()
}

func (s *service) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Evict drops the session when the API rejected token, provided it is still the current one
func (s *service) Evict(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" || token != s.token {
		return
	}
	s.logger.Info("evicting rejected credentials")
	s.resetLocked()
	s.removeCredentials(context.Background())
}

func (s *service) resetLocked() {
	s.status = auth.StatusUnauthenticated
	s.user = nil
	s.token = ""
}

// persistLocked mirrors the credentials to storage. Failures are logged only.
func (s *service) persistLocked(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	raw, err := json.Marshal(s.user)
	if err != nil {
		s.logger.Error("failed to encode user", zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, s.keys.User, string(raw)); err != nil {
		s.logger.Error("failed to persist user", zap.String("key", s.keys.User), zap.Error(err))
	}
	if err := s.store.Set(ctx, s.keys.Token, s.token); err != nil {
		s.logger.Error("failed to persist token", zap.String("key", s.keys.Token), zap.Error(err))
	}
}

func (s *service) removeCredentials(ctx context.Context) {
	if err := s.store.Remove(context.WithoutCancel(ctx), s.keys.Token, s.keys.User); err != nil {
		s.logger.Error("failed to clear stored credentials", zap.Error(err))
	}
}
