package service

import (
	"context"
	"sync"

	"github.com/karios/mission-control/constants"
	"github.com/karios/mission-control/types"
	"github.com/karios/mission-control/utils"
)

// adminProfileResolver exchanges a token for the caller's own identity. Any
// failure means the token is unusable, there is no partial-failure or retry
// path.
type adminProfileResolver struct {
	backend Backend
}

func (r *adminProfileResolver) Resolve(ctx context.Context, token string) (*types.AdminIdentity, error) {
	return r.backend.GetOwnIdentity(ctx, token)
}

// SessionStore owns the admin token and the login/logout lifecycle. All other
// components read the token through it and never hold their own copy.
type SessionStore struct {
	mu       sync.RWMutex
	resolver *adminProfileResolver
	storage  TokenStorage

	token     string
	adminUser *types.AdminIdentity
	state     int64

	onInvalidate func()
}

func NewSessionStore(backend Backend, storage TokenStorage) *SessionStore {
	return &SessionStore{
		resolver: &adminProfileResolver{backend: backend},
		storage:  storage,
		state:    types.SessionStateUnauthenticated,
	}
}

// SetInvalidateHandler registers the navigation signal fired whenever the
// session is torn down. The transport uses it to send the operator back to
// the entry point.
func (s *SessionStore) SetInvalidateHandler(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onInvalidate = f
}

// Restore attempts a silent login from the persisted token at startup.
// A missing token settles in the unauthenticated state without error.
func (s *SessionStore) Restore(ctx context.Context) error {
	token, err := s.storage.Load()
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		return err
	}
	if token == "" {
		return nil
	}

	utils.LogCtx(ctx).Debug("restoring persisted session")
	return s.authenticate(ctx, token)
}

// Login persists the token and resolves the caller's identity. The session
// becomes authenticated only when identity resolution succeeds, otherwise the
// token is cleared again.
func (s *SessionStore) Login(ctx context.Context, token string) error {
	if token == "" {
		return perr("token cannot be empty", 400)
	}
	if err := s.storage.Store(token); err != nil {
		utils.LogCtx(ctx).Error(err)
		return err
	}
	return s.authenticate(ctx, token)
}

func (s *SessionStore) authenticate(ctx context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.adminUser = nil
	s.state = types.SessionStateAuthenticating
	s.mu.Unlock()

	identity, err := s.resolver.Resolve(ctx, token)

	s.mu.Lock()
	// the session was torn down or replaced while the resolve was
	// outstanding, the result no longer applies
	if s.state != types.SessionStateAuthenticating || s.token != token {
		s.mu.Unlock()
		utils.LogCtx(ctx).Debug("dropping stale identity resolution")
		if err == nil {
			err = perr("session changed during login", 401)
		}
		return err
	}
	if err != nil {
		s.mu.Unlock()
		utils.LogCtx(ctx).Error(err)
		s.Logout()
		return err
	}
	s.adminUser = identity
	s.state = types.SessionStateAuthenticated
	s.mu.Unlock()

	utils.LogCtx(ctx).WithField("adminId", identity.ID).Info("session authenticated")
	return nil
}

// Logout tears the session down synchronously and unconditionally. It makes
// no network call and fires the registered navigation signal.
func (s *SessionStore) Logout() {
	s.mu.Lock()
	s.token = ""
	s.adminUser = nil
	s.state = types.SessionStateUnauthenticated
	onInvalidate := s.onInvalidate
	s.mu.Unlock()

	utils.LogIfErr(context.Background(), s.storage.Clear())

	if onInvalidate != nil {
		onInvalidate()
	}
}

// InvalidateOn tears the session down when err means the token was rejected.
// Components route every backend error through it.
func (s *SessionStore) InvalidateOn(err error) {
	if constants.IsUnauthorized(err) {
		s.Logout()
	}
}

// Session returns a read-only snapshot.
func (s *SessionStore) Session() types.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return types.Session{
		Token:     s.token,
		AdminUser: s.adminUser,
		State:     s.state,
	}
}

// RequireToken returns the current token, or an error when no authenticated
// session exists. Data components call it before every fetch so nothing runs
// ahead of identity resolution.
func (s *SessionStore) RequireToken() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != types.SessionStateAuthenticated || s.token == "" || s.adminUser == nil {
		return "", perr("not authenticated", 401)
	}
	return s.token, nil
}
