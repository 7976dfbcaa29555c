package service

import (
	"context"
	"testing"
	"time"

	"github.com/karios/mission-control/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

////////////////////////////////////////////////

type testConsole struct {
	backend  *mockBackend
	storage  *mockTokenStorage
	sessions *SessionStore
	catalog  *MemberCatalog
	profiles *ProfileAggregator
	notes    *NoteAppender
	roles    *RoleMutationEngine
}

func newTestConsole() *testConsole {
	backend := &mockBackend{}
	storage := &mockTokenStorage{}
	sessions := NewSessionStore(backend, storage)
	profiles := NewProfileAggregator(backend, sessions)
	catalog := NewMemberCatalog(backend, sessions)
	notes := NewNoteAppender(backend, sessions, profiles)
	roles := NewRoleMutationEngine(backend, sessions, profiles)
	roles.clearAfter = 50 * time.Millisecond

	return &testConsole{
		backend:  backend,
		storage:  storage,
		sessions: sessions,
		catalog:  catalog,
		profiles: profiles,
		notes:    notes,
		roles:    roles,
	}
}

func (tc *testConsole) assertExpectations(t *testing.T) {
	tc.backend.AssertExpectations(t)
	tc.storage.AssertExpectations(t)
}

// loggedIn puts the session store into the authenticated state directly.
func (tc *testConsole) loggedIn(token string) {
	tc.sessions.token = token
	tc.sessions.adminUser = &types.AdminIdentity{ID: "u1", DiscordID: "190320984123768832", Name: "Admin"}
	tc.sessions.state = types.SessionStateAuthenticated
}

////////////////////////////////////////////////

func Test_SessionStore_Login_OK(t *testing.T) {
	tc := newTestConsole()
	ctx := context.Background()

	identity := &types.AdminIdentity{ID: "u1", DiscordID: "190320984123768832", Name: "Admin", IsOwner: true}

	tc.storage.On("Store", "abc123").Return(nil)
	tc.backend.On("GetOwnIdentity", "abc123").Return(identity, nil)

	err := tc.sessions.Login(ctx, "abc123")

	assert.NoError(t, err)
	session := tc.sessions.Session()
	assert.True(t, session.IsLoggedIn())
	assert.True(t, session.IsOwner())
	assert.Equal(t, "abc123", session.Token)
	assert.Equal(t, identity, session.AdminUser)
	tc.assertExpectations(t)
}

func Test_SessionStore_Login_Fail_InvalidToken(t *testing.T) {
	tc := newTestConsole()
	ctx := context.Background()

	invalidated := false
	tc.sessions.SetInvalidateHandler(func() { invalidated = true })

	tc.storage.On("Store", "bad").Return(nil)
	tc.storage.On("Clear").Return(nil)
	tc.backend.On("GetOwnIdentity", "bad").Return((*types.AdminIdentity)(nil), perr("invalid token", 401))

	err := tc.sessions.Login(ctx, "bad")

	assert.Error(t, err)
	session := tc.sessions.Session()
	assert.False(t, session.IsLoggedIn())
	assert.Equal(t, "", session.Token)
	assert.Nil(t, session.AdminUser)
	assert.Equal(t, int64(types.SessionStateUnauthenticated), session.State)
	assert.True(t, invalidated)
	tc.assertExpectations(t)
}

func Test_SessionStore_Login_Fail_EmptyToken(t *testing.T) {
	tc := newTestConsole()
	ctx := context.Background()

	err := tc.sessions.Login(ctx, "")

	assert.Error(t, err)
	tc.storage.AssertNotCalled(t, "Store")
	tc.backend.AssertNotCalled(t, "GetOwnIdentity")
}

func Test_SessionStore_Restore_OK(t *testing.T) {
	tc := newTestConsole()
	ctx := context.Background()

	identity := &types.AdminIdentity{ID: "u1", Name: "Admin"}

	tc.storage.On("Load").Return("abc123", nil)
	tc.backend.On("GetOwnIdentity", "abc123").Return(identity, nil)

	err := tc.sessions.Restore(ctx)

	assert.NoError(t, err)
	assert.True(t, tc.sessions.Session().IsLoggedIn())
	tc.assertExpectations(t)
}

func Test_SessionStore_Restore_NoStoredToken(t *testing.T) {
	tc := newTestConsole()
	ctx := context.Background()

	tc.storage.On("Load").Return("", nil)

	err := tc.sessions.Restore(ctx)

	assert.NoError(t, err)
	assert.False(t, tc.sessions.Session().IsLoggedIn())
	tc.backend.AssertNotCalled(t, "GetOwnIdentity")
	tc.assertExpectations(t)
}

func Test_SessionStore_Restore_Fail_RejectedToken(t *testing.T) {
	tc := newTestConsole()
	ctx := context.Background()

	tc.storage.On("Load").Return("stale", nil)
	tc.storage.On("Clear").Return(nil)
	tc.backend.On("GetOwnIdentity", "stale").Return((*types.AdminIdentity)(nil), perr("invalid token", 401))

	err := tc.sessions.Restore(ctx)

	assert.Error(t, err)
	session := tc.sessions.Session()
	assert.Equal(t, "", session.Token)
	assert.Nil(t, session.AdminUser)
	assert.Equal(t, int64(types.SessionStateUnauthenticated), session.State)
	tc.assertExpectations(t)
}

func Test_SessionStore_Logout_OK(t *testing.T) {
	tc := newTestConsole()

	tc.loggedIn("abc123")
	tc.storage.On("Clear").Return(nil)

	tc.sessions.Logout()

	assert.False(t, tc.sessions.Session().IsLoggedIn())
	tc.backend.AssertNotCalled(t, "GetOwnIdentity")
	tc.assertExpectations(t)
}

func Test_SessionStore_Logout_DuringLogin_DropsStaleIdentity(t *testing.T) {
	tc := newTestConsole()
	ctx := context.Background()

	release := make(chan struct{})
	tc.storage.On("Store", "abc123").Return(nil)
	tc.storage.On("Clear").Return(nil)
	tc.backend.On("GetOwnIdentity", "abc123").Run(func(args mock.Arguments) {
		<-release
	}).Return(&types.AdminIdentity{ID: "u1", Name: "Admin"}, nil)

	done := make(chan error, 1)
	go func() {
		done <- tc.sessions.Login(ctx, "abc123")
	}()

	// let the login reach the resolver, then tear the session down while the
	// resolve is still outstanding
	time.Sleep(20 * time.Millisecond)
	tc.sessions.Logout()
	close(release)

	assert.Error(t, <-done)
	session := tc.sessions.Session()
	assert.False(t, session.IsLoggedIn())
	assert.Equal(t, int64(types.SessionStateUnauthenticated), session.State)
	assert.Equal(t, "", session.Token)
	assert.Nil(t, session.AdminUser)
	tc.assertExpectations(t)
}

func Test_SessionStore_Relogin_DuringLogin_KeepsNewerSession(t *testing.T) {
	tc := newTestConsole()
	ctx := context.Background()

	newIdentity := &types.AdminIdentity{ID: "u2", Name: "Admin"}

	release := make(chan struct{})
	tc.storage.On("Store", "old").Return(nil)
	tc.storage.On("Store", "new").Return(nil)
	tc.backend.On("GetOwnIdentity", "old").Run(func(args mock.Arguments) {
		<-release
	}).Return(&types.AdminIdentity{ID: "u1", Name: "Admin"}, nil)
	tc.backend.On("GetOwnIdentity", "new").Return(newIdentity, nil)

	done := make(chan error, 1)
	go func() {
		done <- tc.sessions.Login(ctx, "old")
	}()

	time.Sleep(20 * time.Millisecond)
	assert.NoError(t, tc.sessions.Login(ctx, "new"))
	close(release)

	assert.Error(t, <-done)
	session := tc.sessions.Session()
	assert.True(t, session.IsLoggedIn())
	assert.Equal(t, "new", session.Token)
	assert.Equal(t, newIdentity, session.AdminUser)
	tc.assertExpectations(t)
}

func Test_SessionStore_RequireToken_Fail_NotAuthenticated(t *testing.T) {
	tc := newTestConsole()

	_, err := tc.sessions.RequireToken()

	assert.Error(t, err)
}
