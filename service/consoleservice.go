package service

import (
	"context"
	"time"

	"github.com/karios/mission-control/types"
	"github.com/sirupsen/logrus"
)

// ConsoleService ties the console components together behind one facade used
// by the transport layer.
type ConsoleService struct {
	sessions *SessionStore
	catalog  *MemberCatalog
	profiles *ProfileAggregator
	notes    *NoteAppender
	roles    *RoleMutationEngine
}

func New(l *logrus.Logger, mainAppAPIURL string, requestTimeout time.Duration, tokenFilePath string) *ConsoleService {
	backend := NewMainAppClient(mainAppAPIURL, requestTimeout)
	sessions := NewSessionStore(backend, NewFileTokenStorage(tokenFilePath))
	profiles := NewProfileAggregator(backend, sessions)

	l.WithField("mainAppAPIURL", mainAppAPIURL).Infoln("console service created")

	return &ConsoleService{
		sessions: sessions,
		catalog:  NewMemberCatalog(backend, sessions),
		profiles: profiles,
		notes:    NewNoteAppender(backend, sessions, profiles),
		roles:    NewRoleMutationEngine(backend, sessions, profiles),
	}
}

func (s *ConsoleService) SetInvalidateHandler(f func()) {
	s.sessions.SetInvalidateHandler(f)
}

// RestoreSession attempts the silent startup login from the persisted token.
// A rejected or missing token settles in the unauthenticated state.
func (s *ConsoleService) RestoreSession(ctx context.Context) {
	// a rejected token is already logged and torn down inside the store, the
	// operator just has to log in again
	_ = s.sessions.Restore(ctx)
}

func (s *ConsoleService) Login(ctx context.Context, token string) (types.Session, error) {
	if err := s.sessions.Login(ctx, token); err != nil {
		return s.sessions.Session(), err
	}
	return s.sessions.Session(), nil
}

func (s *ConsoleService) Logout() {
	s.sessions.Logout()
}

func (s *ConsoleService) Session() types.Session {
	return s.sessions.Session()
}

func (s *ConsoleService) ServerMembers(ctx context.Context) (*types.CategorizedMembers, error) {
	return s.catalog.ServerMembers(ctx)
}

func (s *ConsoleService) RefreshServerMembers(ctx context.Context) (*types.CategorizedMembers, error) {
	return s.catalog.RefreshServerMembers(ctx)
}

func (s *ConsoleService) MembersPage(ctx context.Context, page, limit int64) (*types.PagedMembers, error) {
	return s.catalog.MembersPage(ctx, page, limit)
}

func (s *ConsoleService) SearchMembers(ctx context.Context, query string) ([]*types.SearchResult, error) {
	return s.catalog.Search(ctx, query)
}

func (s *ConsoleService) MemberProfile(ctx context.Context, memberID string) (*types.MemberProfile, error) {
	return s.profiles.Fetch(ctx, memberID)
}

func (s *ConsoleService) CachedMemberProfile(memberID string) *types.MemberProfile {
	return s.profiles.Profile(memberID)
}

func (s *ConsoleService) ReleaseMemberView(memberID string) {
	s.profiles.Release(memberID)
}

func (s *ConsoleService) FindOrCreateMember(ctx context.Context, discordID string) (string, error) {
	return s.profiles.FindOrCreate(ctx, discordID)
}

func (s *ConsoleService) AddMemberNote(ctx context.Context, memberID, noteText string) (*types.AdminNote, error) {
	return s.notes.AddNote(ctx, memberID, noteText)
}

func (s *ConsoleService) AssignRole(ctx context.Context, memberID, roleID, roleName string) error {
	return s.roles.Assign(ctx, memberID, roleID, roleName)
}

func (s *ConsoleService) RevokeRole(ctx context.Context, memberID, roleID, roleName string) error {
	return s.roles.Revoke(ctx, memberID, roleID, roleName)
}

func (s *ConsoleService) SyncRoles(ctx context.Context, memberID string) error {
	return s.roles.SyncAll(ctx, memberID)
}

func (s *ConsoleService) RoleActionStatus() types.RoleActionStatus {
	return s.roles.Status()
}
