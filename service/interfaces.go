package service

import (
	"context"

	"github.com/karios/mission-control/types"
)

// Backend is the main app admin API consumed by the console. Every call
// carries the admin bearer token owned by the session store.
type Backend interface {
	GetOwnIdentity(ctx context.Context, token string) (*types.AdminIdentity, error)
	GetServerMembers(ctx context.Context, token string) (*types.CategorizedMembers, error)
	GetMembersPage(ctx context.Context, token string, page, limit int64) (*types.PagedMembers, error)
	GetMemberProfile(ctx context.Context, token string, memberID string) (*types.MemberProfile, error)
	AddMemberNote(ctx context.Context, token string, memberID, noteText string) (*types.AdminNote, error)
	AssignMemberRole(ctx context.Context, token string, memberID, roleID, roleName string) (string, error)
	RevokeMemberRole(ctx context.Context, token string, memberID, roleID, roleName string) (string, error)
	SyncMemberRoles(ctx context.Context, token string, memberID string) (string, error)
	FindOrCreateMember(ctx context.Context, token string, discordID string) (string, error)
}

// TokenStorage persists the admin token across process restarts. Load returns
// an empty string when no token is stored.
type TokenStorage interface {
	Load() (string, error)
	Store(token string) error
	Clear() error
}
