package constants

import "time"

const TokenStorageKey = "admin-api-token"

const (
	ActionAssignRole = "assign"
	ActionRevokeRole = "revoke"
	ActionSyncRoles  = "sync"
)

const (
	StatusKindNone    = "none"
	StatusKindSuccess = "success"
	StatusKindError   = "error"
)

// RoleActionDisplayTimeout is how long an action outcome stays visible before
// the status returns to idle.
const RoleActionDisplayTimeout = 4 * time.Second

const (
	CategoryAdminUsers   = "admin-users"
	CategoryWebsiteUsers = "website-users"
	CategoryBotUsers     = "bot-users"
	CategoryOtherUsers   = "other-users"
)

const (
	ResourceKeyMemberID = "member-id"
)
