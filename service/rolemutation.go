package service

import (
	"context"
	"sync"
	"time"

	"github.com/karios/mission-control/constants"
	"github.com/karios/mission-control/types"
	"github.com/karios/mission-control/utils"
)

// ErrRoleActionInFlight rejects a role action while another one is pending.
var ErrRoleActionInFlight = constants.PublicError{Msg: "another role action is already running", Status: 409}

// roleActionStatusKeeper guards the single shared RoleActionStatus. The
// generation counter ties each scheduled auto-clear to the outcome that
// created it, so a newer action is never wiped by an older timer.
type roleActionStatusKeeper struct {
	sync.Mutex
	status     types.RoleActionStatus
	generation uint64
}

func newRoleActionStatusKeeper() *roleActionStatusKeeper {
	return &roleActionStatusKeeper{
		status: types.RoleActionStatus{Kind: constants.StatusKindNone},
	}
}

// begin claims the engine for one action. It fails when any action is already
// in flight, exactly one actionKey may be pending at a time.
func (k *roleActionStatusKeeper) begin(actionKey string) error {
	k.Lock()
	defer k.Unlock()
	if k.status.InFlight {
		return ErrRoleActionInFlight
	}
	k.generation++
	k.status = types.RoleActionStatus{
		InFlight:  true,
		ActionKey: actionKey,
		Kind:      constants.StatusKindNone,
	}
	return nil
}

// finish records the outcome and returns the generation the auto-clear timer
// must match.
func (k *roleActionStatusKeeper) finish(actionKey, message, kind string) uint64 {
	k.Lock()
	defer k.Unlock()
	k.generation++
	k.status = types.RoleActionStatus{
		InFlight:  false,
		ActionKey: actionKey,
		Message:   message,
		Kind:      kind,
	}
	return k.generation
}

// clear resets the status to idle, unless a newer action has taken over.
func (k *roleActionStatusKeeper) clear(generation uint64) {
	k.Lock()
	defer k.Unlock()
	if k.generation != generation || k.status.InFlight {
		return
	}
	k.status = types.RoleActionStatus{Kind: constants.StatusKindNone}
}

func (k *roleActionStatusKeeper) get() types.RoleActionStatus {
	k.Lock()
	defer k.Unlock()
	return k.status
}

// RoleMutationEngine executes assign/revoke/sync actions against one member's
// roles. Actions are strictly serialized. On success the engine never flips
// the role set locally, it refetches the whole profile and lets the wholesale
// replacement carry the new state, because a sync may change many roles
// server-side at once.
type RoleMutationEngine struct {
	backend    Backend
	sessions   *SessionStore
	profiles   *ProfileAggregator
	keeper     *roleActionStatusKeeper
	clearAfter time.Duration
}

func NewRoleMutationEngine(backend Backend, sessions *SessionStore, profiles *ProfileAggregator) *RoleMutationEngine {
	return &RoleMutationEngine{
		backend:    backend,
		sessions:   sessions,
		profiles:   profiles,
		keeper:     newRoleActionStatusKeeper(),
		clearAfter: constants.RoleActionDisplayTimeout,
	}
}

func (e *RoleMutationEngine) Assign(ctx context.Context, memberID, roleID, roleName string) error {
	return e.run(ctx, memberID, constants.ActionAssignRole+"-"+roleID, func(token string) (string, error) {
		return e.backend.AssignMemberRole(ctx, token, memberID, roleID, roleName)
	})
}

func (e *RoleMutationEngine) Revoke(ctx context.Context, memberID, roleID, roleName string) error {
	return e.run(ctx, memberID, constants.ActionRevokeRole+"-"+roleID, func(token string) (string, error) {
		return e.backend.RevokeMemberRole(ctx, token, memberID, roleID, roleName)
	})
}

func (e *RoleMutationEngine) SyncAll(ctx context.Context, memberID string) error {
	return e.run(ctx, memberID, constants.ActionSyncRoles, func(token string) (string, error) {
		return e.backend.SyncMemberRoles(ctx, token, memberID)
	})
}

// Status returns the shared action status snapshot.
func (e *RoleMutationEngine) Status() types.RoleActionStatus {
	return e.keeper.get()
}

func (e *RoleMutationEngine) run(ctx context.Context, memberID, actionKey string, call func(token string) (string, error)) error {
	token, err := e.sessions.RequireToken()
	if err != nil {
		return err
	}

	if err := e.keeper.begin(actionKey); err != nil {
		return err
	}

	message, err := call(token)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		e.sessions.InvalidateOn(err)
		e.scheduleClear(e.keeper.finish(actionKey, displayableError(err), constants.StatusKindError))
		return err
	}

	// The refetch is awaited while the action still counts as in flight, so
	// a subsequent action always observes post-mutation state.
	if _, err := e.profiles.Fetch(ctx, memberID); err != nil {
		utils.LogCtx(ctx).WithField("actionKey", actionKey).Error(err)
	}

	e.scheduleClear(e.keeper.finish(actionKey, message, constants.StatusKindSuccess))
	return nil
}

func (e *RoleMutationEngine) scheduleClear(generation uint64) {
	time.AfterFunc(e.clearAfter, func() {
		e.keeper.clear(generation)
	})
}

// displayableError keeps backend messages verbatim and falls back to a plain
// description for transport failures.
func displayableError(err error) string {
	if perr, ok := err.(constants.PublicError); ok {
		return perr.Msg
	}
	return "failed to reach the main app API"
}
