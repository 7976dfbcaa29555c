package transport

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/karios/mission-control/constants"
	"github.com/karios/mission-control/types"
	"github.com/karios/mission-control/utils"
)

type sessionResponse struct {
	AdminUser  *types.AdminIdentity `json:"adminUser"`
	AvatarURL  string               `json:"avatarUrl,omitempty"`
	IsLoggedIn bool                 `json:"isLoggedIn"`
	IsOwner    bool                 `json:"isOwner"`
}

func makeSessionResponse(session types.Session) *sessionResponse {
	resp := &sessionResponse{
		AdminUser:  session.AdminUser,
		IsLoggedIn: session.IsLoggedIn(),
		IsOwner:    session.IsOwner(),
	}
	if session.AdminUser != nil {
		resp.AvatarURL = utils.FormatAvatarURL(session.AdminUser.DiscordID, session.AdminUser.Avatar)
	}
	return resp
}

type loginRequest struct {
	Token string `json:"token"`
}

func (a *App) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogCtx(ctx).Error(err)
		writeError(ctx, w, perr("failed to decode login request", http.StatusBadRequest))
		return
	}

	session, err := a.Service.Login(ctx, req.Token)
	if err != nil {
		utils.UnsetCookie(w, utils.Cookies.Login)
		writeError(ctx, w, err)
		return
	}

	if err := a.CC.SetSecureCookie(w, utils.Cookies.Login, map[string]string{"token": session.Token}, int(a.Conf.SessionExpirationSeconds)); err != nil {
		utils.LogCtx(ctx).Error(err)
		writeError(ctx, w, perr("failed to set cookie", http.StatusInternalServerError))
		return
	}

	writeResponse(ctx, w, makeSessionResponse(session), http.StatusOK)
}

func (a *App) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	a.Service.Logout()
	utils.UnsetCookie(w, utils.Cookies.Login)
	writeResponse(ctx, w, makeSessionResponse(a.Service.Session()), http.StatusOK)
}

func (a *App) HandleSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	writeResponse(ctx, w, makeSessionResponse(a.Service.Session()), http.StatusOK)
}

func (a *App) HandleServerMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	members, err := a.Service.ServerMembers(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeResponse(ctx, w, members, http.StatusOK)
}

func (a *App) HandleRefreshServerMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	members, err := a.Service.RefreshServerMembers(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeResponse(ctx, w, members, http.StatusOK)
}

func (a *App) HandleMembersPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := &types.MembersPageFilter{}
	if err := a.decoder.Decode(filter, r.URL.Query()); err != nil {
		utils.LogCtx(ctx).Error(err)
		writeError(ctx, w, perr("failed to decode page filter", http.StatusBadRequest))
		return
	}

	paged, err := a.Service.MembersPage(ctx, filter.Page, filter.Limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeResponse(ctx, w, paged, http.StatusOK)
}

func (a *App) HandleSearchMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	results, err := a.Service.SearchMembers(ctx, r.URL.Query().Get("q"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeResponse(ctx, w, results, http.StatusOK)
}

func (a *App) HandleMemberProfile(w http.ResponseWriter, r *http.Request) {
	memberID := mux.Vars(r)[constants.ResourceKeyMemberID]
	ctx := context.WithValue(r.Context(), utils.CtxKeys.MemberID, memberID)

	profile, err := a.Service.MemberProfile(ctx, memberID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeResponse(ctx, w, profile, http.StatusOK)
}

// HandleCachedMemberProfile reads the open member view without hitting the
// main app API, 404 when no fetch has completed for this member.
func (a *App) HandleCachedMemberProfile(w http.ResponseWriter, r *http.Request) {
	memberID := mux.Vars(r)[constants.ResourceKeyMemberID]
	ctx := context.WithValue(r.Context(), utils.CtxKeys.MemberID, memberID)

	profile := a.Service.CachedMemberProfile(memberID)
	if profile == nil {
		writeError(ctx, w, perr("no cached view for this member", http.StatusNotFound))
		return
	}
	writeResponse(ctx, w, profile, http.StatusOK)
}

func (a *App) HandleReleaseMemberView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	a.Service.ReleaseMemberView(mux.Vars(r)[constants.ResourceKeyMemberID])
	writeResponse(ctx, w, nil, http.StatusNoContent)
}

type findOrCreateRequest struct {
	DiscordID string `json:"discordId"`
}

type findOrCreateResponse struct {
	UserID string `json:"userId"`
}

func (a *App) HandleFindOrCreateMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req findOrCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogCtx(ctx).Error(err)
		writeError(ctx, w, perr("failed to decode request", http.StatusBadRequest))
		return
	}

	memberID, err := a.Service.FindOrCreateMember(ctx, req.DiscordID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeResponse(ctx, w, findOrCreateResponse{UserID: memberID}, http.StatusOK)
}

type addNoteRequest struct {
	NoteText string `json:"noteText"`
}

type addNoteResponse struct {
	Note *types.AdminNote `json:"note"`
}

func (a *App) HandleAddNote(w http.ResponseWriter, r *http.Request) {
	memberID := mux.Vars(r)[constants.ResourceKeyMemberID]
	ctx := context.WithValue(r.Context(), utils.CtxKeys.MemberID, memberID)

	var req addNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogCtx(ctx).Error(err)
		writeError(ctx, w, perr("failed to decode request", http.StatusBadRequest))
		return
	}

	note, err := a.Service.AddMemberNote(ctx, memberID, req.NoteText)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeResponse(ctx, w, addNoteResponse{Note: note}, http.StatusOK)
}

type roleActionRequest struct {
	RoleID   string `json:"roleId"`
	RoleName string `json:"roleName"`
	Purpose  string `json:"purpose"`
}

// resolveRole fills the role ID and name from the configured purpose mapping
// when the request names a purpose instead of a concrete role.
func (a *App) resolveRole(req *roleActionRequest) error {
	if req.Purpose == "" {
		if req.RoleID == "" {
			return perr("either a role id or a role purpose is required", http.StatusBadRequest)
		}
		return nil
	}
	grant, ok := a.Conf.RoleGrants[req.Purpose]
	if !ok {
		return perr("unknown role purpose", http.StatusBadRequest)
	}
	req.RoleID = grant.ID
	req.RoleName = grant.Name
	return nil
}

func (a *App) HandleAssignRole(w http.ResponseWriter, r *http.Request) {
	a.handleRoleAction(w, r, a.Service.AssignRole)
}

func (a *App) HandleRevokeRole(w http.ResponseWriter, r *http.Request) {
	a.handleRoleAction(w, r, a.Service.RevokeRole)
}

func (a *App) handleRoleAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, memberID, roleID, roleName string) error) {
	memberID := mux.Vars(r)[constants.ResourceKeyMemberID]
	ctx := context.WithValue(r.Context(), utils.CtxKeys.MemberID, memberID)

	var req roleActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogCtx(ctx).Error(err)
		writeError(ctx, w, perr("failed to decode request", http.StatusBadRequest))
		return
	}
	if err := a.resolveRole(&req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := action(ctx, memberID, req.RoleID, req.RoleName); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeResponse(ctx, w, a.Service.RoleActionStatus(), http.StatusOK)
}

func (a *App) HandleSyncRoles(w http.ResponseWriter, r *http.Request) {
	memberID := mux.Vars(r)[constants.ResourceKeyMemberID]
	ctx := context.WithValue(r.Context(), utils.CtxKeys.MemberID, memberID)

	if err := a.Service.SyncRoles(ctx, memberID); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeResponse(ctx, w, a.Service.RoleActionStatus(), http.StatusOK)
}

func (a *App) HandleRoleActionStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	writeResponse(ctx, w, a.Service.RoleActionStatus(), http.StatusOK)
}
