package transport

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/karios/mission-control/constants"
	"github.com/sirupsen/logrus"
)

func (a *App) handleRequests(l *logrus.Logger, srv *http.Server, router *mux.Router) {
	// session
	router.Handle("/api/login", http.HandlerFunc(a.HandleLogin)).Methods("POST")
	router.Handle("/api/logout", http.HandlerFunc(a.HandleLogout)).Methods("POST")
	router.Handle("/api/session", http.HandlerFunc(a.HandleSession)).Methods("GET")

	// member catalog
	router.Handle("/api/members",
		http.HandlerFunc(a.RequireSession(a.HandleServerMembers))).Methods("GET")

	router.Handle("/api/members/refresh",
		http.HandlerFunc(a.RequireSession(a.HandleRefreshServerMembers))).Methods("POST")

	router.Handle("/api/members/paged",
		http.HandlerFunc(a.RequireSession(a.HandleMembersPage))).Methods("GET")

	router.Handle("/api/members/search",
		http.HandlerFunc(a.RequireSession(a.HandleSearchMembers))).Methods("GET")

	router.Handle("/api/members/find-or-create",
		http.HandlerFunc(a.RequireSession(a.HandleFindOrCreateMember))).Methods("POST")

	// member detail view
	router.Handle(fmt.Sprintf("/api/members/{%s}/profile", constants.ResourceKeyMemberID),
		http.HandlerFunc(a.RequireSession(a.HandleMemberProfile))).Methods("GET")

	router.Handle(fmt.Sprintf("/api/members/{%s}/view", constants.ResourceKeyMemberID),
		http.HandlerFunc(a.RequireSession(a.HandleCachedMemberProfile))).Methods("GET")

	router.Handle(fmt.Sprintf("/api/members/{%s}/view", constants.ResourceKeyMemberID),
		http.HandlerFunc(a.RequireSession(a.HandleReleaseMemberView))).Methods("DELETE")

	router.Handle(fmt.Sprintf("/api/members/{%s}/notes", constants.ResourceKeyMemberID),
		http.HandlerFunc(a.RequireSession(a.HandleAddNote))).Methods("POST")

	// role mutations
	router.Handle(fmt.Sprintf("/api/members/{%s}/roles/assign", constants.ResourceKeyMemberID),
		http.HandlerFunc(a.RequireSession(a.HandleAssignRole))).Methods("POST")

	router.Handle(fmt.Sprintf("/api/members/{%s}/roles/revoke", constants.ResourceKeyMemberID),
		http.HandlerFunc(a.RequireSession(a.HandleRevokeRole))).Methods("POST")

	router.Handle(fmt.Sprintf("/api/members/{%s}/roles/sync", constants.ResourceKeyMemberID),
		http.HandlerFunc(a.RequireSession(a.HandleSyncRoles))).Methods("POST")

	router.Handle("/api/roles/status",
		http.HandlerFunc(a.RequireSession(a.HandleRoleActionStatus))).Methods("GET")

	err := srv.ListenAndServe()
	if err != nil {
		l.Fatal(err)
	}
}
