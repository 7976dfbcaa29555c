package transport

import (
	"net/http"

	"github.com/karios/mission-control/utils"
)

// RequireSession only lets a request through when the browser presents the
// login cookie matching the authenticated session. An unusable cookie is
// unset so the operator lands back on the entry view.
func (a *App) RequireSession(next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		cookieMap, err := a.CC.GetSecureCookie(r, utils.Cookies.Login)
		if err != nil {
			utils.LogCtx(ctx).Error(err)
			utils.UnsetCookie(w, utils.Cookies.Login)
			writeError(ctx, w, perr("please log in to continue", http.StatusUnauthorized))
			return
		}

		session := a.Service.Session()
		if !session.IsLoggedIn() || cookieMap["token"] != session.Token {
			utils.UnsetCookie(w, utils.Cookies.Login)
			writeError(ctx, w, perr("session expired, please log in to continue", http.StatusUnauthorized))
			return
		}

		next(w, r)
	}
}
