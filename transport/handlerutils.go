package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/karios/mission-control/constants"
	"github.com/karios/mission-control/utils"
)

func perr(msg string, status int) error {
	return constants.PublicError{Msg: msg, Status: status}
}

type errorResponse struct {
	Message string `json:"message"`
}

// writeError surfaces the failure as a plain message next to whatever control
// triggered it, backend messages stay verbatim.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var publicError constants.PublicError
	if errors.As(err, &publicError) {
		status := publicError.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		writeResponse(ctx, w, errorResponse{Message: publicError.Msg}, status)
		return
	}

	var remoteError constants.RemoteError
	if errors.As(err, &remoteError) {
		writeResponse(ctx, w, errorResponse{Message: "failed to reach the main app API"}, http.StatusBadGateway)
		return
	}

	writeResponse(ctx, w, errorResponse{Message: "internal error"}, http.StatusInternalServerError)
}

func writeResponse(ctx context.Context, w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json;charset=utf-8")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		utils.LogCtx(ctx).Error(err)
	}
}
