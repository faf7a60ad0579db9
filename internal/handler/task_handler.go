package handler

import (
	"net/http"
	"time"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/auth/jwt"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/errs"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/logx"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/resp"
)

// HandleSendDigests triggers one digest run outside the scheduler's cadence.
// Admin-only; the run itself still honors each user's period window.
func HandleSendDigests(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}
		if !payload.IsAdmin {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		logx.Info("Manual digest run triggered", "admin_id", payload.UserID)

		sent := deps.Digests.RunOnce(r.Context(), time.Now())

		resp.RespondSuccess(w, r, map[string]int{"digestsSent": sent})
	}
}
