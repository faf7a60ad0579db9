package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/auth/jwt"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/errs"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/req"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/resp"
)

const maxNotificationPage = 100

// HandleListNotifications returns the caller's notifications, unread only unless
// include_read=true.
func HandleListNotifications(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		includeRead := req.QueryBool(r, "include_read", false)

		limit := req.QueryInt(r, "limit", 50)
		if limit < 1 || limit > maxNotificationPage {
			limit = 50
		}

		notifications, err := deps.DB.ListNotificationsForUser(r.Context(), payload.UserID, includeRead, limit)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, notifications)
	}
}

// HandleMarkNotificationRead marks one of the caller's notifications read.
func HandleMarkNotificationRead(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		notificationID, customErr := req.PathInt64(chi.URLParam(r, "notificationID"))
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		updated, err := deps.DB.MarkNotificationRead(r.Context(), payload.UserID, notificationID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}
		if !updated {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotificationNotFound))
			return
		}

		resp.RespondSuccess(w, r, map[string]string{"status": "read"})
	}
}

// HandleMarkAllNotificationsRead marks every unread notification of the caller
// read and reports how many changed.
func HandleMarkAllNotificationsRead(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		count, err := deps.DB.MarkAllNotificationsRead(r.Context(), payload.UserID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, map[string]int64{"updated": count})
	}
}
