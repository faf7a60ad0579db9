package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/db"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/realtime"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/auth/jwt"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/errs"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/limiter"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/logx"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/req"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/resp"
)

// wsAuth authenticates a WebSocket upgrade request from its token query
// parameter. Browsers cannot set headers on WebSocket handshakes.
func wsAuth(r *http.Request, secret string) *jwt.Payload {
	token := r.URL.Query().Get("token")
	if token == "" {
		return nil
	}

	payload, err := jwt.ParseToken(token, secret)
	if err != nil {
		logx.Warn("WebSocket token rejected", "error", err.Error())
		return nil
	}
	return payload
}

// HandleDMSocket upgrades the per-user direct message stream. A second
// connection for the same user kicks the first with close code 4001.
func HandleDMSocket(upgrader websocket.Upgrader, connectLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !connectLimiter.GetLimiter(limiter.ClientIP(r)).Allow() {
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		payload := wsAuth(r, deps.Config.JWTSecret)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		wsConn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "WebSocket upgrade failed", "user_id", payload.UserID)
			return
		}

		var conn *realtime.Connection
		session := realtime.NewSession(wsConn, func() {
			deps.Registry.UnregisterUser(payload.UserID, conn)
		}, realtime.SessionLogger(payload.UserID, ""))
		conn = realtime.NewUserConnection(payload.UserID, session)

		if replaced := deps.Registry.RegisterUser(payload.UserID, conn); replaced != nil {
			replaced.Transport.Kick(errs.NewError(errs.ErrSessionKicked).Message)
		}

		go session.WritePump()
		go session.ReadPump()
	}
}

// HandleRPSocket upgrades a roleplay channel subscription. The channel id is the
// numeric game id; only participants of that game may subscribe.
func HandleRPSocket(upgrader websocket.Upgrader, connectLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !connectLimiter.GetLimiter(limiter.ClientIP(r)).Allow() {
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		payload := wsAuth(r, deps.Config.JWTSecret)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		gameID, customErr := req.PathInt64(chi.URLParam(r, "channelID"))
		if customErr != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrChannelNotAllowed))
			return
		}

		if _, err := deps.DB.GetGameByID(r.Context(), gameID); err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrChannelNotAllowed))
				return
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		if customErr := requireParticipant(deps, r, gameID, payload.UserID); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		wsConn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "WebSocket upgrade failed",
				"user_id", payload.UserID, "game_id", gameID)
			return
		}

		channelID := realtime.GameChannelID(gameID)

		var conn *realtime.Connection
		session := realtime.NewSession(wsConn, func() {
			deps.Registry.UnregisterChannel(channelID, conn)
		}, realtime.SessionLogger(payload.UserID, channelID))
		conn = realtime.NewChannelConnection(channelID, session)

		deps.Registry.RegisterChannel(channelID, conn)

		go session.WritePump()
		go session.ReadPump()
	}
}
