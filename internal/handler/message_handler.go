package handler

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/db"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/realtime"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/store"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/auth/jwt"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/errs"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/req"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/resp"
)

// MaxMessageContentRunes caps game and direct message bodies.
const MaxMessageContentRunes = 5000

type MessageInput struct {
	Content string `json:"content"`
}

// HandleSendDirectMessage persists a DM, then hands async delivery (push, inbox
// notification, offline email) to the notifier. Delivery failures never fail this
// request once the row is stored.
func HandleSendDirectMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		receiverID, customErr := req.PathInt64(chi.URLParam(r, "userID"))
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if receiverID == payload.UserID {
			resp.RespondError(w, r, errs.NewError(errs.ErrSelfMessage))
			return
		}

		var input MessageInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := validateContent(input.Content); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		receiver, err := deps.DB.GetUserByID(r.Context(), receiverID)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		sender, err := deps.DB.GetUserByID(r.Context(), payload.UserID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		dm, err := deps.DB.CreateDirectMessage(r.Context(), sender.ID, receiver.ID, strings.TrimSpace(input.Content))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		deps.Notifier.NotifyNewDM(r.Context(), sender, receiver, dm)

		resp.RespondCreated(w, r, dm)
	}
}

// HandleListDirectMessages returns the DM history between the caller and another
// user, oldest first.
func HandleListDirectMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		otherID, customErr := req.PathInt64(chi.URLParam(r, "userID"))
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		limit, offset := pageParams(r)

		messages, err := deps.DB.ListDirectMessagesBetween(r.Context(), payload.UserID, otherID, limit, offset)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, messages)
	}
}

// HandleListConversations returns the caller's DM partners with the latest
// message each, newest conversation first.
func HandleListConversations(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		conversations, err := deps.DB.ListConversations(r.Context(), payload.UserID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, conversations)
	}
}

// HandlePostGameMessage stores an in-game chat message and broadcasts it to the
// game's channel. Only participants may post.
func HandlePostGameMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		game, customErr := loadGame(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := requireParticipant(deps, r, game.ID, payload.UserID); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input MessageInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := validateContent(input.Content); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		senderID := payload.UserID
		senderName := displayNameFromPayload(payload)

		msg, err := deps.DB.CreateGameMessage(r.Context(), store.CreateGameMessageParams{
			GameID:            game.ID,
			SenderID:          &senderID,
			Content:           strings.TrimSpace(input.Content),
			SenderDisplayName: &senderName,
		})
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		event := realtime.NewChannelMessageEvent(msg, senderName, realtime.RoleCharacter)
		deps.Router.BroadcastToChannel(channelIDForGame(game.ID), event)

		resp.RespondCreated(w, r, msg)
	}
}

// HandleListGameMessages returns a game's chat history, oldest first.
func HandleListGameMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		game, customErr := loadGame(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := requireParticipant(deps, r, game.ID, payload.UserID); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		limit, offset := pageParams(r)

		messages, err := deps.DB.ListGameMessages(r.Context(), game.ID, limit, offset)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, messages)
	}
}

// validateContent rejects empty and oversized message bodies.
func validateContent(content string) *errs.CustomError {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return errs.NewError(errs.ErrMessageContentEmpty)
	}
	if utf8.RuneCountInString(trimmed) > MaxMessageContentRunes {
		return errs.NewError(errs.ErrMessageContentTooLong)
	}
	return nil
}

// displayNameFromPayload prefers the token's nickname over the username.
func displayNameFromPayload(payload *jwt.Payload) string {
	if payload.Nickname != "" {
		return payload.Nickname
	}
	return payload.Username
}

// channelIDForGame maps a game to its broadcast channel key.
func channelIDForGame(gameID int64) string {
	return realtime.GameChannelID(gameID)
}
