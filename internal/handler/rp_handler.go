package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/db"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/dice"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/realtime"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/store"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/auth/jwt"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/errs"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/req"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/resp"
)

type RPMessageInput struct {
	Content     string  `json:"content"`
	Role        string  `json:"role"`
	SenderName  *string `json:"senderName"`
	Avatar      *string `json:"avatar"`
	CharacterID *string `json:"characterId"`
}

type RollInput struct {
	Notation string `json:"notation"`
}

// HandlePostRPMessage stores a roleplay message under a persona voice and
// broadcasts it to the channel's subscribers.
func HandlePostRPMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		game, customErr := loadChannelGame(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := requireParticipant(deps, r, game.ID, payload.UserID); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input RPMessageInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !realtime.ValidRole(input.Role) {
			resp.RespondError(w, r, errs.NewError(errs.ErrRoleInvalid))
			return
		}
		if customErr := validateContent(input.Content); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		senderName := displayNameFromPayload(payload)
		if input.SenderName != nil && strings.TrimSpace(*input.SenderName) != "" {
			senderName = strings.TrimSpace(*input.SenderName)
		}

		senderID := payload.UserID
		ownerID := fmt.Sprintf("%d", payload.UserID)

		msg, err := deps.DB.CreateGameMessage(r.Context(), store.CreateGameMessageParams{
			GameID:            game.ID,
			SenderID:          &senderID,
			Content:           strings.TrimSpace(input.Content),
			SenderDisplayName: &senderName,
			SenderRole:        &input.Role,
			SenderAvatarURL:   input.Avatar,
			CharacterID:       input.CharacterID,
			OwnerUserID:       &ownerID,
		})
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		event := realtime.NewChannelMessageEvent(msg, senderName, input.Role)
		deps.Router.BroadcastToChannel(realtime.GameChannelID(game.ID), event)

		resp.RespondCreated(w, r, event)
	}
}

// HandleListRPMessages returns the channel's history in wire format, oldest
// first.
func HandleListRPMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		game, customErr := loadChannelGame(deps, r)
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

		events := make([]realtime.ChannelMessageEvent, len(messages))
		for i := range messages {
			events[i] = realtime.NewChannelMessageEvent(&messages[i], "System", realtime.RoleSystem)
		}

		resp.RespondSuccess(w, r, events)
	}
}

// HandleRollDice evaluates dice notation, persists the roll as a system-voiced
// channel message and broadcasts it. Invalid notation never reaches the store.
func HandleRollDice(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		game, customErr := loadChannelGame(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := requireParticipant(deps, r, game.ID, payload.UserID); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input RollInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		roll, err := dice.Evaluate(strings.TrimSpace(input.Notation))
		if err != nil {
			if customErr, ok := err.(*errs.CustomError); ok {
				resp.RespondError(w, r, customErr)
				return
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrDiceNotationInvalid))
			return
		}

		content := fmt.Sprintf("%s %s", displayNameFromPayload(payload), roll.Describe())
		role := realtime.RoleSystem

		msg, dbErr := deps.DB.CreateGameMessage(r.Context(), store.CreateGameMessageParams{
			GameID:     game.ID,
			Content:    content,
			SenderRole: &role,
		})
		if dbErr != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, dbErr))
			return
		}

		event := realtime.NewChannelMessageEvent(msg, "System", realtime.RoleSystem)
		deps.Router.BroadcastToChannel(realtime.GameChannelID(game.ID), event)

		resp.RespondCreated(w, r, map[string]any{
			"roll":    roll,
			"message": event,
		})
	}
}

// loadChannelGame resolves the {channelID} path parameter. Channel identifiers
// are the numeric game id, so the channel exists exactly when the game does.
func loadChannelGame(deps *AppDeps, r *http.Request) (*store.GameDetails, *errs.CustomError) {
	gameID, customErr := req.PathInt64(chi.URLParam(r, "channelID"))
	if customErr != nil {
		return nil, errs.NewError(errs.ErrChannelNotAllowed)
	}

	game, err := deps.DB.GetGameByID(r.Context(), gameID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, errs.NewError(errs.ErrChannelNotAllowed)
		}
		return nil, errs.NewError(errs.ErrUnknown, err)
	}

	return game, nil
}
