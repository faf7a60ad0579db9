package handler

import (
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/db"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/store"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/auth/jwt"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/errs"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/logx"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/req"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/resp"
)

const (
	maxGameNameRunes        = 100
	maxGameDescriptionRunes = 2000
	defaultPageSize         = 20
	maxPageSize             = 100
)

type CreateGameInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	MaxPlayers  *int32  `json:"maxPlayers"`
}

// HandleCreateGame creates a game with the caller as game master.
func HandleCreateGame(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input CreateGameInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		nameLen := utf8.RuneCountInString(input.Name)
		if nameLen == 0 || nameLen > maxGameNameRunes {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}
		if input.Description != nil && utf8.RuneCountInString(*input.Description) > maxGameDescriptionRunes {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}
		if input.MaxPlayers != nil && (*input.MaxPlayers < 1 || *input.MaxPlayers > 50) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		game, err := deps.DB.CreateGame(r.Context(), store.CreateGameParams{
			Name:        input.Name,
			Description: input.Description,
			MasterID:    payload.UserID,
			MaxPlayers:  input.MaxPlayers,
		})
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		logx.Info("Game created", "game_id", game.ID, "master_id", payload.UserID)

		resp.RespondCreated(w, r, game)
	}
}

// HandleListGames returns a page of active games.
func HandleListGames(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := pageParams(r)

		games, err := deps.DB.ListGames(r.Context(), limit, offset)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, games)
	}
}

// HandleListMyGames returns the games the caller runs as game master.
func HandleListMyGames(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		limit, offset := pageParams(r)

		games, err := deps.DB.ListGamesByMaster(r.Context(), payload.UserID, limit, offset)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, games)
	}
}

// HandleListJoinedGames returns the games the caller plays in.
func HandleListJoinedGames(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		limit, offset := pageParams(r)

		games, err := deps.DB.ListGamesJoined(r.Context(), payload.UserID, limit, offset)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, games)
	}
}

// HandleGetGame returns one game with master and player list resolved.
func HandleGetGame(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		game, customErr := loadGame(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, game)
	}
}

// HandleJoinGame adds the caller to the game's player list and notifies the GM.
func HandleJoinGame(deps *AppDeps) http.HandlerFunc {
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

		if game.MasterID == payload.UserID {
			resp.RespondError(w, r, errs.NewError(errs.ErrMasterCannotJoin))
			return
		}

		already, err := deps.DB.IsGamePlayer(r.Context(), game.ID, payload.UserID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}
		if already {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyJoined))
			return
		}

		if game.MaxPlayers != nil && len(game.Players) >= int(*game.MaxPlayers) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if err := deps.DB.AddPlayerToGame(r.Context(), game.ID, payload.UserID); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		joinerName := payload.Nickname
		if joinerName == "" {
			joinerName = payload.Username
		}
		link := fmt.Sprintf("%s/games/%d", deps.Config.FrontendURL, game.ID)
		_, err = deps.DB.CreateNotification(r.Context(), store.CreateNotificationParams{
			UserID:  game.MasterID,
			Type:    store.NotificationPlayerJoined,
			Content: fmt.Sprintf("%s joined %s", joinerName, game.Name),
			Link:    &link,
		})
		if err != nil {
			logx.Error(err, "Failed to create join notification", "game_id", game.ID)
		}

		updated, err := deps.DB.GetGameByID(r.Context(), game.ID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, updated)
	}
}

// HandleLeaveGame removes the caller from the game's player list.
func HandleLeaveGame(deps *AppDeps) http.HandlerFunc {
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

		playing, err := deps.DB.IsGamePlayer(r.Context(), game.ID, payload.UserID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}
		if !playing {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotInGame))
			return
		}

		if err := deps.DB.RemovePlayerFromGame(r.Context(), game.ID, payload.UserID); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, map[string]string{"status": "left game"})
	}
}

// HandleRemovePlayer lets the game master remove a player.
func HandleRemovePlayer(deps *AppDeps) http.HandlerFunc {
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

		if game.MasterID != payload.UserID {
			resp.RespondError(w, r, errs.NewError(errs.ErrGameMasterOnly))
			return
		}

		playerID, customErr := req.PathInt64(chi.URLParam(r, "playerID"))
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		playing, err := deps.DB.IsGamePlayer(r.Context(), game.ID, playerID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}
		if !playing {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotInGame))
			return
		}

		if err := deps.DB.RemovePlayerFromGame(r.Context(), game.ID, playerID); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		logx.Info("Player removed from game",
			"game_id", game.ID, "player_id", playerID, "master_id", payload.UserID)

		resp.RespondSuccess(w, r, map[string]string{"status": "player removed"})
	}
}

// loadGame resolves the {gameID} path parameter into a game row.
func loadGame(deps *AppDeps, r *http.Request) (*store.GameDetails, *errs.CustomError) {
	gameID, customErr := req.PathInt64(chi.URLParam(r, "gameID"))
	if customErr != nil {
		return nil, customErr
	}

	game, err := deps.DB.GetGameByID(r.Context(), gameID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, errs.NewError(errs.ErrGameNotFound)
		}
		return nil, errs.NewError(errs.ErrUnknown, err)
	}

	return game, nil
}

// requireParticipant checks that the user is the game's master or a player.
func requireParticipant(deps *AppDeps, r *http.Request, gameID, userID int64) *errs.CustomError {
	ok, err := deps.DB.IsGameParticipant(r.Context(), gameID, userID)
	if err != nil {
		return errs.NewError(errs.ErrUnknown, err)
	}
	if !ok {
		return errs.NewError(errs.ErrNotGameParticipant)
	}
	return nil
}

// pageParams reads limit/offset query parameters with sane bounds.
func pageParams(r *http.Request) (limit, offset int) {
	limit = req.QueryInt(r, "limit", defaultPageSize)
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}

	offset = req.QueryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
