package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/auth/jwt"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/limiter"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/logx"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/resp"
)

const (
	// DM sends per IP. Generous for chat, tight enough to blunt spam runs.
	DMSendRate  = 1.0
	DMSendBurst = 10

	// WebSocket connects per IP.
	WsConnectRate  = 0.5
	WsConnectBurst = 5
)

// Router builds the full HTTP routing table: global middleware, the REST API
// under /api, and the WebSocket endpoints under /ws.
func Router(deps *AppDeps) http.Handler {
	dmLimiter := limiter.NewIPRateLimiter(rate.Limit(DMSendRate), DMSendBurst)
	wsLimiter := limiter.NewIPRateLimiter(rate.Limit(WsConnectRate), WsConnectBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{
			"status":  "ok",
			"service": "Haven API",
		})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", HandleRegister(deps))
			auth.Post("/login", HandleLogin(deps))
			auth.Post("/change-password", HandleChangePassword(deps))
		})

		api.Route("/users", func(users chi.Router) {
			users.Get("/me", HandleGetMe(deps))
			users.Patch("/me/profile", HandleUpdateProfile(deps))
			users.Patch("/me/settings", HandleUpdateSettings(deps))
			users.Post("/me/avatar/presign", HandlePresignAvatarUpload(deps))
			users.Post("/me/avatar/confirm", HandleConfirmAvatar(deps))
			users.Get("/search", HandleSearchUsers(deps))
			users.Get("/{userID}", HandleGetPublicProfile(deps))

			users.With(dmLimiter.Middleware).Post("/{userID}/messages", HandleSendDirectMessage(deps))
			users.Get("/{userID}/messages", HandleListDirectMessages(deps))
		})

		api.Get("/me/conversations", HandleListConversations(deps))

		api.Route("/games", func(games chi.Router) {
			games.Post("/", HandleCreateGame(deps))
			games.Get("/", HandleListGames(deps))
			games.Get("/mine", HandleListMyGames(deps))
			games.Get("/joined", HandleListJoinedGames(deps))

			games.Route("/{gameID}", func(game chi.Router) {
				game.Get("/", HandleGetGame(deps))
				game.Post("/join", HandleJoinGame(deps))
				game.Post("/leave", HandleLeaveGame(deps))
				game.Delete("/players/{playerID}", HandleRemovePlayer(deps))

				game.Post("/messages", HandlePostGameMessage(deps))
				game.Get("/messages", HandleListGameMessages(deps))
			})
		})

		api.Route("/rp/{channelID}", func(rp chi.Router) {
			rp.Post("/messages", HandlePostRPMessage(deps))
			rp.Get("/messages", HandleListRPMessages(deps))
			rp.Post("/roll", HandleRollDice(deps))
		})

		api.Route("/notifications", func(n chi.Router) {
			n.Get("/", HandleListNotifications(deps))
			n.Post("/{notificationID}/read", HandleMarkNotificationRead(deps))
			n.Post("/read-all", HandleMarkAllNotificationsRead(deps))
		})

		api.Route("/characters", func(ch chi.Router) {
			ch.Post("/", HandleCreateCharacter(deps))
			ch.Get("/", HandleListCharacters(deps))

			ch.Route("/{characterID}", func(one chi.Router) {
				one.Get("/", HandleGetCharacter(deps))
				one.Patch("/", HandleUpdateCharacter(deps))
				one.Delete("/", HandleDeleteCharacter(deps))

				one.Post("/photo/presign", HandlePresignProfilePhoto(deps))
				one.Post("/photo/confirm", HandleConfirmProfilePhoto(deps))

				one.Post("/gallery/presign", HandlePresignGalleryUpload(deps))
				one.Post("/gallery", HandleAttachGalleryImage(deps))
				one.Get("/gallery", HandleListGalleryImages(deps))
			})
		})
		api.Delete("/characters/gallery/{imageID}", HandleDeleteGalleryImage(deps))

		api.Get("/admin/users", HandleListUsersAdmin(deps))

		api.Post("/tasks/send-digests", HandleSendDigests(deps))
	})

	r.Get("/ws/dm", HandleDMSocket(wsUpgrader, wsLimiter, deps))
	r.Get("/ws/rp/{channelID}", HandleRPSocket(wsUpgrader, wsLimiter, deps))

	return r
}
