package handler

import (
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/notify"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/realtime"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/storage"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/store"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/configs"
)

// AppDeps bundles every service the handlers need. It is built once in main and
// threaded through explicitly; nothing here is a package-level singleton.
type AppDeps struct {
	Config   *configs.AppConfig
	DB       *store.Queries
	Registry *realtime.Registry
	Router   *realtime.Router
	Storage  storage.Service
	Notifier *notify.Notifier
	Digests  *notify.DigestScheduler
}
