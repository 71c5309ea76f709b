package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/go-social/pkg/adapters/handler"
	"github.com/wadjakorntonsri/go-social/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-social/pkg/config"
	"github.com/wadjakorntonsri/go-social/pkg/core/services"
	"github.com/wadjakorntonsri/go-social/pkg/logger"
)

var mux http.Handler

func init() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogSink)

	// On Vercel the local file is ephemeral; point DATABASE_URL at Turso
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		panic(err)
	}

	mux = handler.NewRouter(cfg, handler.FromSet(services.NewSet(repo, cfg.BcryptCost)))
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
