package main

import (
	"log/slog"
	"os"
	"time"
	"yatube/internal/config"
	"yatube/internal/db"
	"yatube/internal/handlers"
	"yatube/internal/router"
	"yatube/internal/services"
	"yatube/internal/utils"
	"yatube/web"

	"github.com/gin-gonic/gin"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)

	// Initialize Database
	conn, err := db.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to open database", "err", err)
		os.Exit(1)
	}

	templates, err := web.LoadTemplates()
	if err != nil {
		slog.Error("failed to load templates", "err", err)
		os.Exit(1)
	}

	blobs, err := services.NewDiskBlobStore(cfg.MediaRoot)
	if err != nil {
		slog.Error("failed to prepare media root", "err", err)
		os.Exit(1)
	}

	cache, err := utils.NewPageCache(cfg.CacheSize, time.Now)
	if err != nil {
		slog.Error("failed to create page cache", "err", err)
		os.Exit(1)
	}

	now := func() time.Time { return time.Now().UTC() }
	store := services.NewStore(conn, now)
	graph := services.NewFollowGraph(conn, now)

	deps := &handlers.Deps{
		Views:    handlers.NewViews(templates),
		Store:    store,
		Feed:     services.NewFeedComposer(store, graph),
		Graph:    graph,
		Comments: services.NewCommentThread(conn, now),
		Accounts: services.NewAccounts(store, 0),
		Blobs:    blobs,
		Cache:    cache,
		PageSize: cfg.PageSize,
		IndexTTL: cfg.IndexCacheTTL,
	}

	r := router.New(deps, router.Options{
		SessionSecret: cfg.SessionSecret,
		MediaRoot:     cfg.MediaRoot,
		Templates:     templates,
	})

	slog.Info("yatube server starting", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
