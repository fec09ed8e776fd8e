package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gmkornilov/chess-puzzle-widget/internal/api"
	"github.com/gmkornilov/chess-puzzle-widget/internal/config"
	"github.com/gmkornilov/chess-puzzle-widget/internal/dao"
	"github.com/gmkornilov/chess-puzzle-widget/internal/db"
	"github.com/gmkornilov/chess-puzzle-widget/internal/importer"
	"github.com/gmkornilov/chess-puzzle-widget/internal/session"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/puzzle"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/widget"
)

func main() {
	cfg, err := config.InitConfig()
	if err != nil {
		panic(err)
	}

	repo := dao.NewMemoryRepository()
	if cfg.StorageEnabled() {
		dbClient, err := db.NewDbClient(cfg)
		if err != nil {
			panic(err)
		}
		defer dbClient.Close()
		repo = dao.NewPuzzleRepository(dbClient)
	} else {
		log.Println("MONGO_ADDRESS is not set, keeping puzzle sets in memory")
	}

	defaults := puzzle.Defaults
	if cfg.Widget.CatalogPath != "" {
		defaults, err = puzzle.LoadCatalog(cfg.Widget.CatalogPath)
		if err != nil {
			panic(err)
		}
		log.Printf("loaded %d puzzles from %s", len(defaults), cfg.Widget.CatalogPath)
	}

	manager := session.NewManager(session.Options{
		Delays: widget.Delays{
			Reply:         cfg.Widget.ReplyDelay,
			BranchAdvance: cfg.Widget.BranchDelay,
			BranchReply:   cfg.Widget.BranchReplyDelay,
			SnapBack:      cfg.Widget.SnapBackDelay,
		},
		Animation: cfg.Widget.Animation,
		TTL:       cfg.Widget.SessionTTL,
		Locale:    cfg.Widget.DefaultLocale,
	}, repo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go manager.Run(ctx)

	router := api.NewRouter(
		api.NewSessionApi(manager, repo, defaults),
		api.NewPuzzleSetApi(repo, importer.NewCatalogImporterFactory(repo)),
	)
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Println("shutdown error:", err.Error())
		}
	}()

	log.Printf("listening on %s", cfg.Addr())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}
}
