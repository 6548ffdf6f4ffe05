package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/storage"
	"github.com/Zachkp/portfolio/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the portfolio over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Port = port
		}
		return serve(cmd.Context(), cfg, contentDir(cmd, cfg.ContentDir))
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides PORT)")
}

func serve(parent context.Context, cfg config.Config, dir string) error {
	gin.SetMode(cfg.GinMode)
	logger := newLogger(cfg.GinMode)

	// Bad content stops startup before anything listens.
	store, err := loadContent(dir)
	if err != nil {
		return errors.Wrap(err, "loading content")
	}
	for _, w := range store.SkillLevelWarnings() {
		logger.Warn("skill level outside 0-100", "category", w.Category, "skill", w.Skill, "level", w.Level)
	}
	logger.Info("content loaded", "projects", len(store.Projects()), "experience", len(store.Experience()))

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return errors.Wrap(err, "opening storage")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var tracker *analytics.Tracker
	if cfg.Analytics.Enabled {
		tracker, err = analytics.NewTracker(db, logger)
		if err != nil {
			return err
		}
		go tracker.RunCleanup(ctx, cfg.Analytics.Retention, 24*time.Hour)
		logger.Info("visitor tracking enabled with hashed IP addresses")
	}

	if !cfg.SMTP.Configured() {
		logger.Warn("SMTP not configured; contact messages will be stored but not emailed")
	}
	sender := contact.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Pass, cfg.SMTP.To)
	contacts := contact.NewService(contact.NewStore(db), sender, logger)

	imagesDir := ""
	if fi, err := os.Stat("images"); err == nil && fi.IsDir() {
		imagesDir = "images"
	}

	handler, err := web.New(web.Deps{
		Content:   store,
		Tracker:   tracker,
		Contact:   contacts,
		Admin:     cfg.Admin,
		ImagesDir: imagesDir,
		Logger:    logger,
		Retention: cfg.Analytics.Retention,
	})
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	if tracker != nil {
		tracker.Wait()
	}
	return nil
}
