package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Acurioustractor/act-placemat-sub007/internal/pipeline"
)

var serveDryRun bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipeline over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initPipeline(ctx, cfg, serveDryRun)
		if err != nil {
			return err
		}
		defer e.Close()

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           newMux(e.Pipeline),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			zap.L().Info("serve: listening", zap.String("addr", srv.Addr))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zap.L().Error("serve: shutdown", zap.Error(err))
			}
			return nil
		case err := <-errCh:
			if err == http.ErrServerClosed {
				return nil
			}
			return err
		}
	},
}

// newMux builds the HTTP surface. Runs are serialized: a second analyze
// request while one is in flight gets 409.
func newMux(p *pipeline.Pipeline) http.Handler {
	var mu sync.Mutex
	var running bool
	var lastResult *pipeline.Result

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/report", func(w http.ResponseWriter, req *http.Request) {
		mu.Lock()
		result := lastResult
		mu.Unlock()
		if result == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no run completed yet"})
			return
		}
		writeJSON(w, http.StatusOK, result.Report)
	})

	r.Post("/api/analyze", func(w http.ResponseWriter, req *http.Request) {
		mu.Lock()
		if running {
			mu.Unlock()
			writeJSON(w, http.StatusConflict, map[string]string{"error": "a run is already in progress"})
			return
		}
		running = true
		mu.Unlock()

		result, err := p.Run(req.Context())

		mu.Lock()
		running = false
		if err == nil {
			lastResult = result
		}
		mu.Unlock()

		if err != nil {
			zap.L().Error("serve: run failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "run failed"})
			return
		}
		writeJSON(w, http.StatusOK, result.Report)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().BoolVar(&serveDryRun, "dry-run", false, "run without a database")
	rootCmd.AddCommand(serveCmd)
}
