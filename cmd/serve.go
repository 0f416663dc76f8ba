package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leadharbor/leadgen-cli/internal/lead"
	"github.com/leadharbor/leadgen-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for dedupe requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close() //nolint:errcheck
		if err := s.Migrate(ctx); err != nil {
			return err
		}

		r := chi.NewRouter()
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/v1/dedupe", func(w http.ResponseWriter, req *http.Request) {
			var batch []lead.Lead
			if err := json.NewDecoder(req.Body).Decode(&batch); err != nil {
				writeJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}

			result := runPipeline(batch)
			saveRunToStore(req.Context(), s, "api", result)

			writeJSONResponse(w, http.StatusOK, result)
		})

		r.Get("/v1/runs", func(w http.ResponseWriter, req *http.Request) {
			runs, err := s.ListRuns(req.Context(), store.RunFilter{})
			if err != nil {
				zap.L().Error("list runs failed", zap.Error(err))
				writeJSONResponse(w, http.StatusInternalServerError, map[string]string{"error": "list runs failed"})
				return
			}
			writeJSONResponse(w, http.StatusOK, runs)
		})

		r.Get("/v1/runs/{id}", func(w http.ResponseWriter, req *http.Request) {
			run, err := s.GetRun(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				writeJSONResponse(w, http.StatusNotFound, map[string]string{"error": "run not found"})
				return
			}
			writeJSONResponse(w, http.StatusOK, run)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func writeJSONResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
