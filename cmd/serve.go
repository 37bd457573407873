package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seaward-group/laytime-cli/internal/laytime"
	"github.com/seaward-group/laytime-cli/internal/ocr"
	"github.com/seaward-group/laytime-cli/internal/sof"
	"github.com/seaward-group/laytime-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(st, cfg.Normalize.ConfidenceFloor),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter builds the API surface: health, normalization and laytime
// calculation endpoints plus read access to stored records.
func newRouter(st store.Store, floor float64) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sof/normalize", handleNormalize(st, floor))
		r.Post("/laytime/snapshot", handleSnapshot(st))
		r.Post("/laytime/prorate", handleProrate())

		r.Get("/extractions", handleListExtractions(st))
		r.Get("/extractions/{id}", handleGetExtraction(st))
		r.Get("/snapshots", handleListSnapshots(st))
	})

	return r
}

// handleNormalize accepts an OCR payload body and returns the
// normalization result. ?save=true persists it.
func handleNormalize(st store.Store, floor float64) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "read request body")
			return
		}

		items, err := ocr.DecodePayload(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if f := req.URL.Query().Get("floor"); f != "" {
			floor = sof.ParseFloor(f)
		}

		result := sof.Normalize(items, floor)

		if req.URL.Query().Get("save") == "true" {
			name := req.URL.Query().Get("document")
			if name == "" {
				name = "upload"
			}
			if _, err := st.SaveExtraction(req.Context(), name, len(items), result); err != nil {
				zap.L().Error("save extraction failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "save extraction")
				return
			}
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func handleSnapshot(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var sr snapshotRequest
		if err := json.NewDecoder(req.Body).Decode(&sr); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		snap := laytime.ComputeSnapshot(sr.Claim, sr.Events, sr.Siblings, sr.Deductions, sr.Additions)

		if req.URL.Query().Get("save") == "true" {
			if _, err := st.SaveSnapshot(req.Context(), sr.Claim.PortCallRef, snap); err != nil {
				zap.L().Error("save snapshot failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "save snapshot")
				return
			}
		}

		writeJSON(w, http.StatusOK, snap)
	}
}

func handleProrate() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var pr prorateRequest
		if err := json.NewDecoder(req.Body).Decode(&pr); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		writeJSON(w, http.StatusOK, laytime.Calculate(pr.input()))
	}
}

func handleListExtractions(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
		recs, err := st.ListExtractions(req.Context(), limit)
		if err != nil {
			zap.L().Error("list extractions failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "list extractions")
			return
		}
		writeJSON(w, http.StatusOK, recs)
	}
}

func handleGetExtraction(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		rec, err := st.GetExtraction(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "extraction not found")
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func handleListSnapshots(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		portCall := req.URL.Query().Get("port_call")
		if portCall == "" {
			writeError(w, http.StatusBadRequest, "port_call is required")
			return
		}
		limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
		recs, err := st.ListSnapshots(req.Context(), portCall, limit)
		if err != nil {
			zap.L().Error("list snapshots failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "list snapshots")
			return
		}
		writeJSON(w, http.StatusOK, recs)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
