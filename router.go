package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// generateRequest is the JSON body for POST /api/generate. Seed is optional;
// a missing seed means a fresh random run.
type generateRequest struct {
	Roster  json.RawMessage `json:"roster"`
	Rounds  int             `json:"rounds"`
	Seed    *uint64         `json:"seed"`
	Options *Options        `json:"options"`
}

type generateResponse struct {
	RunID   string        `json:"runId,omitempty"`
	Seed    uint64        `json:"seed"`
	Rounds  []RoundResult `json:"rounds"`
	Summary Summary       `json:"summary"`
}

// Router builds the HTTP API. store may be nil; generation then runs without
// archiving.
func Router(store *RunStore) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Post("/api/generate", func(w http.ResponseWriter, req *http.Request) {
		var body generateRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON: " + err.Error()})
			return
		}
		if len(body.Roster) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing roster field"})
			return
		}

		players, problems := ParseRoster(string(body.Roster))
		opts := DefaultOptions()
		if body.Options != nil {
			opts = *body.Options
		}
		rounds := body.Rounds
		if rounds == 0 {
			rounds = 1
		}
		seed := secureBaseSeed()
		if body.Seed != nil {
			seed = *body.Seed
		}

		if len(problems) == 0 {
			problems = ValidateRoster(players)
		}
		if len(problems) > 0 {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": problems})
			return
		}

		results, summary, _ := GenerateTeams(players, rounds, opts, seed)
		resp := generateResponse{Seed: seed, Rounds: results, Summary: summary}

		if store != nil {
			run := RunRecord{
				ID:        NewRunID(),
				CreatedAt: time.Now().UTC(),
				Seed:      seed,
				Roster:    players,
				Options:   opts,
				Rounds:    results,
				Summary:   summary,
			}
			if err := store.SaveRun(req.Context(), run); err != nil {
				log.Error().Err(err).Msg("archive run failed")
			} else {
				resp.RunID = run.ID
			}
		}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Get("/api/runs/{id}", func(w http.ResponseWriter, req *http.Request) {
		if store == nil {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "run archive is not enabled"})
			return
		}
		id := chi.URLParam(req, "id")
		run, ok, err := store.GetRun(req.Context(), id)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "run not found"})
			return
		}
		writeJSON(w, http.StatusOK, run)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)
		log.Info().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// Serve runs the HTTP API until the context is cancelled.
func Serve(ctx context.Context, addr string, store *RunStore) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      Router(store),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Info().Str("addr", addr).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
