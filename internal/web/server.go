// Package web exposes the bot over a local JSON API.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alicydosanjos/Bot-Email/internal/bot"
	"github.com/alicydosanjos/Bot-Email/internal/category"
	"github.com/alicydosanjos/Bot-Email/internal/classify"
	"github.com/alicydosanjos/Bot-Email/internal/config"
	"github.com/alicydosanjos/Bot-Email/internal/history"
)

type Server struct {
	cfg   *config.Config
	bot   *bot.Bot
	store *history.Store

	httpServer *http.Server
	port       int
}

func NewServer(cfg *config.Config, b *bot.Bot, store *history.Store, port int) *Server {
	if port == 0 {
		port = cfg.Server.Port
	}
	return &Server{cfg: cfg, bot: b, store: store, port: port}
}

// Start runs the HTTP server until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/classify", s.handleClassify)
		r.Post("/train", s.handleTrain)
		r.Post("/model/save", s.handleModelSave)
		r.Post("/model/load", s.handleModelLoad)
		r.Get("/categories", s.handleCategories)
		r.Get("/history", s.handleHistory)
		r.Get("/stats", s.handleStats)
		r.Get("/health", s.handleHealth)
	})

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("API listening on http://%s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Warning: failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type classifyRequest struct {
	Text   string `json:"text"`
	Sender string `json:"sender,omitempty"`
	Name   string `json:"name,omitempty"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	analysis := s.bot.Analyze(req.Text, req.Name)

	if s.store != nil {
		rec := &history.Record{
			Source:     "api",
			Sender:     req.Sender,
			Category:   string(analysis.Category),
			Sentiment:  string(analysis.Sentiment),
			Confidence: analysis.Confidence,
			Keywords:   analysis.Keywords,
			Response:   analysis.Response,
		}
		if err := s.store.Add(rec); err != nil {
			log.Printf("Warning: failed to record analysis: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, analysis)
}

type trainRequest struct {
	Examples []struct {
		Text  string `json:"text"`
		Label string `json:"label"`
	} `json:"examples"`
	Save bool `json:"save,omitempty"`
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	var req trainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	examples := make([]classify.Example, len(req.Examples))
	for i, ex := range req.Examples {
		examples[i] = classify.Example{Text: ex.Text, Label: ex.Label}
	}

	report, err := s.bot.TrainModel(examples)
	if err != nil {
		var verr *classify.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, verr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if req.Save {
		if err := s.bot.SaveModel(s.cfg.Storage.ModelPath); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("trained but failed to save: %v", err))
			return
		}
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleModelSave(w http.ResponseWriter, r *http.Request) {
	if err := s.bot.SaveModel(s.cfg.Storage.ModelPath); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": s.cfg.Storage.ModelPath})
}

func (s *Server) handleModelLoad(w http.ResponseWriter, r *http.Request) {
	if err := s.bot.LoadModel(s.cfg.Storage.ModelPath); err != nil {
		if errors.Is(err, classify.ErrModelNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": s.cfg.Storage.ModelPath})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Category category.Category `json:"category"`
		Name     string            `json:"name"`
		Icon     string            `json:"icon"`
		Keywords []string          `json:"keywords"`
		Priority int               `json:"priority"`
	}

	cats := s.bot.Categories()
	out := make([]entry, 0, len(category.All()))
	for _, c := range category.All() {
		def := cats.Definition(c)
		out = append(out, entry{
			Category: c,
			Name:     def.Name,
			Icon:     def.Icon,
			Keywords: def.Keywords,
			Priority: def.Priority,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "history is not enabled")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &limit); err != nil || limit <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}

	records, err := s.store.Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "history is not enabled")
		return
	}

	stats, err := s.store.GetStats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"trained": s.bot.Trained(),
	})
}
