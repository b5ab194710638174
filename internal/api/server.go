// Package api exposes the roll engine over HTTP
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/storycraft/roller/internal/dice"
	"github.com/storycraft/roller/internal/domain/character"
	domainroll "github.com/storycraft/roller/internal/domain/roll"
	rerr "github.com/storycraft/roller/internal/errors"
	"github.com/storycraft/roller/internal/observability"
	"github.com/storycraft/roller/internal/repositories/feed"
	charService "github.com/storycraft/roller/internal/services/character"
	rollService "github.com/storycraft/roller/internal/services/roll"
)

const maxBodyBytes = 1 << 20

// Config holds the handler dependencies
type Config struct {
	Characters charService.Service    // Required
	Rolls      rollService.Service    // Required
	Metrics    *observability.Metrics // Optional, no /metrics without it
	Logger     *zap.Logger            // Optional
}

// Handler serves the HTTP API
type Handler struct {
	characters charService.Service
	rolls      rollService.Service
	logger     *zap.Logger
	mux        *http.ServeMux
}

// NewHandler registers every route
func NewHandler(cfg *Config) *Handler {
	if cfg == nil || cfg.Characters == nil || cfg.Rolls == nil {
		panic("character and roll services are required")
	}

	h := &Handler{
		characters: cfg.Characters,
		rolls:      cfg.Rolls,
		logger:     cfg.Logger,
		mux:        http.NewServeMux(),
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}

	h.mux.HandleFunc("POST /characters/{id}/actions/{action}/roll", h.executeAction)
	h.mux.HandleFunc("GET /characters/{id}", h.getCharacter)
	h.mux.HandleFunc("PUT /characters/{id}/buffs/{buff}", h.toggleBuff)
	h.mux.HandleFunc("POST /formula", h.rollFormula)
	h.mux.HandleFunc("GET /feeds/{id}", h.listFeed)
	h.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		h.mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}
	return h
}

// ServeHTTP logs every request and turns panics into 500s
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	defer func() {
		if recovered := recover(); recovered != nil {
			h.logger.Error("panic recovered",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Any("panic", recovered),
				zap.ByteString("stack", debug.Stack()))
			rec.WriteHeader(http.StatusInternalServerError)
		}
		h.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	}()

	h.mux.ServeHTTP(rec, r)
}

type executeActionRequest struct {
	FeedID string `json:"feed_id"`
}

type rollResponse struct {
	EntryID       string                    `json:"entry_id"`
	FeedID        string                    `json:"feed_id"`
	Result        *domainroll.Result        `json:"result,omitempty"`
	Formula       *dice.FormulaResult       `json:"formula,omitempty"`
	Message       *domainroll.Message       `json:"message"`
	Main          *character.MainAttributes `json:"main,omitempty"`
	DispatchError string                    `json:"dispatch_error,omitempty"`
	RecordError   string                    `json:"record_error,omitempty"`
	Fallback      string                    `json:"fallback,omitempty"`
}

func (h *Handler) executeAction(w http.ResponseWriter, r *http.Request) {
	var req executeActionRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, err)
		return
	}

	out, err := h.rolls.ExecuteAction(r.Context(), &rollService.ExecuteActionInput{
		CharacterID: r.PathValue("id"),
		ActionName:  r.PathValue("action"),
		FeedID:      req.FeedID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &rollResponse{
		EntryID:       out.Entry.ID,
		FeedID:        out.Entry.FeedID,
		Result:        out.Result,
		Message:       out.Message,
		Main:          &out.Character.Main,
		DispatchError: errorString(out.DispatchError),
		RecordError:   errorString(out.RecordError),
		Fallback:      out.Fallback,
	})
}

type rollFormulaRequest struct {
	Formula string `json:"formula"`
	FeedID  string `json:"feed_id"`
	Author  string `json:"author"`
}

func (h *Handler) rollFormula(w http.ResponseWriter, r *http.Request) {
	var req rollFormulaRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	out, err := h.rolls.RollFormula(r.Context(), &rollService.RollFormulaInput{
		Formula: req.Formula,
		FeedID:  req.FeedID,
		Author:  req.Author,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &rollResponse{
		EntryID:       out.Entry.ID,
		FeedID:        out.Entry.FeedID,
		Formula:       out.Result,
		Message:       out.Message,
		DispatchError: errorString(out.DispatchError),
		RecordError:   errorString(out.RecordError),
		Fallback:      out.Fallback,
	})
}

type feedResponse struct {
	FeedID  string        `json:"feed_id"`
	Entries []*feed.Entry `json:"entries"`
}

func (h *Handler) listFeed(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, rerr.InvalidArgumentf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	feedID := r.PathValue("id")
	entries, err := h.rolls.ListFeed(r.Context(), feedID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []*feed.Entry{}
	}
	writeJSON(w, http.StatusOK, &feedResponse{FeedID: feedID, Entries: entries})
}

func (h *Handler) getCharacter(w http.ResponseWriter, r *http.Request) {
	char, err := h.characters.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, char)
}

type toggleBuffRequest struct {
	Active *bool `json:"active"`
}

func (h *Handler) toggleBuff(w http.ResponseWriter, r *http.Request) {
	var req toggleBuffRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	if req.Active == nil {
		writeError(w, rerr.InvalidArgument("active is required"))
		return
	}

	char, err := h.characters.ToggleBuff(r.Context(), r.PathValue("id"), r.PathValue("buff"), *req.Active)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, char)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, rerr.HTTPStatus(err), &errorResponse{
		Error: err.Error(),
		Code:  string(rerr.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeJSON reads a request body. An empty body is accepted when optional.
func decodeJSON(r *http.Request, dst any, optional bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return rerr.WrapWithCode(err, rerr.CodeInvalidArgument, "invalid request body")
	}
	return nil
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.status = status
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}
