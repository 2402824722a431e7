// Package server exposes segmentation and dispatch over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/bububa/atomic-sms/components/notification"
	"github.com/bububa/atomic-sms/tools/segment"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// SendRequest is the body of POST /v1/messages
type SendRequest struct {
	Messages []notification.Message `json:"messages"`
}

// SendResponse lines up with SendRequest.Messages; a message that could not
// be dispatched at all has a nil receipt
type SendResponse struct {
	Receipts []*notification.Receipt `json:"receipts"`
	Error    string                  `json:"error,omitempty"`
}

type Server struct {
	dispatcher *notification.Dispatcher
	tool       *segment.Tool
	logger     *zap.Logger
	startTime  time.Time
}

func New(dispatcher *notification.Dispatcher, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		dispatcher: dispatcher,
		tool:       segment.New(),
		logger:     logger,
		startTime:  time.Now(),
	}
}

// Routes returns the API router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/split", s.handleSplit)
		r.Post("/messages", s.handleSend)
		r.Get("/messages/{id}", s.handleReceipt)
		r.Get("/stats", s.handleStats)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	var input segment.Input
	if err := decode(w, r, &input); err != nil {
		sendJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	output, err := s.tool.Run(r.Context(), &input)
	if err != nil {
		sendJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	sendJSON(w, http.StatusOK, output)
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := decode(w, r, &req); err != nil {
		sendJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if len(req.Messages) == 0 {
		sendJSON(w, http.StatusBadRequest, errorResponse{Error: "no messages"})
		return
	}
	for idx := range req.Messages {
		if req.Messages[idx].ID == "" {
			req.Messages[idx].ID = notification.NewMessageID()
		}
	}
	receipts, err := s.dispatcher.DispatchAll(r.Context(), req.Messages)
	resp := SendResponse{Receipts: receipts}
	status := http.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, notification.ErrInvalidMessage):
		status = http.StatusBadRequest
		resp.Error = err.Error()
	default:
		status = http.StatusBadGateway
		resp.Error = err.Error()
	}
	if err != nil {
		s.logger.Warn("dispatch failed", zap.String("request_id", middleware.GetReqID(r.Context())), zap.Error(err))
	}
	sendJSON(w, status, resp)
}

func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	history := s.dispatcher.History()
	if history == nil {
		sendJSON(w, http.StatusNotFound, errorResponse{Error: "message history disabled"})
		return
	}
	receipt, ok := history.Get(chi.URLParam(r, "id"))
	if !ok {
		sendJSON(w, http.StatusNotFound, errorResponse{Error: "message not found"})
		return
	}
	sendJSON(w, http.StatusOK, receipt)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, s.dispatcher.Stats())
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
