package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hamaluik/chordle/internal/handler"
	"github.com/hamaluik/chordle/internal/middleware"
	"github.com/hamaluik/chordle/internal/store"
	ws "github.com/hamaluik/chordle/internal/websocket"
)

type Server struct {
	db      *sql.DB
	hub     *ws.Hub
	choreH  *handler.ChoreHandler
	ledgerH *handler.LedgerHandler
	logger  *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	choreStore := store.NewChoreStore(db)
	eventStore := store.NewEventStore(db)

	return &Server{
		db:      db,
		hub:     hub,
		choreH:  handler.NewChoreHandler(choreStore, eventStore, hub, logger.With("component", "chore")),
		ledgerH: handler.NewLedgerHandler(eventStore, hub, logger.With("component", "ledger")),
		logger:  logger,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	mux.HandleFunc("GET /api/chores", s.choreH.List)
	mux.HandleFunc("POST /api/chores", s.choreH.Create)
	mux.HandleFunc("GET /api/chores/due", s.choreH.Due)
	mux.HandleFunc("PUT /api/chores/{id}", s.choreH.Update)
	mux.HandleFunc("DELETE /api/chores/{id}", s.choreH.Delete)
	mux.HandleFunc("POST /api/chores/{id}/complete", s.choreH.Complete)
	mux.HandleFunc("GET /api/chores/{id}/stats", s.choreH.Stats)

	mux.HandleFunc("GET /api/ledger", s.ledgerH.State)
	mux.HandleFunc("POST /api/ledger/undo", s.ledgerH.Undo)
	mux.HandleFunc("POST /api/ledger/redo", s.ledgerH.Redo)

	mux.Handle("GET /ws", ws.Handle(s.hub))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
