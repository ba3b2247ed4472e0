package handler

import (
	"log/slog"
	"net/http"

	"github.com/hamaluik/chordle/internal/store"
	"github.com/hamaluik/chordle/internal/websocket"
)

// LedgerHandler exposes the undo/redo state machine over the event ledger.
type LedgerHandler struct {
	eventStore *store.EventStore
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewLedgerHandler(es *store.EventStore, hub *websocket.Hub, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{eventStore: es, hub: hub, logger: logger}
}

func (h *LedgerHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// State reports whether anything can currently be undone or redone.
func (h *LedgerHandler) State(w http.ResponseWriter, r *http.Request) {
	canUndo, err := h.eventStore.CanUndo()
	if err != nil {
		h.logger.Error("can undo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read ledger state")
		return
	}
	canRedo, err := h.eventStore.CanRedo()
	if err != nil {
		h.logger.Error("can redo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read ledger state")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"can_undo": canUndo, "can_redo": canRedo})
}

// Undo removes the most recent completion. Undoing with nothing to undo is a
// no-op, not an error.
func (h *LedgerHandler) Undo(w http.ResponseWriter, r *http.Request) {
	event, err := h.eventStore.Undo()
	if err != nil {
		h.logger.Error("undo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to undo")
		return
	}
	if event == nil {
		writeJSON(w, http.StatusOK, map[string]any{"undone": false})
		return
	}

	h.broadcast(websocket.NewMessage("event", "undone", event.ChoreID, nil))

	writeJSON(w, http.StatusOK, map[string]any{"undone": true, "event": event})
}

// Redo restores the most recently undone completion, if any.
func (h *LedgerHandler) Redo(w http.ResponseWriter, r *http.Request) {
	event, err := h.eventStore.Redo()
	if err != nil {
		h.logger.Error("redo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to redo")
		return
	}
	if event == nil {
		writeJSON(w, http.StatusOK, map[string]any{"redone": false})
		return
	}

	h.broadcast(websocket.NewMessage("event", "redone", event.ChoreID, nil))

	writeJSON(w, http.StatusOK, map[string]any{"redone": true, "event": event})
}
