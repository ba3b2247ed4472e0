package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hamaluik/chordle/internal/interval"
	"github.com/hamaluik/chordle/internal/model"
	"github.com/hamaluik/chordle/internal/schedule"
	"github.com/hamaluik/chordle/internal/stats"
	"github.com/hamaluik/chordle/internal/store"
	"github.com/hamaluik/chordle/internal/validation"
	"github.com/hamaluik/chordle/internal/websocket"
)

type ChoreHandler struct {
	choreStore *store.ChoreStore
	eventStore *store.EventStore
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewChoreHandler(cs *store.ChoreStore, es *store.EventStore, hub *websocket.Hub, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{choreStore: cs, eventStore: es, hub: hub, logger: logger}
}

func (h *ChoreHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type choreRequest struct {
	Name     string `json:"name"`
	Interval string `json:"interval"`
	// FirstCompleted optionally backdates an initial completion so imported
	// chores start with history.
	FirstCompleted *time.Time `json:"first_completed,omitempty"`
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if errs := validation.Check(validation.ChoreInput{Name: req.Name, Interval: req.Interval}); errs != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": errs})
		return
	}

	iv, err := interval.Parse(req.Interval)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": validation.FieldErrors{"interval": "invalid"}})
		return
	}

	id, err := h.choreStore.Create(req.Name, iv)
	if err != nil {
		h.logger.Error("create chore", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create chore")
		return
	}

	if req.FirstCompleted != nil {
		if err := h.eventStore.Record(id, *req.FirstCompleted); err != nil {
			h.logger.Error("record first completion", "chore_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to record first completion")
			return
		}
	}

	h.broadcast(websocket.NewMessage("chore", "created", id, nil))

	writeJSON(w, http.StatusCreated, model.Chore{ID: id, Name: req.Name, Interval: iv})
}

func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	chores, err := h.choreStore.List()
	if err != nil {
		h.logger.Error("list chores", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list chores")
		return
	}
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

type dueChore struct {
	model.ChoreWithLastCompletion
	Urgency schedule.Urgency `json:"urgency"`
}

// Due lists every chore with its last completion, most urgent first, each
// tagged with its urgency bucket.
func (h *ChoreHandler) Due(w http.ResponseWriter, r *http.Request) {
	chores, err := h.choreStore.ListWithLastCompletion()
	if err != nil {
		h.logger.Error("list chores with last completion", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list chores")
		return
	}

	now := time.Now()
	schedule.Sort(now, chores)

	due := make([]dueChore, 0, len(chores))
	for _, c := range chores {
		due = append(due, dueChore{ChoreWithLastCompletion: c, Urgency: schedule.Classify(now, c)})
	}
	writeJSON(w, http.StatusOK, due)
}

func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.choreStore.GetByID(id)
	if err != nil {
		h.logger.Error("get chore", "chore_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get chore")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}

	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if errs := validation.Check(validation.ChoreInput{Name: req.Name, Interval: req.Interval}); errs != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": errs})
		return
	}

	iv, err := interval.Parse(req.Interval)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": validation.FieldErrors{"interval": "invalid"}})
		return
	}

	chore := model.Chore{ID: id, Name: req.Name, Interval: iv}
	if err := h.choreStore.Update(chore); err != nil {
		h.logger.Error("update chore", "chore_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update chore")
		return
	}

	h.broadcast(websocket.NewMessage("chore", "updated", id, nil))

	writeJSON(w, http.StatusOK, chore)
}

// Delete removes the chore only; its completion history is kept.
func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.choreStore.Delete(id); err != nil {
		h.logger.Error("delete chore", "chore_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete chore")
		return
	}

	h.broadcast(websocket.NewMessage("chore", "deleted", id, nil))

	w.WriteHeader(http.StatusNoContent)
}

type completeRequest struct {
	// Timestamp backdates the completion; absent means now.
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

func (h *ChoreHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	chore, err := h.choreStore.GetByID(id)
	if err != nil {
		h.logger.Error("get chore", "chore_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get chore")
		return
	}
	if chore == nil {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}

	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	timestamp := time.Now()
	if req.Timestamp != nil {
		timestamp = *req.Timestamp
	}

	if err := h.eventStore.Record(id, timestamp); err != nil {
		h.logger.Error("record completion", "chore_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record completion")
		return
	}

	h.broadcast(websocket.NewMessage("event", "recorded", id, nil))

	writeJSON(w, http.StatusCreated, model.Event{ChoreID: id, Timestamp: timestamp})
}

// Stats reports completion-timeliness statistics for one chore. A chore with
// no completions yields all-zero stats; a missing chore 404s.
func (h *ChoreHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	s, err := stats.ForChore(h.choreStore, h.eventStore, id)
	if err != nil {
		h.logger.Error("chore stats", "chore_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	if s == nil {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}
	writeJSON(w, http.StatusOK, s)
}
