// Package stats computes completion-timeliness statistics from a chore's
// event history.
package stats

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/hamaluik/chordle/internal/model"
)

// overdueThreshold is the delta, in days, at or beyond which a completion
// counts as overdue.
const overdueThreshold = 1.0

// ChoreGetter is the slice of ChoreStore that stats needs.
type ChoreGetter interface {
	GetByID(id int64) (*model.Chore, error)
}

// EventLister is the slice of EventStore that stats needs. Events must come
// back sorted by timestamp ascending.
type EventLister interface {
	ListByChore(choreID int64) ([]model.Event, error)
}

// CompletionDeltaDays returns, for each completion after the first, how many
// days early (negative) or late (positive) it was relative to the previous
// completion plus the chore's interval. Events must be sorted by timestamp
// ascending. A delta whose calendar arithmetic leaves the representable
// range is skipped with a warning rather than failing the whole computation.
func CompletionDeltaDays(chore model.Chore, events []model.Event) []float64 {
	deltas := make([]float64, 0, max(len(events)-1, 0))
	if len(events) == 0 {
		return deltas
	}

	previous := events[0].Timestamp
	for _, event := range events[1:] {
		expected := chore.Interval.AddTo(previous)
		if !representable(expected) {
			slog.Warn("skipping completion delta: expected due date not representable",
				"chore_id", chore.ID, "timestamp", event.Timestamp)
			previous = event.Timestamp
			continue
		}
		delta := event.Timestamp.Sub(expected)
		deltas = append(deltas, delta.Hours()/24)
		previous = event.Timestamp
	}
	return deltas
}

// Compute derives ChoreStats from a chore's full event history, sorted by
// timestamp ascending.
//
// The mean, median and variance cover only the overdue deltas; they are 0
// (not NaN) when no completion was overdue. NumCompleted counts every event,
// including the first, which has no delta and is treated as on time.
func Compute(chore model.Chore, events []model.Event) model.ChoreStats {
	deltas := CompletionDeltaDays(chore, events)

	var overdue []float64
	for _, d := range deltas {
		if d >= overdueThreshold {
			overdue = append(overdue, d)
		}
	}

	m := mean(overdue)
	return model.ChoreStats{
		NumCompleted:              len(events),
		NumOverdue:                len(overdue),
		NumCompletedOnTimeOrEarly: len(events) - len(overdue),
		MeanOverdueDays:           m,
		MedianOverdueDays:         median(overdue),
		VarianceOverdueDays:       variance(m, overdue),
	}
}

// ForChore loads a chore and its history and computes its stats. It returns
// nil when the chore does not exist; a chore that exists but has no events
// yields all-zero stats.
func ForChore(chores ChoreGetter, events EventLister, choreID int64) (*model.ChoreStats, error) {
	chore, err := chores.GetByID(choreID)
	if err != nil {
		return nil, fmt.Errorf("get chore %d: %w", choreID, err)
	}
	if chore == nil {
		return nil, nil
	}

	history, err := events.ListByChore(choreID)
	if err != nil {
		return nil, fmt.Errorf("list events for chore %d: %w", choreID, err)
	}

	s := Compute(*chore, history)
	return &s, nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// variance is the population variance: mean squared deviation, divisor n.
func variance(mean float64, values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumSquaredDiff float64
	for _, v := range values {
		diff := v - mean
		sumSquaredDiff += diff * diff
	}
	return sumSquaredDiff / float64(len(values))
}

// representable guards against calendar arithmetic running off the end of
// the usable time range.
func representable(t time.Time) bool {
	y := t.Year()
	return y >= 1 && y <= 9999
}
