package model

import (
	"time"

	"github.com/hamaluik/chordle/internal/interval"
)

// Chore is a named recurring task with a target completion interval.
type Chore struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Interval interval.Interval `json:"interval"`
}

// Event records that a chore was completed at a point in time. Events may
// outlive their chore: deleting a chore keeps its history.
type Event struct {
	ChoreID   int64     `json:"chore_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ChoreWithLastCompletion is a chore joined with its most recent completion,
// or nil if it has never been completed.
type ChoreWithLastCompletion struct {
	Chore
	LastCompletion *time.Time `json:"last_completion"`
}

// ChoreStats summarizes how timely a chore's completions have been. The
// mean/median/variance figures cover only the overdue completions (delta of
// at least one day) and are 0 when there are none.
type ChoreStats struct {
	NumCompleted              int     `json:"num_completed"`
	NumOverdue                int     `json:"num_overdue"`
	NumCompletedOnTimeOrEarly int     `json:"num_completed_on_time_or_early"`
	MeanOverdueDays           float64 `json:"mean_overdue_days"`
	MedianOverdueDays         float64 `json:"median_overdue_days"`
	VarianceOverdueDays       float64 `json:"variance_overdue_days"`
}
