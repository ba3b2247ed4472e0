// Package schedule classifies and orders chores for display. Everything here
// is a pure function of its inputs; callers pass the reference "now".
package schedule

import (
	"math"
	"sort"
	"time"

	"github.com/hamaluik/chordle/internal/model"
)

// Urgency is the display bucket for a chore relative to now.
type Urgency string

const (
	// UrgencyDone means the chore was completed today.
	UrgencyDone Urgency = "done"
	// UrgencyDue means the chore is overdue or due within a day.
	UrgencyDue Urgency = "due"
	// UrgencyDueSoon means the chore is due within three days.
	UrgencyDueSoon Urgency = "due_soon"
	// UrgencyDueLater means everything else.
	UrgencyDueLater Urgency = "due_later"
)

// TimeUntilNext returns how long until the chore is next due. A chore that
// has never been completed is due immediately (zero). The result is negative
// when the chore is overdue.
func TimeUntilNext(now time.Time, chore model.ChoreWithLastCompletion) time.Duration {
	if chore.LastCompletion == nil {
		return 0
	}
	nextDue := chore.Interval.AddTo(*chore.LastCompletion)
	return nextDue.Sub(now)
}

// Classify buckets a chore by urgency.
//
// A completion on the same calendar date as now always wins and yields done.
// Otherwise the chore is due when its due date has passed or lies within one
// 24-hour day, and due soon within three; intervals shorter than a day
// disable that day-based softening, since for them "due within a day" would
// cover the whole cycle.
func Classify(now time.Time, chore model.ChoreWithLastCompletion) Urgency {
	if chore.LastCompletion != nil && sameDate(now, chore.LastCompletion.In(now.Location())) {
		return UrgencyDone
	}

	isDaily := chore.Interval.Days() < 1.0

	var nextDue time.Time
	if chore.LastCompletion == nil {
		nextDue = now
	} else {
		nextDue = chore.Interval.AddTo(*chore.LastCompletion)
	}

	dueDays := math.Ceil(nextDue.Sub(now).Hours() / 24)

	if nextDue.Before(now) || (dueDays <= 1 && !isDaily) {
		return UrgencyDue
	}
	if dueDays <= 3 && !isDaily {
		return UrgencyDueSoon
	}
	return UrgencyDueLater
}

// Sort orders chores by urgency, most urgent (most overdue) first. The sort
// is stable, so chores tied on due time keep their incoming order.
func Sort(now time.Time, chores []model.ChoreWithLastCompletion) {
	sort.SliceStable(chores, func(i, j int) bool {
		return TimeUntilNext(now, chores[i]).Seconds() < TimeUntilNext(now, chores[j]).Seconds()
	})
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
