package care

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mesh-intelligence/plantcare/pkg/types"
)

// EventKind distinguishes timeline entries.
type EventKind string

const (
	EventMoment EventKind = "moment"
	EventGoal   EventKind = "goal"
)

// Event is one entry of the plant timeline. Exactly one of Moment and Goal
// is set, matching Kind.
type Event struct {
	Kind      EventKind     `json:"kind"`
	PlantID   string        `json:"plant_id"`
	PlantName string        `json:"plant_name"`
	Date      time.Time     `json:"date"`
	Moment    *types.Moment `json:"moment,omitempty"`
	Goal      *types.Goal   `json:"goal,omitempty"`
}

// TimelineSource reads the records the timeline is built from.
type TimelineSource interface {
	GetMoments(ctx context.Context, plantID string) ([]types.Moment, error)
	GetGoals(ctx context.Context, plantID string) ([]types.Goal, error)
}

// Timeline merges the moments and goals of every plant into one list, most
// recent first. A goal without a target date is placed at now. Entries whose
// date cannot be parsed sort last.
//
// Read failures do not stop the merge: the plant's records are skipped and
// the failures are returned joined, next to the partial timeline.
func Timeline(ctx context.Context, src TimelineSource, plants []types.Plant, now time.Time) ([]Event, error) {
	events := []Event{}
	var errs []error

	for _, p := range plants {
		moments, err := src.GetMoments(ctx, p.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("moments of %s: %w", p.ID, err))
		}
		for _, m := range moments {
			events = append(events, Event{
				Kind:      EventMoment,
				PlantID:   p.ID,
				PlantName: p.Name,
				Date:      parseOrZero(m.Date),
				Moment:    &m,
			})
		}

		goals, err := src.GetGoals(ctx, p.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("goals of %s: %w", p.ID, err))
		}
		for _, g := range goals {
			date := now
			if g.TargetDate != "" {
				date = parseOrZero(g.TargetDate)
			}
			events = append(events, Event{
				Kind:      EventGoal,
				PlantID:   p.ID,
				PlantName: p.Name,
				Date:      date,
				Goal:      &g,
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.After(events[j].Date)
	})
	return events, errors.Join(errs...)
}

// parseOrZero returns the zero time for an unparseable date, which sorts it
// after every real date.
func parseOrZero(s string) time.Time {
	t, err := types.ParseTimestamp(s)
	if err != nil {
		return time.Time{}
	}
	return t
}
