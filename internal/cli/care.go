package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/plantcare/internal/care"
	"github.com/mesh-intelligence/plantcare/pkg/types"
)

// dueEntry is the JSON form of one plant in the due list.
type dueEntry struct {
	types.Plant
	DaysSinceWatered *int `json:"days_since_watered"`
}

func newDueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "List plants that need watering today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plants, err := a.loadPlants(cmd)
			if err != nil {
				return err
			}
			now := a.now()
			due := care.DuePlants(plants, now)

			entries := make([]dueEntry, len(due))
			for i, p := range due {
				entries[i].Plant = p
				if d, ok := care.DaysSinceWatered(p, now); ok {
					entries[i].DaysSinceWatered = &d
				}
			}
			if a.jsonOut {
				return a.printJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			week := care.WeekStrip(now)
			fmt.Fprintf(out, "Week of %s: %d of %d plant(s) need watering\n",
				week[0].Format("Jan 2"), len(due), len(plants))
			if len(entries) == 0 {
				return nil
			}
			rows := make([][]string, len(entries))
			for i, e := range entries {
				since := "never"
				if e.DaysSinceWatered != nil {
					since = strconv.Itoa(*e.DaysSinceWatered) + "d ago"
				}
				rows[i] = []string{e.ID, truncate(e.Name, 30), since, fmt.Sprintf("%dd", e.WateringFrequency)}
			}
			printTable(out, []string{"ID", "NAME", "WATERED", "EVERY"}, rows)
			return nil
		},
	}
}

func newTimelineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline",
		Short: "Show moments and goals of all plants, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plants, err := a.loadPlants(cmd)
			if err != nil {
				return err
			}
			events, err := care.Timeline(ctx(cmd), a.store, plants, a.now())
			warnDegraded(cmd, err)
			if a.jsonOut {
				return a.printJSON(cmd, events)
			}
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing on the timeline yet.")
				return nil
			}

			rows := make([][]string, len(events))
			for i, e := range events {
				date := "-"
				if !e.Date.IsZero() {
					date = e.Date.Format("2006-01-02")
				}
				var what string
				switch e.Kind {
				case care.EventMoment:
					what = "photo: " + e.Moment.Caption
				case care.EventGoal:
					mark := "goal"
					if e.Goal.Completed {
						mark = "goal (done)"
					}
					what = mark + ": " + e.Goal.Title
				}
				rows[i] = []string{date, truncate(e.PlantName, 20), truncate(what, 50)}
			}
			printTable(cmd.OutOrStdout(), []string{"DATE", "PLANT", "EVENT"}, rows)
			return nil
		},
	}
}
