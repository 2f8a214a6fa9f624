package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/plantcare/pkg/sqlite"
	"github.com/mesh-intelligence/plantcare/pkg/types"
)

func newWaterCmd(a *app) *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   "water <plant-id>",
		Short: "Record a watering now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.requirePlant(cmd, args[0])
			if err != nil {
				return err
			}
			rec, err := a.store.AddWateringRecord(ctx(cmd), p.ID, notes)
			if err != nil {
				return sysError(err)
			}
			if a.jsonOut {
				return a.printJSON(cmd, rec)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Watered %s at %s\n", p.Name, rec.WateredDate)
			return nil
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "notes for this watering")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history <plant-id>",
		Short: "Show a plant's watering history, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := a.store.GetWateringHistory(ctx(cmd), args[0])
			warnDegraded(cmd, err)
			if a.jsonOut {
				return a.printJSON(cmd, recs)
			}
			if len(recs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No waterings recorded.")
				return nil
			}
			rows := make([][]string, len(recs))
			for i, r := range recs {
				rows[i] = []string{r.WateredDate, truncate(r.Notes, 50)}
			}
			printTable(cmd.OutOrStdout(), []string{"WATERED", "NOTES"}, rows)
			return nil
		},
	}
}

func newMomentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moment",
		Short: "Manage photo moments",
	}

	var image, caption string
	add := &cobra.Command{
		Use:   "add <plant-id>",
		Short: "Record a photo moment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requirePlant(cmd, args[0]); err != nil {
				return err
			}
			m, err := a.store.AddMoment(ctx(cmd), args[0], image, caption)
			if err != nil {
				return sysError(err)
			}
			if a.jsonOut {
				return a.printJSON(cmd, m)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added moment: %s\n", m.ID)
			return nil
		},
	}
	add.Flags().StringVar(&image, "image", "", "photo file URI (required)")
	add.Flags().StringVar(&caption, "caption", "", "caption")
	_ = add.MarkFlagRequired("image")

	list := &cobra.Command{
		Use:   "list <plant-id>",
		Short: "List a plant's moments, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			moments, err := a.store.GetMoments(ctx(cmd), args[0])
			warnDegraded(cmd, err)
			if a.jsonOut {
				return a.printJSON(cmd, moments)
			}
			if len(moments) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No moments found.")
				return nil
			}
			rows := make([][]string, len(moments))
			for i, m := range moments {
				rows[i] = []string{m.ID, day(m.Date), truncate(m.Caption, 40), m.Image}
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "DATE", "CAPTION", "IMAGE"}, rows)
			return nil
		},
	}

	cmd.AddCommand(add, list, newDeleteCmd(a, "moment", sqlite.Backend.DeleteMoment))
	return cmd
}

func newGoalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage care goals",
	}

	var title, description, target string
	add := &cobra.Command{
		Use:     "add <plant-id>",
		Short:   "Set a goal for a plant",
		Example: `  plantcare goal add 0190... --title Repot --target 2024-09-01`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if target != "" {
				if _, err := types.ParseTimestamp(target); err != nil {
					return userError(fmt.Errorf("invalid --target %q: %w", target, err))
				}
			}
			if _, err := a.requirePlant(cmd, args[0]); err != nil {
				return err
			}
			g, err := a.store.AddGoal(ctx(cmd), args[0], title, description, target)
			if err != nil {
				return sysError(err)
			}
			if a.jsonOut {
				return a.printJSON(cmd, g)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added goal: %s\n", g.ID)
			return nil
		},
	}
	add.Flags().StringVar(&title, "title", "", "goal title (required)")
	add.Flags().StringVar(&description, "description", "", "details")
	add.Flags().StringVar(&target, "target", "", "target date, ISO-8601")
	_ = add.MarkFlagRequired("title")

	list := &cobra.Command{
		Use:   "list <plant-id>",
		Short: "List a plant's goals by target date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goals, err := a.store.GetGoals(ctx(cmd), args[0])
			warnDegraded(cmd, err)
			if a.jsonOut {
				return a.printJSON(cmd, goals)
			}
			if len(goals) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No goals found.")
				return nil
			}
			rows := make([][]string, len(goals))
			for i, g := range goals {
				done := " "
				if g.Completed {
					done = "x"
				}
				rows[i] = []string{g.ID, "[" + done + "]", truncate(g.Title, 40), day(g.TargetDate)}
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "DONE", "TITLE", "TARGET"}, rows)
			return nil
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <goal-id>",
		Short: "Mark a goal done, or open again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.store.GetGoal(ctx(cmd), args[0])
			if err != nil {
				return sysError(err)
			}
			if g == nil {
				return userError(fmt.Errorf("goal %s not found", args[0]))
			}
			if err := a.store.ToggleGoal(ctx(cmd), g.ID); err != nil {
				return sysError(err)
			}
			g.Completed = !g.Completed
			if a.jsonOut {
				return a.printJSON(cmd, g)
			}
			state := "open"
			if g.Completed {
				state = "done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Goal %s is %s\n", g.ID, state)
			return nil
		},
	}

	cmd.AddCommand(add, list, toggle, newDeleteCmd(a, "goal", sqlite.Backend.DeleteGoal))
	return cmd
}

func newNoteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage plant notes",
	}

	add := &cobra.Command{
		Use:   "add <plant-id> <text>...",
		Short: "Attach a note to a plant",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requirePlant(cmd, args[0]); err != nil {
				return err
			}
			n, err := a.store.AddPlantNote(ctx(cmd), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return sysError(err)
			}
			if a.jsonOut {
				return a.printJSON(cmd, n)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added note: %s\n", n.ID)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list <plant-id>",
		Short: "List a plant's notes, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, err := a.store.GetPlantNotes(ctx(cmd), args[0])
			warnDegraded(cmd, err)
			if a.jsonOut {
				return a.printJSON(cmd, notes)
			}
			if len(notes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No notes found.")
				return nil
			}
			rows := make([][]string, len(notes))
			for i, n := range notes {
				rows[i] = []string{n.ID, day(n.Date), truncate(n.Note, 60)}
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "DATE", "NOTE"}, rows)
			return nil
		},
	}

	cmd.AddCommand(add, list, newDeleteCmd(a, "note", sqlite.Backend.DeletePlantNote))
	return cmd
}

// newDeleteCmd builds "<kind> delete <id>" for a dependent record. del is a
// method expression; the store is opened only when the command runs.
func newDeleteCmd(a *app, kind string, del func(sqlite.Backend, context.Context, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <" + kind + "-id>",
		Short: "Delete a " + kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := del(a.store, ctx(cmd), args[0]); err != nil {
				return sysError(err)
			}
			if a.jsonOut {
				return a.printJSON(cmd, map[string]string{"deleted": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s: %s\n", kind, args[0])
			return nil
		},
	}
}
