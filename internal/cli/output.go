package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/plantcare/pkg/types"
)

// printJSON writes v as indented JSON to the command's output.
func (a *app) printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshaling output: %w", err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// warnDegraded reports a degraded read on stderr. The command still prints
// whatever it got.
func warnDegraded(cmd *cobra.Command, err error) {
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
	}
}

// printTable writes rows as aligned columns with trailing blanks trimmed.
func printTable(w io.Writer, header []string, rows [][]string) {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()

	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// day renders a stored ISO-8601 date as YYYY-MM-DD, or "-" when empty.
func day(s string) string {
	if s == "" {
		return "-"
	}
	t, err := types.ParseTimestamp(s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02")
}

func dayPtr(s *string) string {
	if s == nil {
		return "never"
	}
	return day(*s)
}

func printPlants(w io.Writer, plants []types.Plant) {
	if len(plants) == 0 {
		fmt.Fprintln(w, "No plants found.")
		return
	}
	rows := make([][]string, len(plants))
	for i, p := range plants {
		rows[i] = []string{
			p.ID,
			truncate(p.Name, 30),
			truncate(p.Species, 30),
			fmt.Sprintf("%dd", p.WateringFrequency),
			dayPtr(p.LastWateredDate),
		}
	}
	printTable(w, []string{"ID", "NAME", "SPECIES", "EVERY", "LAST WATERED"}, rows)
}

func printPlant(w io.Writer, p types.Plant) {
	fmt.Fprintf(w, "ID:            %s\n", p.ID)
	fmt.Fprintf(w, "Name:          %s\n", p.Name)
	fmt.Fprintf(w, "Species:       %s\n", p.Species)
	fmt.Fprintf(w, "Added:         %s\n", day(p.AddedDate))
	fmt.Fprintf(w, "Water every:   %d day(s)\n", p.WateringFrequency)
	fmt.Fprintf(w, "Last watered:  %s\n", dayPtr(p.LastWateredDate))
	if p.ImageThumb != nil {
		fmt.Fprintf(w, "Photo:         %s\n", *p.ImageThumb)
	}
	if p.Notes != "" {
		fmt.Fprintf(w, "Notes:         %s\n", p.Notes)
	}
}
