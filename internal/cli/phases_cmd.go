package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/brewfocus/internal/cli/formatter"
	"github.com/alexanderramin/brewfocus/internal/domain"
)

func newPhasesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "phases",
		Short: "List the phases and their durations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := domain.NewCatalog(app.Config.CustomSeconds)
			p := formatter.PaletteFor(app.Config.Roast)

			rows := make([][]string, 0, len(domain.Phases))
			for i, pc := range catalog.All() {
				kind := "focus"
				if pc.Phase.IsBreak() {
					kind = "break"
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					string(pc.Phase),
					pc.Label,
					formatter.FormatClock(pc.Seconds),
					kind,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.RenderTable(p.Title, []string{"KEY", "PHASE", "LABEL", "DURATION", "KIND"}, rows))
			fmt.Fprintf(out, "\nEvery %dth focus brew is followed by a %s.\n",
				domain.CycleLength, domain.PhaseLongBreak.Label())
			return nil
		},
	}
}
