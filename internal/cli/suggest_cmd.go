package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/brewfocus/internal/barista"
	"github.com/alexanderramin/brewfocus/internal/cli/formatter"
)

func newSuggestCmd(app *App) *cobra.Command {
	var isBreak bool

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask the barista for a focus quote or break idea",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, cancel := context.WithTimeout(ctx, suggestTimeout)
			defer cancel()

			var s barista.Suggester = app.Barista
			if s == nil {
				s = barista.SuggesterFunc(func(context.Context, bool) string { return barista.DisabledMessage })
			}

			stopSpinner := func() {}
			if app.IsInteractive != nil && app.IsInteractive() {
				stopSpinner = formatter.StartSpinner(cmd.ErrOrStderr(), "Brewing a suggestion...")
			}
			text := s.Suggest(ctx, isBreak)
			stopSpinner()

			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&isBreak, "break", false, "ask for a break idea instead of a focus quote")
	return cmd
}
