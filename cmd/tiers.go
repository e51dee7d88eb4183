package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/xpquest/internal/tiers"
)

var tiersCmd = &cobra.Command{
	Use:   "tiers [xp]",
	Short: "Show the tier table, or the tiers held at an XP amount",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			printThresholds(cmd.OutOrStdout())
			return nil
		}
		xp, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid xp %q: %w", args[0], err)
		}
		if xp < 0 {
			return fmt.Errorf("invalid xp %d: must not be negative", xp)
		}
		printTiers(cmd.OutOrStdout(), xp)
		return nil
	},
}

func printThresholds(w io.Writer) {
	fmt.Fprintf(w, "%6s  %s\n", "Min XP", "Tiers")
	fmt.Fprintln(w, strings.Repeat("─", 40))
	for _, th := range tiers.Thresholds() {
		fmt.Fprintf(w, "%6d  %s\n", th.MinXP, tierNames(th.Tiers))
	}
}

func printTiers(w io.Writer, xp int) {
	set := tiers.Evaluate(xp)
	if len(set) == 0 {
		fmt.Fprintf(w, "%d XP: no tier\n", xp)
	} else {
		fmt.Fprintf(w, "%d XP: %s\n", xp, tierNames(set))
	}
	if next, ok := tiers.Next(xp); ok {
		fmt.Fprintf(w, "%d XP to the next tier\n", next-xp)
	}
}

func tierNames(set tiers.Set) string {
	names := make([]string, len(set))
	for i, t := range set {
		names[i] = t.DisplayName()
	}
	return strings.Join(names, ", ")
}
