package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/xpquest/internal/app"
	"github.com/abhisek/xpquest/internal/screen"
	"github.com/abhisek/xpquest/internal/screens/home"
	quizscreen "github.com/abhisek/xpquest/internal/screens/quiz"
	simscreen "github.com/abhisek/xpquest/internal/screens/simulation"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a quiz",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, nil)
		if err != nil {
			return err
		}
		defer e.Close()
		return app.Run(quizscreen.New(e.newSession()))
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [scenario-id]",
	Short: "Run a decision scenario",
	Long:  "Run a decision scenario. Without an id a picker lists every scenario in the catalog.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, nil)
		if err != nil {
			return err
		}
		defer e.Close()

		var id string
		if len(args) == 1 {
			id = args[0]
		}
		return app.Run(simscreen.New(e.newEngine(), id))
	},
}

// runHome launches the TUI on the home menu.
func runHome(cmd *cobra.Command) error {
	e, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer e.Close()
	return app.Run(homeScreen(e))
}

func homeScreen(e *env) *home.HomeScreen {
	return home.New(
		func() screen.Screen { return quizscreen.New(e.newSession()) },
		func() screen.Screen { return simscreen.New(e.newEngine(), "") },
		e.desc,
	)
}
