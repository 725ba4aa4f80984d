package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/introspin/introspin/internal/orchestrator"
)

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause playback",
	RunE:  runPause,
}

func init() {
	rootCmd.AddCommand(pauseCmd)
}

// noopTimer satisfies the orchestrator's countdown contract for
// commands that never start one.
type noopTimer struct{}

func (noopTimer) Start(seconds int) {}
func (noopTimer) Stop()             {}

func runPause(cmd *cobra.Command, args []string) error {
	c, err := newSpotifyClient()
	if err != nil {
		printError(err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adapter := connectLocalPlayer(ctx)
	defer adapter.Close()

	orch := orchestrator.New(c, adapter, printSink{}, noopTimer{}, logger)
	if err := orch.HandlePauseRequest(ctx); err != nil {
		printError(err)
		return err
	}
	return nil
}
