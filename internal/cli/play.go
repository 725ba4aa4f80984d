package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/introspin/introspin/internal/countdown"
	"github.com/introspin/introspin/internal/orchestrator"
)

var playNoWait bool

var playCmd = &cobra.Command{
	Use:   "play [track-uri]",
	Short: "Start playback and run the guessing countdown",
	Long: `Runs one play press: picks a target device, activates local audio if
this is the first local play, starts playback, and counts down the
guessing time. With a track URI, plays that track; without one,
resumes the current context.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&playNoWait, "no-wait", false, "exit immediately instead of showing the countdown")
	rootCmd.AddCommand(playCmd)
}

// printSink writes orchestrator UI updates to the terminal.
type printSink struct{}

func (printSink) SetStatus(msg string) {
	fmt.Println(msg)
}

func (printSink) SetPauseEnabled(enabled bool) {}

func runPlay(cmd *cobra.Command, args []string) error {
	c, err := newSpotifyClient()
	if err != nil {
		printError(err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	adapter := connectLocalPlayer(ctx)
	defer adapter.Close()

	// Give the daemon a moment to announce its device ID, so a
	// first press right after startup can still target local.
	waitForReady(adapter, 2*time.Second)

	ticks := make(chan int, 64)
	timer := countdown.New(clockwork.NewRealClock(), func(rem int) { ticks <- rem })

	orch := orchestrator.New(c, adapter, printSink{}, timer, logger,
		orchestrator.WithCountdownSeconds(cfg.Quiz.CountdownSeconds))

	var uris []string
	if len(args) == 1 {
		uris = []string{args[0]}
	}

	if err := orch.HandlePlayRequest(ctx, uris); err != nil {
		printError(err)
		return err
	}

	if playNoWait || !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil
	}

	// Render the countdown in place until it hits zero.
	fmt.Printf("\r%s remaining", FormatDuration(cfg.Quiz.CountdownSeconds))
	for rem := range ticks {
		fmt.Printf("\r%s remaining", FormatDuration(rem))
		if rem == 0 {
			break
		}
	}
	fmt.Println("\nTime's up!")
	return nil
}

// waitForReady polls the adapter until it reports a device ID or the
// timeout passes.
func waitForReady(adapter interface{ DeviceID() string }, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if adapter.DeviceID() != "" {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
}
