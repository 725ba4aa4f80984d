package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/introspin/introspin/internal/core"
	"github.com/introspin/introspin/internal/countdown"
	"github.com/introspin/introspin/internal/orchestrator"
	"github.com/introspin/introspin/internal/spotify/client"
	"github.com/introspin/introspin/internal/tui"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <track-uri>...",
	Short: "Run an interactive quiz round",
	Long: `Opens the quiz screen for the given tracks. Space plays the current
track and starts the countdown, r reveals the answer, n moves to the
next track.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuiz,
}

func init() {
	rootCmd.AddCommand(quizCmd)
}

func runQuiz(cmd *cobra.Command, args []string) error {
	c, err := newSpotifyClient()
	if err != nil {
		printError(err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	tracks, err := fetchQuizTracks(ctx, c, args)
	if err != nil {
		printError(err)
		return err
	}

	adapter := connectLocalPlayer(context.Background())
	defer adapter.Close()
	waitForReady(adapter, 2*time.Second)

	bridge := tui.NewBridge()
	timer := countdown.New(clockwork.NewRealClock(), bridge.Tick)
	orch := orchestrator.New(c, adapter, bridge, timer, logger,
		orchestrator.WithCountdownSeconds(cfg.Quiz.CountdownSeconds))

	app := tui.NewApp(orch, bridge, tracks)
	return tui.Run(app)
}

// fetchQuizTracks resolves track URIs into quiz tracks with answers.
func fetchQuizTracks(ctx context.Context, c *client.Client, uris []string) ([]core.Track, error) {
	ids := make([]string, 0, len(uris))
	for _, uri := range uris {
		id := strings.TrimPrefix(uri, "spotify:track:")
		if id == uri {
			return nil, fmt.Errorf("not a track URI: %s", uri)
		}
		ids = append(ids, id)
	}

	fetched, err := c.GetTracks(ctx, ids)
	if err != nil {
		return nil, err
	}

	tracks := make([]core.Track, 0, len(fetched))
	for _, t := range fetched {
		tracks = append(tracks, trackFromAPI(t))
	}
	return tracks, nil
}

func trackFromAPI(t client.Track) core.Track {
	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}
	artist := ""
	if len(artists) > 0 {
		artist = artists[0]
	}
	return core.Track{
		ID:       t.ID,
		URI:      t.URI,
		Title:    t.Name,
		Artist:   artist,
		Artists:  artists,
		Album:    t.Album.Name,
		Duration: time.Duration(t.DurationMs) * time.Millisecond,
	}
}
