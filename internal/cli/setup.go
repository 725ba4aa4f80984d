package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	apperrors "github.com/introspin/introspin/internal/errors"
	"github.com/introspin/introspin/internal/localplayer"
	"github.com/introspin/introspin/internal/spotify/auth"
	"github.com/introspin/introspin/internal/spotify/client"
)

// newSpotifyClient builds an authenticated API client from the stored
// token.
func newSpotifyClient() (*client.Client, error) {
	storage, err := auth.NewTokenStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token storage: %w", err)
	}

	c := client.New(cfg.Spotify.ClientID, storage)
	if Verbose() {
		c.SetVerbose(true, func(format string, args ...interface{}) {
			logger.Debug().Msg(fmt.Sprintf(format, args...))
		})
	}

	if err := c.LoadToken(); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.WithSuggestion(apperrors.ErrNotAuthenticated,
				"Run 'introspin auth login' to authenticate with Spotify")
		}
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	return c, nil
}

// connectLocalPlayer dials the local player daemon. A daemon that is
// not running is not fatal; playback then needs an active remote
// device, and the returned adapter simply never reports ready.
func connectLocalPlayer(ctx context.Context) *localplayer.Adapter {
	adapter := localplayer.NewAdapter(localplayer.NewWSTransport(cfg.Player.URL), logger)

	dialCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := adapter.Connect(dialCtx); err != nil {
		logger.Warn().Err(err).Str("url", cfg.Player.URL).
			Msg("local player daemon unreachable, remote devices only")
	}
	return adapter
}

// printError writes an error with its suggestion, if any.
func printError(err error) {
	fmt.Fprintln(os.Stderr, apperrors.Format(err))
}
