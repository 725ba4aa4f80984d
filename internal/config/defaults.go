package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Spotify: SpotifyConfig{
			RedirectURI: "http://127.0.0.1:8888/callback",
		},
		Player: PlayerConfig{
			URL:  "ws://127.0.0.1:24879/events",
			Name: "introspin",
		},
		Quiz: QuizConfig{
			CountdownSeconds: 30,
		},
		TUI: TUIConfig{
			Theme: "auto",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Spotify
	if c.Spotify.RedirectURI == "" {
		c.Spotify.RedirectURI = d.Spotify.RedirectURI
	}

	// Player
	if c.Player.URL == "" {
		c.Player.URL = d.Player.URL
	}
	if c.Player.Name == "" {
		c.Player.Name = d.Player.Name
	}

	// Quiz
	if c.Quiz.CountdownSeconds == 0 {
		c.Quiz.CountdownSeconds = d.Quiz.CountdownSeconds
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
