package config

// Config is the root configuration structure.
type Config struct {
	Spotify SpotifyConfig `toml:"spotify"`
	Player  PlayerConfig  `toml:"player"`
	Quiz    QuizConfig    `toml:"quiz"`
	TUI     TUIConfig     `toml:"tui"`
	Log     LogConfig     `toml:"log"`
}

// SpotifyConfig holds Spotify API settings.
type SpotifyConfig struct {
	ClientID    string `toml:"client_id"`
	RedirectURI string `toml:"redirect_uri"`
}

// PlayerConfig holds local player daemon settings.
type PlayerConfig struct {
	// URL is the WebSocket endpoint of the local player daemon.
	URL string `toml:"url"`
	// Name is the device name the daemon registers under.
	Name string `toml:"name"`
}

// QuizConfig holds quiz round settings.
type QuizConfig struct {
	// CountdownSeconds is the round length; the countdown starts from this
	// value on every successful play.
	CountdownSeconds int `toml:"countdown_seconds"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
