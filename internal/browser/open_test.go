package browser

import (
	"runtime"
	"testing"
)

func TestOpenSupported(t *testing.T) {
	// Just verify the platform is one we know how to handle. Actually
	// launching a browser is not something a unit test can do.
	switch runtime.GOOS {
	case "darwin", "linux", "windows":
	default:
		t.Skipf("Unsupported platform: %s", runtime.GOOS)
	}
}
