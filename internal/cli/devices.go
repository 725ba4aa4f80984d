package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/introspin/introspin/internal/core"
	"github.com/introspin/introspin/internal/orchestrator"
	"github.com/introspin/introspin/internal/tui/styles"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available playback devices",
	Long: `Lists the Spotify Connect devices visible to your account right now,
including the local player daemon if it is connected.`,
	RunE: runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	c, err := newSpotifyClient()
	if err != nil {
		printError(err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adapter := connectLocalPlayer(ctx)
	defer adapter.Close()

	devices, err := c.GetDevices(ctx)
	if err != nil {
		printError(err)
		return err
	}

	localID := adapter.DeviceID()

	snap := orchestrator.SnapshotDevices(devices)
	for i := range snap {
		if snap[i].ID == localID && localID != "" {
			snap[i].Type = core.DeviceTypeLocal
		}
	}

	if JSONOutput() {
		type deviceOut struct {
			core.Device
			IsLocal bool `json:"is_local"`
		}
		out := make([]deviceOut, len(snap))
		for i, d := range snap {
			out[i] = deviceOut{Device: d, IsLocal: d.Type == core.DeviceTypeLocal}
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	if len(snap) == 0 {
		fmt.Println("No devices found. Open Spotify somewhere, or start the local player daemon.")
		return nil
	}

	table := NewTable("", "NAME", "TYPE", "ID")
	for _, d := range snap {
		name := TruncateString(d.Name, 32)
		if d.Type == core.DeviceTypeLocal {
			name += " (this machine)"
		}
		table.Row(StatusIcon(d.IsActive), styles.DeviceIcon(d.Type)+" "+name, string(d.Type), d.ID)
	}
	table.Flush()
	return nil
}
