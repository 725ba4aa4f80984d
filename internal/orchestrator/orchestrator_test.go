package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/introspin/introspin/internal/core"
	apperrors "github.com/introspin/introspin/internal/errors"
	"github.com/introspin/introspin/internal/localplayer"
	"github.com/introspin/introspin/internal/spotify/client"
)

// fakeSpotify records the order of API calls and plays back scripted
// responses.
type fakeSpotify struct {
	mu    sync.Mutex
	calls []string

	devices    []client.Device
	devicesErr error
	state      *client.PlaybackState
	stateErr   error
	playErr    error
	pauseErr   error

	// playHook, when set, runs inside Play before it returns. Lets a
	// test hold one press's play call open while another press runs.
	playHook func(deviceID string)
}

func (f *fakeSpotify) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeSpotify) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeSpotify) GetDevices(ctx context.Context) ([]client.Device, error) {
	f.record("devices")
	return f.devices, f.devicesErr
}

func (f *fakeSpotify) GetPlaybackState(ctx context.Context) (*client.PlaybackState, error) {
	f.record("player-state")
	return f.state, f.stateErr
}

func (f *fakeSpotify) Play(ctx context.Context, opts client.PlayOptions) error {
	f.record("play:" + opts.DeviceID)
	if f.playHook != nil {
		f.playHook(opts.DeviceID)
	}
	return f.playErr
}

func (f *fakeSpotify) Pause(ctx context.Context) error {
	f.record("pause")
	return f.pauseErr
}

// fakePlayer wraps a real session so the activation flag behaves
// exactly as it does in production.
type fakePlayer struct {
	session *localplayer.Session

	mu          sync.Mutex
	activations int
	activateErr error

	// activateHook, when set, runs inside Activate before the result
	// is returned.
	activateHook func()
}

func newFakePlayer(deviceID string) *fakePlayer {
	p := &fakePlayer{session: localplayer.NewSession()}
	if deviceID != "" {
		p.session.SetDeviceID(deviceID)
	}
	return p
}

func (p *fakePlayer) DeviceID() string          { return p.session.DeviceID() }
func (p *fakePlayer) ActivationAttempted() bool { return p.session.ActivationAttempted() }
func (p *fakePlayer) MarkActivationAttempted()  { p.session.MarkActivationAttempted() }

func (p *fakePlayer) Activate(ctx context.Context) error {
	p.mu.Lock()
	p.activations++
	p.mu.Unlock()
	if p.activateHook != nil {
		p.activateHook()
	}
	return p.activateErr
}

func (p *fakePlayer) Activations() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.activations
}

// fakeUI records every status and pause-enablement update in order.
type fakeUI struct {
	mu       sync.Mutex
	statuses []string
	pause    []bool
}

func (u *fakeUI) SetStatus(msg string) {
	u.mu.Lock()
	u.statuses = append(u.statuses, msg)
	u.mu.Unlock()
}

func (u *fakeUI) SetPauseEnabled(enabled bool) {
	u.mu.Lock()
	u.pause = append(u.pause, enabled)
	u.mu.Unlock()
}

func (u *fakeUI) LastStatus() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.statuses) == 0 {
		return ""
	}
	return u.statuses[len(u.statuses)-1]
}

func (u *fakeUI) LastPauseEnabled() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.pause) == 0 {
		return false
	}
	return u.pause[len(u.pause)-1]
}

// fakeTimer records countdown starts and stops.
type fakeTimer struct {
	mu     sync.Mutex
	starts []int
	stops  int
}

func (t *fakeTimer) Start(seconds int) {
	t.mu.Lock()
	t.starts = append(t.starts, seconds)
	t.mu.Unlock()
}

func (t *fakeTimer) Stop() {
	t.mu.Lock()
	t.stops++
	t.mu.Unlock()
}

func (t *fakeTimer) Starts() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]int(nil), t.starts...)
}

func newTestOrchestrator(spotify *fakeSpotify, player *fakePlayer) (*Orchestrator, *fakeUI, *fakeTimer) {
	ui := &fakeUI{}
	timer := &fakeTimer{}
	o := New(spotify, player, ui, timer, zerolog.Nop())
	return o, ui, timer
}

func equalCalls(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestResolveTarget(t *testing.T) {
	local := "dev-local"
	tests := []struct {
		name    string
		devices []core.Device
		localID string
		want    core.PlaybackTarget
	}{
		{
			name:    "active remote wins",
			devices: []core.Device{{ID: "dev-remote", IsActive: true}, {ID: local}},
			localID: local,
			want:    core.PlaybackTarget{Kind: core.TargetRemote, DeviceID: "dev-remote"},
		},
		{
			name:    "active local does not count as remote",
			devices: []core.Device{{ID: local, IsActive: true}},
			localID: local,
			want:    core.PlaybackTarget{Kind: core.TargetLocal, DeviceID: local},
		},
		{
			name:    "no active device falls back to local",
			devices: []core.Device{{ID: "dev-idle"}},
			localID: local,
			want:    core.PlaybackTarget{Kind: core.TargetLocal, DeviceID: local},
		},
		{
			name:    "nothing available",
			devices: nil,
			localID: "",
			want:    core.PlaybackTarget{Kind: core.TargetNone},
		},
		{
			name:    "idle devices but local not ready",
			devices: []core.Device{{ID: "dev-idle"}},
			localID: "",
			want:    core.PlaybackTarget{Kind: core.TargetNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveTarget(tt.devices, tt.localID); got != tt.want {
				t.Errorf("ResolveTarget() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSnapshotDevices(t *testing.T) {
	snap := SnapshotDevices([]client.Device{
		{ID: "d1", Name: "Office Mac", Type: "Computer", IsActive: true},
		{ID: "d2", Name: "Kitchen", Type: "Speaker"},
		{ID: "d3", Name: "Pixel", Type: "Smartphone"},
	})

	want := []core.Device{
		{ID: "d1", Name: "Office Mac", Type: core.DeviceTypeComputer, IsActive: true},
		{ID: "d2", Name: "Kitchen", Type: core.DeviceTypeSpeaker},
		{ID: "d3", Name: "Pixel", Type: core.DeviceTypePhone},
	}
	if len(snap) != len(want) {
		t.Fatalf("len = %d, want %d", len(snap), len(want))
	}
	for i := range want {
		if snap[i] != want[i] {
			t.Errorf("snap[%d] = %+v, want %+v", i, snap[i], want[i])
		}
	}
}

func TestTwoLocalPressesActivateOnce(t *testing.T) {
	spotify := &fakeSpotify{devices: []client.Device{{ID: "dev-local"}}}
	player := newFakePlayer("dev-local")
	o, ui, timer := newTestOrchestrator(spotify, player)

	ctx := context.Background()
	if err := o.HandlePlayRequest(ctx, nil); err != nil {
		t.Fatalf("first press error = %v", err)
	}
	if err := o.HandlePlayRequest(ctx, nil); err != nil {
		t.Fatalf("second press error = %v", err)
	}

	if got := player.Activations(); got != 1 {
		t.Errorf("activation count = %d, want 1", got)
	}

	// The playback state probe runs only on the first local press,
	// the one that activated.
	want := []string{"devices", "player-state", "play:dev-local", "devices", "play:dev-local"}
	if got := spotify.Calls(); !equalCalls(got, want) {
		t.Errorf("call sequence = %v, want %v", got, want)
	}

	if got := ui.LastStatus(); got != StatusPlaying {
		t.Errorf("status = %q, want %q", got, StatusPlaying)
	}
	if !ui.LastPauseEnabled() {
		t.Error("pause should be enabled after playing")
	}
	if starts := timer.Starts(); len(starts) != 2 || starts[0] != 30 || starts[1] != 30 {
		t.Errorf("timer starts = %v, want two full 30s countdowns", starts)
	}
}

func TestActivationRejected(t *testing.T) {
	spotify := &fakeSpotify{devices: []client.Device{{ID: "dev-local"}}}
	player := newFakePlayer("dev-local")
	player.activateErr = apperrors.ErrActivationBlocked
	o, ui, timer := newTestOrchestrator(spotify, player)

	err := o.HandlePlayRequest(context.Background(), nil)
	if !errors.Is(err, apperrors.ErrActivationBlocked) {
		t.Fatalf("error = %v, want ErrActivationBlocked", err)
	}

	if got := player.Activations(); got != 1 {
		t.Errorf("activation count = %d, want 1", got)
	}
	if !player.ActivationAttempted() {
		t.Error("failed activation must still latch the attempted flag")
	}

	// Only the device query went out. No probe, no play.
	if got := spotify.Calls(); !equalCalls(got, []string{"devices"}) {
		t.Errorf("calls = %v, want [devices]", got)
	}

	if got := ui.LastStatus(); got != StatusActivationBlocked {
		t.Errorf("status = %q, want %q", got, StatusActivationBlocked)
	}
	if ui.LastPauseEnabled() {
		t.Error("pause must stay disabled after blocked activation")
	}
	if len(timer.Starts()) != 0 {
		t.Error("countdown must not start after blocked activation")
	}
}

func TestPressAfterRejectedActivationSkipsGesture(t *testing.T) {
	spotify := &fakeSpotify{devices: []client.Device{{ID: "dev-local"}}}
	player := newFakePlayer("dev-local")
	player.activateErr = apperrors.ErrActivationBlocked
	o, ui, _ := newTestOrchestrator(spotify, player)

	ctx := context.Background()
	_ = o.HandlePlayRequest(ctx, nil)

	// The user presses again. The gesture is never repeated, and the
	// press goes straight to transfer and play.
	player.activateErr = nil
	if err := o.HandlePlayRequest(ctx, nil); err != nil {
		t.Fatalf("second press error = %v", err)
	}

	if got := player.Activations(); got != 1 {
		t.Errorf("activation count = %d, want 1 for the whole session", got)
	}
	want := []string{"devices", "devices", "play:dev-local"}
	if got := spotify.Calls(); !equalCalls(got, want) {
		t.Errorf("call sequence = %v, want %v", got, want)
	}
	if got := ui.LastStatus(); got != StatusPlaying {
		t.Errorf("status = %q, want %q", got, StatusPlaying)
	}
}

func TestActiveRemoteSkipsActivation(t *testing.T) {
	spotify := &fakeSpotify{devices: []client.Device{
		{ID: "dev-remote", IsActive: true, Name: "Kitchen"},
		{ID: "dev-local"},
	}}
	player := newFakePlayer("dev-local")
	o, ui, timer := newTestOrchestrator(spotify, player)

	if err := o.HandlePlayRequest(context.Background(), nil); err != nil {
		t.Fatalf("press error = %v", err)
	}

	if got := player.Activations(); got != 0 {
		t.Errorf("activation count = %d, want 0 for a remote target", got)
	}
	want := []string{"devices", "play:dev-remote"}
	if got := spotify.Calls(); !equalCalls(got, want) {
		t.Errorf("call sequence = %v, want %v", got, want)
	}
	if got := ui.LastStatus(); got != StatusPlaying {
		t.Errorf("status = %q, want %q", got, StatusPlaying)
	}
	if !ui.LastPauseEnabled() {
		t.Error("pause should be enabled")
	}
	if starts := timer.Starts(); len(starts) != 1 {
		t.Errorf("timer starts = %v, want one", starts)
	}
}

func TestNoDeviceAvailable(t *testing.T) {
	spotify := &fakeSpotify{devices: []client.Device{{ID: "dev-idle"}}}
	player := newFakePlayer("") // local player has not reported ready
	o, ui, timer := newTestOrchestrator(spotify, player)

	err := o.HandlePlayRequest(context.Background(), nil)
	if !errors.Is(err, apperrors.ErrNoPlaybackDevice) {
		t.Fatalf("error = %v, want ErrNoPlaybackDevice", err)
	}

	if got := spotify.Calls(); !equalCalls(got, []string{"devices"}) {
		t.Errorf("calls = %v, want [devices]", got)
	}
	if got := ui.LastStatus(); got != StatusNoDevice {
		t.Errorf("status = %q, want %q", got, StatusNoDevice)
	}
	if len(timer.Starts()) != 0 {
		t.Error("countdown must not start without a device")
	}
}

func TestDeviceQueryFailure(t *testing.T) {
	spotify := &fakeSpotify{devicesErr: errors.New("connection reset")}
	player := newFakePlayer("dev-local")
	o, ui, _ := newTestOrchestrator(spotify, player)

	err := o.HandlePlayRequest(context.Background(), nil)
	if err == nil {
		t.Fatal("press should fail when the device query fails")
	}
	if !errors.Is(err, apperrors.ErrNetworkError) {
		t.Errorf("error = %v, want ErrNetworkError", err)
	}

	if got := spotify.Calls(); !equalCalls(got, []string{"devices"}) {
		t.Errorf("calls = %v, want [devices] only", got)
	}
	if got := ui.LastStatus(); got != StatusDeviceQueryFailed {
		t.Errorf("status = %q, want %q", got, StatusDeviceQueryFailed)
	}
	if got := player.Activations(); got != 0 {
		t.Errorf("activation count = %d, want 0", got)
	}
}

func TestTransferPlayFailure(t *testing.T) {
	spotify := &fakeSpotify{
		devices: []client.Device{{ID: "dev-remote", IsActive: true}},
		playErr: errors.New("bad gateway"),
	}
	player := newFakePlayer("dev-local")
	o, ui, timer := newTestOrchestrator(spotify, player)

	if err := o.HandlePlayRequest(context.Background(), nil); err == nil {
		t.Fatal("press should fail when play fails")
	}

	if got := ui.LastStatus(); got != StatusPlayFailed {
		t.Errorf("status = %q, want %q", got, StatusPlayFailed)
	}
	if ui.LastPauseEnabled() {
		t.Error("pause must stay disabled after a failed play")
	}
	if len(timer.Starts()) != 0 {
		t.Error("countdown must not start after a failed play")
	}
}

func TestProbeFailureDoesNotAbortPlay(t *testing.T) {
	spotify := &fakeSpotify{
		devices:  []client.Device{{ID: "dev-local"}},
		stateErr: errors.New("timeout"),
	}
	player := newFakePlayer("dev-local")
	o, ui, _ := newTestOrchestrator(spotify, player)

	if err := o.HandlePlayRequest(context.Background(), nil); err != nil {
		t.Fatalf("press error = %v, probe failure should not abort", err)
	}

	want := []string{"devices", "player-state", "play:dev-local"}
	if got := spotify.Calls(); !equalCalls(got, want) {
		t.Errorf("call sequence = %v, want %v", got, want)
	}
	if got := ui.LastStatus(); got != StatusPlaying {
		t.Errorf("status = %q, want %q", got, StatusPlaying)
	}
}

// Two presses racing past the activation check before either latches
// the flag can both invoke the gesture. The flag is a plain one-way
// latch, not a compare-and-swap gate, and this window is accepted:
// a second gesture call is harmless, and presses after either latch
// never activate again.
func TestConcurrentFirstPressesMayBothActivate(t *testing.T) {
	spotify := &fakeSpotify{devices: []client.Device{{ID: "dev-local"}}}
	player := newFakePlayer("dev-local")

	var barrier sync.WaitGroup
	barrier.Add(2)
	player.activateHook = func() {
		// Hold both presses inside the gesture call so neither has
		// latched the flag when the other checks it.
		barrier.Done()
		barrier.Wait()
	}

	o, _, _ := newTestOrchestrator(spotify, player)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = o.HandlePlayRequest(context.Background(), nil)
		}()
	}
	wg.Wait()

	if got := player.Activations(); got != 2 {
		t.Errorf("activation count = %d, want 2 (both presses inside the race window)", got)
	}

	// After the race, the latch holds and a third press never
	// activates.
	if err := o.HandlePlayRequest(context.Background(), nil); err != nil {
		t.Fatalf("third press error = %v", err)
	}
	if got := player.Activations(); got != 2 {
		t.Errorf("activation count = %d after third press, want still 2", got)
	}
}

// A slow press finishing after a newer one simply overwrites the UI.
// There are no sequence numbers; the last writer wins.
func TestStaleResponseLastWriteWins(t *testing.T) {
	spotify := &fakeSpotify{devices: []client.Device{{ID: "dev-remote", IsActive: true}}}
	player := newFakePlayer("dev-local")
	o, ui, _ := newTestOrchestrator(spotify, player)

	release := make(chan struct{})
	secondDone := make(chan struct{})
	first := true
	var hookMu sync.Mutex
	spotify.playHook = func(deviceID string) {
		hookMu.Lock()
		isFirst := first
		first = false
		hookMu.Unlock()
		if isFirst {
			// Park the first press until the second has fully
			// finished, so its UI update lands late.
			<-release
		}
	}

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_ = o.HandlePlayRequest(context.Background(), nil)
	}()

	go func() {
		defer close(secondDone)
		// Wait for the first press to park inside play.
		waitForCalls(spotify, 2)
		_ = o.HandlePlayRequest(context.Background(), nil)
	}()

	<-secondDone
	close(release)
	<-firstDone

	// Both presses succeeded and both wrote the playing status. The
	// stale one wrote last and nothing rejected it.
	if got := ui.LastStatus(); got != StatusPlaying {
		t.Errorf("status = %q, want %q", got, StatusPlaying)
	}
	ui.mu.Lock()
	writes := len(ui.statuses)
	ui.mu.Unlock()
	if writes != 2 {
		t.Errorf("status writes = %d, want 2 (no deduplication of stale updates)", writes)
	}
}

func waitForCalls(f *fakeSpotify, n int) {
	for len(f.Calls()) < n {
		time.Sleep(time.Millisecond)
	}
}

func TestPause(t *testing.T) {
	spotify := &fakeSpotify{devices: []client.Device{{ID: "dev-remote", IsActive: true}}}
	player := newFakePlayer("dev-local")
	o, ui, timer := newTestOrchestrator(spotify, player)

	ctx := context.Background()
	if err := o.HandlePlayRequest(ctx, nil); err != nil {
		t.Fatalf("play error = %v", err)
	}
	if err := o.HandlePauseRequest(ctx); err != nil {
		t.Fatalf("pause error = %v", err)
	}

	if got := ui.LastStatus(); got != StatusPaused {
		t.Errorf("status = %q, want %q", got, StatusPaused)
	}
	if ui.LastPauseEnabled() {
		t.Error("pause should be disabled once paused")
	}
	timer.mu.Lock()
	stops := timer.stops
	timer.mu.Unlock()
	if stops != 1 {
		t.Errorf("timer stops = %d, want 1", stops)
	}
}

func TestPauseFailure(t *testing.T) {
	spotify := &fakeSpotify{pauseErr: errors.New("server error")}
	player := newFakePlayer("dev-local")
	o, ui, timer := newTestOrchestrator(spotify, player)

	if err := o.HandlePauseRequest(context.Background()); err == nil {
		t.Fatal("pause should fail")
	}
	if got := ui.LastStatus(); got != StatusPauseFailed {
		t.Errorf("status = %q, want %q", got, StatusPauseFailed)
	}
	timer.mu.Lock()
	stops := timer.stops
	timer.mu.Unlock()
	if stops != 0 {
		t.Errorf("timer stops = %d, want 0 on failed pause", stops)
	}
}

func TestCustomCountdownDuration(t *testing.T) {
	spotify := &fakeSpotify{devices: []client.Device{{ID: "dev-remote", IsActive: true}}}
	player := newFakePlayer("")
	ui := &fakeUI{}
	timer := &fakeTimer{}
	o := New(spotify, player, ui, timer, zerolog.Nop(), WithCountdownSeconds(45))

	if err := o.HandlePlayRequest(context.Background(), nil); err != nil {
		t.Fatalf("press error = %v", err)
	}
	if starts := timer.Starts(); len(starts) != 1 || starts[0] != 45 {
		t.Errorf("timer starts = %v, want [45]", starts)
	}
}
