package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/nording/hrvctl/internal/model"
)

type fakeControls struct {
	mu        sync.Mutex
	pacerRate float64
	hrvTarget int
	calls     []string
}

func (f *fakeControls) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeControls) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *fakeControls) SetPacerRate(rate float64) float64 {
	f.mu.Lock()
	f.pacerRate = rate
	f.mu.Unlock()
	f.record("SetPacerRate")
	return rate
}

func (f *fakeControls) SetHRVTarget(target int) int {
	f.mu.Lock()
	f.hrvTarget = target
	f.mu.Unlock()
	f.record("SetHRVTarget")
	return target
}

func (f *fakeControls) Scan() error          { f.record("Scan"); return nil }
func (f *fakeControls) Connect(string) error { f.record("Connect"); return nil }
func (f *fakeControls) Disconnect() error    { f.record("Disconnect"); return nil }

func (f *fakeControls) StartRecording(string, bool) error {
	f.record("StartRecording")
	return nil
}

func (f *fakeControls) StopRecording() error { f.record("StopRecording"); return nil }
func (f *fakeControls) Annotate(string)      { f.record("Annotate") }

func TestUpdateFrameScalar(t *testing.T) {
	u := model.Update{
		Field: model.FieldHRVTarget,
		Value: model.Int(300),
		Time:  time.Now(),
	}

	f := updateFrame(u)
	assert.Equal(t, "update", f.Type)
	assert.Equal(t, "hrv_target", f.Field)
	assert.Equal(t, int64(300), f.Value)
	assert.Nil(t, f.Series)
}

func TestUpdateFrameSeries(t *testing.T) {
	u := model.Update{
		Field: model.FieldIBIs,
		Value: model.Series([]model.Point{{X: 0, Y: 800}, {X: 0.8, Y: 810}}),
		Time:  time.Now(),
	}

	f := updateFrame(u)
	assert.Nil(t, f.Value)
	require.Len(t, f.Series, 2)
	assert.InDelta(t, 810.0, f.Series[1].Y, 1e-9)
}

func TestHandleCommandRouting(t *testing.T) {
	controls := &fakeControls{}
	c := &client{
		hub:  &Hub{controls: controls},
		send: make(chan []byte, 8),
	}

	c.handleCommand([]byte(`{"type":"set_pacer_rate","value":5.5}`))
	c.handleCommand([]byte(`{"type":"set_hrv_target","value":300}`))
	c.handleCommand([]byte(`{"type":"scan"}`))
	c.handleCommand([]byte(`{"type":"annotate","text":"marker"}`))

	assert.InDelta(t, 5.5, controls.pacerRate, 1e-9)
	assert.Equal(t, 300, controls.hrvTarget)
	assert.True(t, controls.called("Scan"))
	assert.True(t, controls.called("Annotate"))
	assert.Len(t, c.send, 0)
}

func TestHandleCommandErrors(t *testing.T) {
	controls := &fakeControls{}
	c := &client{
		hub:  &Hub{controls: controls},
		send: make(chan []byte, 8),
	}

	c.handleCommand([]byte(`not json`))
	c.handleCommand([]byte(`{"type":"reboot"}`))

	require.Len(t, c.send, 2)
	var f Frame
	require.NoError(t, json.Unmarshal(<-c.send, &f))
	assert.Equal(t, "error", f.Type)
}

func TestStoppedHubReleasesPumps(t *testing.T) {
	m := model.New(60, 150)
	hub := NewHub(m, &fakeControls{})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	// Register and unregister attempts after the hub has stopped must
	// return instead of blocking their goroutines forever.
	released := make(chan struct{})
	go func() {
		c := &client{hub: hub, send: make(chan []byte, 1)}
		select {
		case hub.unregister <- c:
		case <-hub.done:
		}
		select {
		case hub.register <- c:
		case <-hub.done:
		}
		close(released)
	}()

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("pump blocked on a stopped hub")
	}
}

func TestServerRoundTrip(t *testing.T) {
	m := model.New(60, 150)
	controls := &fakeControls{}
	hub := NewHub(m, controls)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := NewServer(hub, "ignored")
	ts := httptest.NewServer(http.HandlerFunc(srv.serveWS))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	readFrame := func() Frame {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)
		var f Frame
		require.NoError(t, json.Unmarshal(payload, &f))
		return f
	}

	// A fresh client is primed with the full current state.
	seen := map[string]bool{}
	for i := 0; i < 7; i++ {
		f := readFrame()
		assert.Equal(t, "update", f.Type)
		seen[f.Field] = true
	}
	assert.True(t, seen["hrv_target"])
	assert.True(t, seen["connection_state"])

	// Live updates reach the client.
	m.SetHRVTarget(300)
	for {
		f := readFrame()
		if f.Field == "hrv_target" {
			assert.InDelta(t, 300, f.Value.(float64), 1e-9)
			break
		}
	}

	// Commands flow back to the control surface.
	err = conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"set_hrv_target","value":250}`))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return controls.called("SetHRVTarget")
	}, 2*time.Second, 10*time.Millisecond)
}
