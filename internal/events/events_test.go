package events

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filedock/service/internal/logger"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	hub := NewHub(4)
	a, b := hub.Subscribe(), hub.Subscribe()
	defer a.Close()
	defer b.Close()
	assert.NotEqual(t, a.ID, b.ID)

	n := hub.Publish(Event{Type: TypeUploaded, Key: "1-a.txt", Source: SourceAPI})
	assert.Equal(t, 2, n)

	for _, sub := range []*Subscription{a, b} {
		ev := receive(t, sub.C)
		assert.Equal(t, TypeUploaded, ev.Type)
		assert.Equal(t, "1-a.txt", ev.Key)
		assert.False(t, ev.Time.IsZero())
	}
}

func TestHub_SlowSubscriberDropsEvents(t *testing.T) {
	hub := NewHub(1)
	sub := hub.Subscribe()
	defer sub.Close()

	assert.Equal(t, 1, hub.Publish(Event{Key: "first"}))
	assert.Equal(t, 0, hub.Publish(Event{Key: "second"}))
	assert.Equal(t, "first", receive(t, sub.C).Key)
}

func TestHub_CloseAndUnsubscribe(t *testing.T) {
	hub := NewHub(1)
	sub := hub.Subscribe()
	assert.Equal(t, 1, hub.Subscribers())

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, hub.Subscribers())
	_, ok := <-sub.C
	assert.False(t, ok)

	other := hub.Subscribe()
	hub.Close()
	_, ok = <-other.C
	assert.False(t, ok)

	late := hub.Subscribe()
	_, ok = <-late.C
	assert.False(t, ok)
	assert.Equal(t, 0, hub.Publish(Event{Key: "after close"}))
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		typ  Type
		ok   bool
	}{
		{"create", fsnotify.Event{Name: "/s/files/1-a.txt", Op: fsnotify.Create}, TypeCreated, true},
		{"remove", fsnotify.Event{Name: "/s/files/1-a.txt", Op: fsnotify.Remove}, TypeRemoved, true},
		{"rename", fsnotify.Event{Name: "/s/files/1-a.txt", Op: fsnotify.Rename}, TypeRemoved, true},
		{"write", fsnotify.Event{Name: "/s/files/1-a.txt", Op: fsnotify.Write}, "", false},
		{"hidden", fsnotify.Event{Name: "/s/files/.tmp", Op: fsnotify.Create}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := translate(tt.ev)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.typ, ev.Type)
				assert.Equal(t, "1-a.txt", ev.Key)
				assert.Equal(t, SourceFS, ev.Source)
			}
		})
	}
}

func TestWatcher_ReportsOutOfBandChanges(t *testing.T) {
	dir := t.TempDir()
	hub := NewHub(16)
	sub := hub.Subscribe()
	defer sub.Close()

	w, err := NewWatcher(dir, hub, logger.Nop())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	path := filepath.Join(dir, "1-dropped.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	ev := receive(t, sub.C)
	assert.Equal(t, TypeCreated, ev.Type)
	assert.Equal(t, "1-dropped.txt", ev.Key)

	require.NoError(t, os.Remove(path))
	ev = receive(t, sub.C)
	assert.Equal(t, TypeRemoved, ev.Type)
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"), NewHub(1), logger.Nop())
	assert.Error(t, err)
}

func TestHandler_StreamsEvents(t *testing.T) {
	hub := NewHub(4)
	srv := httptest.NewServer(http.HandlerFunc(NewHandler(hub, "*").Stream))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)
	hub.Publish(Event{Type: TypeDeleted, Key: "1-a.txt", Source: SourceAPI})

	var got Event
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, TypeDeleted, got.Type)
	assert.Equal(t, "1-a.txt", got.Key)
	assert.Equal(t, SourceAPI, got.Source)
}

func TestHandler_RejectsForeignOrigin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(NewHandler(NewHub(1), "http://localhost:3000").Stream))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
