package hub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hall-management-backend/internal/hall"
)

func TestHub_BroadcastsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New()
	go h.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, h.ServeWS(w, r, "admin"))
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conns := make([]*websocket.Conn, 2)
	for i := range conns {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		defer conn.Close()
		conns[i] = conn
	}
	require.Eventually(t, func() bool { return h.Len() == 2 }, time.Second, 10*time.Millisecond)

	h.Publish(hall.Event{Kind: hall.EventSeatAssigned, StudentID: "S001", RoomNumber: "R101"})

	for _, conn := range conns {
		var ev hall.Event
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		require.NoError(t, conn.ReadJSON(&ev))
		assert.Equal(t, hall.Event{Kind: hall.EventSeatAssigned, StudentID: "S001", RoomNumber: "R101"}, ev)
	}

	conns[0].Close()
	assert.Eventually(t, func() bool { return h.Len() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	assert.Eventually(t, func() bool { return h.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_PublishDropsWhenFull(t *testing.T) {
	h := New()
	for i := 0; i < cap(h.broadcast)+10; i++ {
		h.Publish(hall.Event{Kind: hall.EventRoomAdded, RoomNumber: "R101"})
	}
	assert.Len(t, h.broadcast, cap(h.broadcast))
}

func TestHub_ServeWSAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := New()
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	served := make(chan error, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served <- h.ServeWS(w, r, "admin")
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	select {
	case err := <-served:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("ServeWS blocked after the hub stopped")
	}
}

func TestHub_ServeWSWithoutRunTimesOut(t *testing.T) {
	h := New()
	served := make(chan error, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served <- h.ServeWS(w, r, "admin")
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	select {
	case err := <-served:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(registerWait + time.Second):
		t.Fatal("ServeWS did not give up registering")
	}
	assert.Equal(t, 0, h.Len())
}
