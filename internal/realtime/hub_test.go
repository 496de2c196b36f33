package realtime

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testClient(id string) *Client {
	return &Client{
		ID:     id,
		send:   make(chan any, sendBufferSize),
		closed: make(chan struct{}),
		logger: testLogger,
	}
}

// drain empties the client's send buffer and returns the queued frames.
func drain(c *Client) []any {
	var frames []any
	for {
		select {
		case f := <-c.send:
			frames = append(frames, f)
		default:
			return frames
		}
	}
}

func TestHub_JoinAndPublish(t *testing.T) {
	hub := NewHub()
	a := testClient("a")
	b := testClient("b")
	outsider := testClient("outsider")

	hub.Join("e1", a, nil)
	hub.Join("e1", b, nil)
	hub.Join("e2", outsider, nil)

	if !hub.Member("e1", a) || !hub.Member("e1", b) {
		t.Fatal("expected both clients joined to e1")
	}
	if hub.Member("e1", outsider) {
		t.Fatal("outsider should not be a member of e1")
	}

	err := hub.Publish("e1", func() (any, error) {
		return "hello", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, c := range []*Client{a, b} {
		frames := drain(c)
		if len(frames) != 1 || frames[0] != "hello" {
			t.Errorf("client %s: expected [hello], got %v", c.ID, frames)
		}
	}
	if frames := drain(outsider); len(frames) != 0 {
		t.Errorf("outsider should receive nothing, got %v", frames)
	}
}

func TestHub_PublishProduceErrorSkipsBroadcast(t *testing.T) {
	hub := NewHub()
	a := testClient("a")
	hub.Join("e1", a, nil)

	wantErr := errors.New("persist failed")
	err := hub.Publish("e1", func() (any, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected produce error, got %v", err)
	}
	if frames := drain(a); len(frames) != 0 {
		t.Errorf("failed publish must not broadcast, got %v", frames)
	}
}

func TestHub_JoinUnderRunsBeforeLaterPublish(t *testing.T) {
	hub := NewHub()
	a := testClient("a")

	hub.Join("e1", a, func() {
		a.enqueue("history")
	})
	if err := hub.Publish("e1", func() (any, error) { return "live", nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	frames := drain(a)
	if len(frames) != 2 || frames[0] != "history" || frames[1] != "live" {
		t.Fatalf("expected history before live, got %v", frames)
	}
}

func TestHub_Remove(t *testing.T) {
	hub := NewHub()
	a := testClient("a")
	b := testClient("b")
	hub.Join("e1", a, nil)
	hub.Join("e1", b, nil)
	hub.Join("e2", a, nil)

	hub.Remove(a)

	if hub.Member("e1", a) || hub.Member("e2", a) {
		t.Fatal("removed client should not be a member anywhere")
	}
	if !hub.Member("e1", b) {
		t.Fatal("other members must survive a removal")
	}
	if hub.RoomSize("e2") != 0 {
		t.Errorf("empty room should be gone, size %d", hub.RoomSize("e2"))
	}
	if hub.RoomSize("e1") != 1 {
		t.Errorf("expected room size 1, got %d", hub.RoomSize("e1"))
	}
}

func TestClient_EnqueueFullBufferClosesClient(t *testing.T) {
	c := &Client{
		ID:     "slow",
		send:   make(chan any, 1),
		closed: make(chan struct{}),
		logger: testLogger,
	}
	c.enqueue("first")
	c.enqueue("overflow")

	select {
	case <-c.closed:
	default:
		t.Fatal("client with a full buffer should be closed")
	}
	// Enqueue after close is a no-op, never a panic or a block.
	c.enqueue("late")
}
