package ws

import (
	"encoding/json"
	"testing"
)

func newTestClient(userID, eventID uint) *Client {
	return &Client{UserID: userID, EventID: eventID, Send: make(chan []byte, 4)}
}

func TestBroadcastReachesOnlyWatchersOfEvent(t *testing.T) {
	hub := NewFundraiserHub()
	a := newTestClient(1, 10)
	b := newTestClient(2, 10)
	other := newTestClient(3, 99)
	hub.Register(a)
	hub.Register(b)
	hub.Register(other)

	hub.PublishContribution(10, 4500, 2, 2000, "Bravo")

	for _, c := range []*Client{a, b} {
		select {
		case raw := <-c.Send:
			var upd ProgressUpdate
			if err := json.Unmarshal(raw, &upd); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if upd.EventID != 10 || upd.CurrentAmountCents != 4500 || upd.AmountCents != 2000 {
				t.Errorf("update = %+v", upd)
			}
			if upd.Message != "Bravo" || upd.ContributorID != 2 {
				t.Errorf("update = %+v", upd)
			}
		default:
			t.Fatal("watcher received nothing")
		}
	}
	select {
	case <-other.Send:
		t.Fatal("watcher of another event received the update")
	default:
	}
}

func TestSlowConsumerDoesNotBlockBroadcast(t *testing.T) {
	hub := NewHub()
	slow := &Client{UserID: 1, EventID: 10, Send: make(chan []byte)} // unbuffered, nobody reading
	fast := newTestClient(2, 10)
	hub.Register(slow)
	hub.Register(fast)

	hub.BroadcastToEvent(10, map[string]int{"n": 1})

	select {
	case <-fast.Send:
	default:
		t.Fatal("fast watcher starved by slow one")
	}
}

func TestCloseUnregisters(t *testing.T) {
	hub := NewHub()
	c := newTestClient(1, 10)
	hub.Register(c)
	if hub.ClientCount() != 1 {
		t.Fatalf("count = %d, want 1", hub.ClientCount())
	}
	c.Close()
	c.Close() // idempotent
	if hub.ClientCount() != 0 {
		t.Fatalf("count = %d after close, want 0", hub.ClientCount())
	}
	// broadcasting to an empty event must be a no-op
	hub.BroadcastToEvent(10, map[string]int{"n": 1})
}
