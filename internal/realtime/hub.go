package realtime

import "sync"

// room is the broadcast group for one event. Each room owns its member set
// behind its own mutex, so contention in one room never blocks another.
type room struct {
	mu      sync.Mutex
	members map[*Client]struct{}
}

// Hub maps event ids to rooms. The outer map is guarded by an RWMutex;
// per-room state is guarded by the room's own lock.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]*room),
	}
}

func (h *Hub) getOrCreateRoom(eventID string) *room {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[eventID]
	if !ok {
		r = &room{members: make(map[*Client]struct{})}
		h.rooms[eventID] = r
	}
	return r
}

func (h *Hub) getRoom(eventID string) (*room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[eventID]
	return r, ok
}

// Join adds the client to the event's room. The under callback runs while
// the room lock is held, after membership is recorded: anything the callback
// enqueues is ordered before any later broadcast in the same room.
func (h *Hub) Join(eventID string, c *Client, under func()) {
	r := h.getOrCreateRoom(eventID)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[c] = struct{}{}
	if under != nil {
		under()
	}
}

// Publish runs produce under the room lock and fans its result out to every
// member, the producer's own connection included. Holding the lock across
// produce makes the room a single logical writer: persisted created_at order
// matches broadcast order.
func (h *Hub) Publish(eventID string, produce func() (any, error)) error {
	r := h.getOrCreateRoom(eventID)
	r.mu.Lock()
	defer r.mu.Unlock()
	frame, err := produce()
	if err != nil {
		return err
	}
	for member := range r.members {
		member.enqueue(frame)
	}
	return nil
}

// Member reports whether the client is currently joined to the event's room.
func (h *Hub) Member(eventID string, c *Client) bool {
	r, ok := h.getRoom(eventID)
	if !ok {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, joined := r.members[c]
	return joined
}

// Remove drops the client from every room it belongs to. Empty rooms are
// deleted so the hub does not accumulate rooms for finished events.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for eventID, r := range h.rooms {
		r.mu.Lock()
		delete(r.members, c)
		empty := len(r.members) == 0
		r.mu.Unlock()
		if empty {
			delete(h.rooms, eventID)
		}
	}
}

// RoomSize returns the number of members joined to the event's room.
func (h *Hub) RoomSize(eventID string) int {
	r, ok := h.getRoom(eventID)
	if !ok {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}
