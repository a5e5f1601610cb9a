package advice

import "strings"

// Registry owns the listed set of chat rooms. The remote service is the
// source of truth; the registry only mirrors the last successful fetch and
// the bookkeeping for creates and deletes in between.
type Registry struct {
	rooms  []ChatRoom
	loaded bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Replace swaps in a freshly fetched room list.
func (r *Registry) Replace(rooms []ChatRoom) {
	r.rooms = make([]ChatRoom, len(rooms))
	copy(r.rooms, rooms)
	r.loaded = true
}

// Loaded reports whether at least one list fetch has been applied.
func (r *Registry) Loaded() bool { return r.loaded }

// Rooms returns a copy of the listed rooms in display order.
func (r *Registry) Rooms() []ChatRoom {
	out := make([]ChatRoom, len(r.rooms))
	copy(out, r.rooms)
	return out
}

// Prepend adds a newly created room at the top of the list without
// re-sorting the rest.
func (r *Registry) Prepend(room ChatRoom) {
	for _, existing := range r.rooms {
		if existing.ID == room.ID {
			return
		}
	}
	r.rooms = append([]ChatRoom{room}, r.rooms...)
}

// Remove drops the room with the given id. Returns true if it was listed.
func (r *Registry) Remove(id int64) bool {
	for i, room := range r.rooms {
		if room.ID == id {
			r.rooms = append(r.rooms[:i], r.rooms[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the listed room with the given id.
func (r *Registry) Get(id int64) (ChatRoom, bool) {
	for _, room := range r.rooms {
		if room.ID == id {
			return room, true
		}
	}
	return ChatRoom{}, false
}

// Search filters rooms by case-insensitive substring match on the title.
// The empty query returns the input unchanged; the source slice is never
// mutated.
func Search(query string, rooms []ChatRoom) []ChatRoom {
	if query == "" {
		return rooms
	}
	needle := strings.ToLower(query)
	var out []ChatRoom
	for _, room := range rooms {
		if strings.Contains(strings.ToLower(room.Title), needle) {
			out = append(out, room)
		}
	}
	return out
}
