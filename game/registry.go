package game

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"strings"
	"sync"
	"time"
)

const codeLength = 6

// Registry is the process-wide room store, keyed by room code. Codes are
// case-insensitive on lookup and stored uppercase.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	idleTTL  time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	onRemove func(code string)
}

// NewRegistry creates the store. When idleTTL is positive a janitor
// goroutine removes rooms that have been abandoned for that long.
func NewRegistry(idleTTL time.Duration) *Registry {
	r := &Registry{
		rooms:   make(map[string]*Room),
		idleTTL: idleTTL,
		stopCh:  make(chan struct{}),
	}

	if idleTTL > 0 {
		r.wg.Add(1)
		go r.cleanupLoop()
	}

	return r
}

// OnRemove registers a callback invoked after a room is removed, for
// tearing down state kept outside the registry. Set before use.
func (r *Registry) OnRemove(fn func(code string)) {
	r.onRemove = fn
}

// CreateRoom allocates a unique code, builds the room with it and stores
// it, all under the registry lock.
func (r *Registry) CreateRoom(build func(code string) *Room) *Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := r.newCodeLocked()
	room := build(code)
	r.rooms[code] = room

	log.Printf("Room %s created (mode %s) - total rooms: %d", code, room.Mode(), len(r.rooms))
	return room
}

// Get returns the room for a code, nil when unknown.
func (r *Registry) Get(code string) *Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms[strings.ToUpper(strings.TrimSpace(code))]
}

// Remove deletes the room and stops its timers.
func (r *Registry) Remove(code string) {
	code = strings.ToUpper(strings.TrimSpace(code))

	r.mu.Lock()
	room, ok := r.rooms[code]
	if ok {
		delete(r.rooms, code)
	}
	r.mu.Unlock()

	if ok {
		room.Close()
		if r.onRemove != nil {
			r.onRemove(code)
		}
		log.Printf("Room %s removed", code)
	}
}

// Rooms returns a snapshot of all rooms.
func (r *Registry) Rooms() []*Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Stop shuts the janitor down.
func (r *Registry) Stop() {
	close(r.stopCh)
	r.wg.Wait()
}

func (r *Registry) newCodeLocked() string {
	for {
		bytes := make([]byte, codeLength/2)
		rand.Read(bytes)
		code := strings.ToUpper(hex.EncodeToString(bytes))
		if _, taken := r.rooms[code]; !taken {
			return code
		}
	}
}

func (r *Registry) cleanupLoop() {
	defer r.wg.Done()

	interval := r.idleTTL
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			for _, room := range r.Rooms() {
				if room.AbandonedSince(r.idleTTL) {
					log.Printf("Room %s abandoned, cleaning up", room.Code())
					r.Remove(room.Code())
				}
			}
		}
	}
}
