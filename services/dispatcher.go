package services

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"strconv"
	"strings"

	"quizparty/game"

	"github.com/gin-gonic/gin"
)

const roomNotFoundMsg = "Комната не найдена"

// Transport is what the dispatcher needs from the connection layer. The
// Hub implements it; tests use a recording fake.
type Transport interface {
	JoinRoom(id game.ClientID, code string)
	SendTo(id game.ClientID, messageType string, payload any)
	BroadcastToRoom(code string, messageType string, payload any)
}

// Defaults are applied when a create request omits a setting.
type Defaults struct {
	QuestionCount    int
	QuestionDuration int
}

// Dispatcher maps inbound client events to room operations. Guard
// failures inside the room (wrong phase, non-moderator, duplicate
// submission) are silent by contract; only an unknown room code produces
// a notice, and only to the caller.
type Dispatcher struct {
	registry  *game.Registry
	bank      *game.Bank
	transport Transport
	cache     *SnapshotCache
	defaults  Defaults
}

func NewDispatcher(registry *game.Registry, bank *game.Bank, transport Transport, cache *SnapshotCache, defaults Defaults) *Dispatcher {
	return &Dispatcher{
		registry:  registry,
		bank:      bank,
		transport: transport,
		cache:     cache,
		defaults:  defaults,
	}
}

// looseInt tolerates absent, fractional or outright non-numeric JSON
// values; callers treat an unset looseInt as "keep the previous value",
// matching the clamp-with-fallback contract for malformed input.
type looseInt struct {
	n  int
	ok bool
}

func (l *looseInt) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		l.n, l.ok = int(math.Floor(f)), true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			l.n, l.ok = n, true
		}
	}
	return nil
}

func (l looseInt) ptr() *int {
	if !l.ok {
		return nil
	}
	return &l.n
}

type createAutoPayload struct {
	Mode    string   `json:"mode"`
	Name    string   `json:"name"`
	Seconds looseInt `json:"seconds"`
	Count   looseInt `json:"count"`
}

type joinPayload struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type codePayload struct {
	Code string `json:"code"`
}

type setTimePayload struct {
	Code    string   `json:"code"`
	Seconds looseInt `json:"seconds"`
}

type setCountPayload struct {
	Code  string   `json:"code"`
	Count looseInt `json:"count"`
}

type answerPayload struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// Dispatch routes one inbound event.
func (d *Dispatcher) Dispatch(id game.ClientID, msg Message) {
	switch msg.Type {
	case "host:create":
		d.createModerated(id)

	case "auto:create":
		var p createAutoPayload
		if !d.parse(msg.Payload, &p, msg.Type) {
			return
		}
		d.createAuto(id, p)

	case "player:join":
		var p joinPayload
		if !d.parse(msg.Payload, &p, msg.Type) {
			return
		}
		if room := d.lookup(id, p.Code); room != nil {
			d.transport.JoinRoom(id, room.Code())
			room.Join(id, p.Name)
		}

	case "host:set_time":
		var p setTimePayload
		if !d.parse(msg.Payload, &p, msg.Type) {
			return
		}
		if room := d.lookup(id, p.Code); room != nil {
			room.SetDuration(id, p.Seconds.ptr())
		}

	case "host:set_qcount":
		var p setCountPayload
		if !d.parse(msg.Payload, &p, msg.Type) {
			return
		}
		if room := d.lookup(id, p.Code); room != nil {
			room.SetQuestionCount(id, p.Count.ptr())
		}

	case "host:next":
		var p codePayload
		if !d.parse(msg.Payload, &p, msg.Type) {
			return
		}
		if room := d.lookup(id, p.Code); room != nil {
			room.Advance(id)
		}

	case "host:show_results":
		var p codePayload
		if !d.parse(msg.Payload, &p, msg.Type) {
			return
		}
		if room := d.lookup(id, p.Code); room != nil {
			room.RevealResults(id)
		}

	case "host:finish":
		var p codePayload
		if !d.parse(msg.Payload, &p, msg.Type) {
			return
		}
		if room := d.lookup(id, p.Code); room != nil {
			room.Finish(id)
		}

	case "host:reset":
		var p codePayload
		if !d.parse(msg.Payload, &p, msg.Type) {
			return
		}
		if room := d.lookup(id, p.Code); room != nil {
			room.Reset(id)
		}

	case "player:answer":
		var p answerPayload
		if !d.parse(msg.Payload, &p, msg.Type) {
			return
		}
		if room := d.registry.Get(p.Code); room != nil {
			room.Submit(id, p.Text)
		}

	default:
		log.Printf("Unknown message type %q from client %s", msg.Type, id)
	}
}

// Disconnect removes the connection from every room it appears in.
func (d *Dispatcher) Disconnect(id game.ClientID) {
	for _, room := range d.registry.Rooms() {
		room.Disconnect(id)
	}
}

func (d *Dispatcher) createModerated(id game.ClientID) {
	room := d.registry.CreateRoom(func(code string) *game.Room {
		return game.NewRoom(code, game.ModeModerated, id, d.bank, d.emitter(), d.defaults.QuestionCount, d.defaults.QuestionDuration)
	})

	d.transport.JoinRoom(id, room.Code())
	d.transport.SendTo(id, "host:created", gin.H{"code": room.Code()})
	room.Announce()
}

func (d *Dispatcher) createAuto(id game.ClientID, p createAutoPayload) {
	mode := game.ModeSolo
	if p.Mode == string(game.ModeAuto2) {
		mode = game.ModeAuto2
	}

	count := d.defaults.QuestionCount
	if p.Count.ok {
		count = p.Count.n
	}
	duration := d.defaults.QuestionDuration
	if p.Seconds.ok {
		duration = p.Seconds.n
	}

	room := d.registry.CreateRoom(func(code string) *game.Room {
		return game.NewRoom(code, mode, "", d.bank, d.emitter(), count, duration)
	})

	d.transport.JoinRoom(id, room.Code())
	d.transport.SendTo(id, "auto:created", gin.H{"code": room.Code(), "mode": room.Mode()})
	room.Join(id, p.Name)
}

// lookup resolves a room code, notifying only the caller when it is
// unknown.
func (d *Dispatcher) lookup(id game.ClientID, code string) *game.Room {
	room := d.registry.Get(code)
	if room == nil {
		d.transport.SendTo(id, "error:msg", roomNotFoundMsg)
	}
	return room
}

func (d *Dispatcher) parse(raw json.RawMessage, into any, messageType string) bool {
	if len(raw) == 0 {
		return true
	}
	if err := json.Unmarshal(raw, into); err != nil {
		log.Printf("Malformed %s payload: %v", messageType, err)
		return false
	}
	return true
}

func (d *Dispatcher) emitter() game.Broadcaster {
	return &emitter{transport: d.transport, cache: d.cache}
}

// emitter adapts the transport to the room's Broadcaster and mirrors
// every public snapshot to the cache.
type emitter struct {
	transport Transport
	cache     *SnapshotCache
}

func (e *emitter) BroadcastRoom(snap game.PublicSnapshot) {
	e.transport.BroadcastToRoom(snap.Code, "room:update", snap)

	if e.cache != nil {
		if err := e.cache.Store(context.Background(), snap); err != nil {
			log.Printf("Failed to cache snapshot for room %s: %v", snap.Code, err)
		}
	}
}

func (e *emitter) SendModerator(id game.ClientID, snap game.ModeratorSnapshot) {
	e.transport.SendTo(id, "host:update", snap)
}
