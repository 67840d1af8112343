package game

import (
	"encoding/json"
	"time"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown     EventType = iota
	EventTypeTick                  // Tick boundary with collection sizes
	EventTypeDamage                // Damage applied through the combat resolver
	EventTypeKill                  // Damage that brought health to zero
	EventTypeTileCleared           // Tile shot away by the player
	EventTypeSpawn                 // Entity created by a spawner or a level
	EventTypeRestart               // World restart
	EventTypeNetPatch              // Inbound network message applied
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is the core event structure for the event log
type Event struct {
	Version   uint8           `json:"version"`
	Type      EventType       `json:"type"`
	Timestamp int64           `json:"timestamp"` // Unix nano
	Sequence  uint64          `json:"sequence"`  // Monotonic sequence
	TickNum   uint64          `json:"tickNum"`
	Source    string          `json:"source"` // Rate limit key, empty for world-level events
	Payload   json.RawMessage `json:"payload"`
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypeDamage:
		return "damage"
	case EventTypeKill:
		return "kill"
	case EventTypeTileCleared:
		return "tile_cleared"
	case EventTypeSpawn:
		return "spawn"
	case EventTypeRestart:
		return "restart"
	case EventTypeNetPatch:
		return "net_patch"
	default:
		return "unknown"
	}
}

// MarshalText writes the event type by name in the JSONL log.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// TickPayload summarizes the world after a tick
type TickPayload struct {
	Entities    int   `json:"entities"`
	Shots       int   `json:"shots"`
	Particles   int   `json:"particles"`
	DurationNs  int64 `json:"durationNs"`
	SoundsFired int   `json:"soundsFired"`
}

// DamagePayload contains damage event details
type DamagePayload struct {
	TargetID  EntityID `json:"targetId"`
	Player    bool     `json:"player"`
	Amount    int      `json:"amount"`
	Remaining int      `json:"remaining"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
}

// KillPayload contains kill event details
type KillPayload struct {
	TargetID EntityID `json:"targetId"`
	Player   bool     `json:"player"`
	Wisdom   int      `json:"wisdom"`
}

// TileClearedPayload names the tile that was removed
type TileClearedPayload struct {
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// SpawnPayload describes a new entity
type SpawnPayload struct {
	ID       EntityID `json:"id"`
	Kind     string   `json:"kind"`
	ParentID EntityID `json:"parentId"`
}

// RestartPayload records what a restart removed
type RestartPayload struct {
	EntitiesRemoved int `json:"entitiesRemoved"`
}

// NetPatchPayload describes an applied network message
type NetPatchPayload struct {
	Kind    string `json:"kind"`
	Touched int    `json:"touched"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) json.RawMessage {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum uint64, source string, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		Source:    source,
		Payload:   EncodePayload(payload),
	}
}
