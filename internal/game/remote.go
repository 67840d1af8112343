package game

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RemoteID identifies another player on the network.
type RemoteID string

// Effect tags carried by network events.
const (
	EffectLostCoins = "lost_coins"
)

// RemotePlayer is the mirrored state of another player. The simulation never
// moves remote players; it only stores what the network last reported.
type RemotePlayer struct {
	Pos        Vec     `json:"pos"`
	Vel        Vec     `json:"vel"`
	Rot        float64 `json:"rot"`
	FacingLeft bool    `json:"facingLeft"`
	Health     int     `json:"health"`
	LostCoins  bool    `json:"lostCoins"`
}

// NetKind tells which of the three inbound message shapes was received.
type NetKind uint8

const (
	NetState   NetKind = iota // Full replacement of remote players
	NetEvents                 // Batch of effect events
	NetLocalID                // Assignment of our own identity
)

// String returns a short name used in logs and events.
func (k NetKind) String() string {
	switch k {
	case NetState:
		return "state"
	case NetEvents:
		return "events"
	case NetLocalID:
		return "local_id"
	default:
		return "unknown"
	}
}

// RemoteEvent targets one remote player with an effect tag.
type RemoteEvent struct {
	ID     RemoteID
	Effect string
}

// NetMessage is a decoded inbound network message.
type NetMessage struct {
	Kind    NetKind
	State   map[RemoteID]RemotePlayer
	Events  []RemoteEvent
	LocalID RemoteID
}

// DecodeNetMessage parses one inbound JSON message. Three shapes exist:
// {"type":"events","data":[{"id":..,"effect":..}]} is an event batch,
// {"id":..} assigns the local identity, and any other object maps remote
// ids to their full state.
func DecodeNetMessage(data []byte) (NetMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return NetMessage{}, fmt.Errorf("decode net message: %w", err)
	}

	if raw, ok := fields["type"]; ok {
		var typ string
		if err := json.Unmarshal(raw, &typ); err != nil {
			return NetMessage{}, fmt.Errorf("decode net message type: %w", err)
		}
		if typ != "events" {
			return NetMessage{}, fmt.Errorf("unsupported net message type %q", typ)
		}
		return decodeEvents(fields["data"])
	}

	if raw, ok := fields["id"]; ok && len(fields) == 1 {
		id, err := decodeRemoteID(raw)
		if err != nil {
			return NetMessage{}, fmt.Errorf("decode local id: %w", err)
		}
		return NetMessage{Kind: NetLocalID, LocalID: id}, nil
	}

	state := make(map[RemoteID]RemotePlayer, len(fields))
	for k, raw := range fields {
		var rp RemotePlayer
		if err := json.Unmarshal(raw, &rp); err != nil {
			return NetMessage{}, fmt.Errorf("decode remote %q: %w", k, err)
		}
		state[RemoteID(k)] = rp
	}
	return NetMessage{Kind: NetState, State: state}, nil
}

func decodeEvents(raw json.RawMessage) (NetMessage, error) {
	var wire []struct {
		ID     json.RawMessage `json:"id"`
		Effect string          `json:"effect"`
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &wire); err != nil {
			return NetMessage{}, fmt.Errorf("decode events: %w", err)
		}
	}

	msg := NetMessage{Kind: NetEvents, Events: make([]RemoteEvent, 0, len(wire))}
	for _, ev := range wire {
		id, err := decodeRemoteID(ev.ID)
		if err != nil {
			return NetMessage{}, fmt.Errorf("decode event id: %w", err)
		}
		effect := ev.Effect
		if effect == "" {
			effect = EffectLostCoins
		}
		msg.Events = append(msg.Events, RemoteEvent{ID: id, Effect: effect})
	}
	return msg, nil
}

// decodeRemoteID accepts ids sent as JSON strings or numbers.
func decodeRemoteID(raw json.RawMessage) (RemoteID, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", fmt.Errorf("missing id")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return RemoteID(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return RemoteID(strings.TrimSpace(n.String())), nil
}

// ApplyNet folds a decoded message into the remote mirror. Events naming an
// unknown remote or carrying an unknown tag are ignored. It returns how many
// remotes were touched.
func (w *World) ApplyNet(msg NetMessage) int {
	switch msg.Kind {
	case NetLocalID:
		w.localID = msg.LocalID
		return 0

	case NetEvents:
		n := 0
		for _, ev := range msg.Events {
			rp, ok := w.remotes[ev.ID]
			if !ok {
				continue
			}
			switch ev.Effect {
			case EffectLostCoins:
				rp.LostCoins = true
				n++
			}
		}
		return n

	case NetState:
		for id := range w.remotes {
			delete(w.remotes, id)
		}
		for id, rp := range msg.State {
			rp := rp
			w.remotes[id] = &rp
		}
		return len(msg.State)
	}
	return 0
}

// LocalID returns the identity assigned by the network, empty until known.
func (w *World) LocalID() RemoteID { return w.localID }

// Remote returns the mirrored state of one remote player.
func (w *World) Remote(id RemoteID) (RemotePlayer, bool) {
	rp, ok := w.remotes[id]
	if !ok {
		return RemotePlayer{}, false
	}
	return *rp, true
}

// RemoteCount returns how many remote players are mirrored.
func (w *World) RemoteCount() int { return len(w.remotes) }
