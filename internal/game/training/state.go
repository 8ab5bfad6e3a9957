package training

import (
	"encoding/json"
	"fmt"

	"github.com/Neon681/bmt-idle-sub000/internal/game/character"
)

// State is everything the engine owns for one player: the character ledger
// and the session in progress, if any.
type State struct {
	Character *character.Character
	// Session is nil when the character is idle.
	Session Session
}

// Idle reports whether no session is in progress.
func (s *State) Idle() bool { return s.Session == nil }

type envelope struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// MarshalSession encodes s with its kind so it can be restored by UnmarshalSession.
// A nil session encodes as JSON null.
func MarshalSession(s Session) ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshalling %s session: %w", s.Kind(), err)
	}
	return json.Marshal(envelope{Kind: s.Kind(), Data: data})
}

// UnmarshalSession decodes the output of MarshalSession.
//
// Postcondition: returns (nil, nil) for JSON null or empty input.
func UnmarshalSession(data []byte) (Session, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding session envelope: %w", err)
	}
	var s Session
	switch env.Kind {
	case KindGathering:
		s = &Gathering{}
	case KindCombat:
		s = &Encounter{}
	default:
		return nil, fmt.Errorf("decoding session: unknown kind %q", env.Kind)
	}
	if err := json.Unmarshal(env.Data, s); err != nil {
		return nil, fmt.Errorf("decoding %s session: %w", env.Kind, err)
	}
	switch v := s.(type) {
	case *Gathering:
		if v.ActionMs <= 0 {
			return nil, fmt.Errorf("decoding gathering session %q: action_ms must be > 0, got %d", v.ID, v.ActionMs)
		}
	case *Encounter:
		if v.Foe == nil {
			return nil, fmt.Errorf("decoding combat session %q: missing foe", v.ID)
		}
		if v.Player.ActionMs <= 0 || v.Enemy.ActionMs <= 0 {
			return nil, fmt.Errorf("decoding combat session %q: attack intervals must be > 0, got %d/%d",
				v.ID, v.Player.ActionMs, v.Enemy.ActionMs)
		}
	}
	return s, nil
}

type stateJSON struct {
	Character *character.Character `json:"character"`
	Session   json.RawMessage      `json:"session"`
}

// MarshalJSON encodes the state with the session in its kind envelope.
func (s State) MarshalJSON() ([]byte, error) {
	sess, err := MarshalSession(s.Session)
	if err != nil {
		return nil, err
	}
	return json.Marshal(stateJSON{Character: s.Character, Session: sess})
}

// UnmarshalJSON decodes a state and normalizes the character.
func (s *State) UnmarshalJSON(data []byte) error {
	var raw stateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding state: %w", err)
	}
	if raw.Character == nil {
		return fmt.Errorf("decoding state: missing character")
	}
	sess, err := UnmarshalSession(raw.Session)
	if err != nil {
		return err
	}
	raw.Character.Normalize()
	s.Character = raw.Character
	s.Session = sess
	return nil
}
