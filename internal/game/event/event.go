// Package event defines the notifications the engine emits for the
// presentation layer. Core packages never render; they return events.
package event

import "encoding/json"

// Type names an event kind on the wire.
type Type string

const (
	TypeLevelUp          Type = "level_up"
	TypeSessionCompleted Type = "session_completed"
	TypeSessionFailed    Type = "session_failed"
	TypeMonsterDefeated  Type = "monster_defeated"
	TypeQuestCompleted   Type = "quest_completed"
	TypeItemsProduced    Type = "items_produced"
)

// Event is implemented by every emitted event.
type Event interface {
	Type() Type
}

// FailureReason explains why a session ended early.
type FailureReason string

const (
	ReasonResourceExhausted FailureReason = "resource_exhausted"
	ReasonDeath             FailureReason = "death"
)

// LevelUp reports that a skill reached a higher level. Emitted once per batch
// per skill with the final level reached.
type LevelUp struct {
	Skill    string `json:"skill"`
	OldLevel int    `json:"old_level"`
	NewLevel int    `json:"new_level"`
}

// SessionCompleted reports that a session hit its duration ceiling.
type SessionCompleted struct {
	SessionID string `json:"session_id"`
	Skill     string `json:"skill"`
}

// SessionFailed reports that a session ended because an input ran out or the
// character died.
type SessionFailed struct {
	SessionID string        `json:"session_id"`
	Reason    FailureReason `json:"reason"`
	// Resource names the exhausted item when Reason is ReasonResourceExhausted.
	Resource string `json:"resource,omitempty"`
}

// MonsterDefeated reports a kill and what it awarded.
type MonsterDefeated struct {
	MonsterID    string         `json:"monster_id"`
	CoinsAwarded int64          `json:"coins_awarded"`
	Items        map[string]int `json:"items,omitempty"`
}

// QuestCompleted reports that a quest reached its target amount.
type QuestCompleted struct {
	QuestID     string `json:"quest_id"`
	RewardCoins int64  `json:"reward_coins"`
}

// ItemsProduced aggregates what a gathering batch produced.
type ItemsProduced struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

func (LevelUp) Type() Type          { return TypeLevelUp }
func (SessionCompleted) Type() Type { return TypeSessionCompleted }
func (SessionFailed) Type() Type    { return TypeSessionFailed }
func (MonsterDefeated) Type() Type  { return TypeMonsterDefeated }
func (QuestCompleted) Type() Type   { return TypeQuestCompleted }
func (ItemsProduced) Type() Type    { return TypeItemsProduced }

// envelope is the wire shape: {"type": "...", "data": {...}}.
type envelope struct {
	Type Type  `json:"type"`
	Data Event `json:"data"`
}

// Marshal encodes e with its type tag for the websocket stream.
func Marshal(e Event) ([]byte, error) {
	return json.Marshal(envelope{Type: e.Type(), Data: e})
}
