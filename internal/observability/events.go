package observability

import (
	"go.uber.org/zap"

	"github.com/Neon681/bmt-idle-sub000/internal/game/event"
)

// EventFields returns structured log fields describing ev.
//
// Postcondition: the first field is always the event type.
func EventFields(ev event.Event) []zap.Field {
	fields := []zap.Field{zap.String("event", string(ev.Type()))}
	switch e := ev.(type) {
	case event.LevelUp:
		fields = append(fields,
			zap.String("skill", e.Skill),
			zap.Int("old_level", e.OldLevel),
			zap.Int("level", e.NewLevel),
		)
	case event.SessionCompleted:
		fields = append(fields, zap.String("session_id", e.SessionID), zap.String("skill", e.Skill))
	case event.SessionFailed:
		fields = append(fields,
			zap.String("session_id", e.SessionID),
			zap.String("reason", string(e.Reason)),
		)
		if e.Resource != "" {
			fields = append(fields, zap.String("resource", e.Resource))
		}
	case event.MonsterDefeated:
		fields = append(fields,
			zap.String("monster", e.MonsterID),
			zap.Int64("coins", e.CoinsAwarded),
			zap.Any("items", e.Items),
		)
	case event.QuestCompleted:
		fields = append(fields, zap.String("quest", e.QuestID), zap.Int64("reward_coins", e.RewardCoins))
	case event.ItemsProduced:
		fields = append(fields, zap.String("item", e.ItemID), zap.Int("quantity", e.Quantity))
	}
	return fields
}
