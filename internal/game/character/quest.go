package character

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Neon681/bmt-idle-sub000/internal/game/catalog"
	"github.com/Neon681/bmt-idle-sub000/internal/game/event"
)

// ErrQuestActive is returned when accepting a quest already in the log.
var ErrQuestActive = errors.New("quest already accepted")

// AcceptQuest adds q to the quest log with zero progress.
func (c *Character) AcceptQuest(q *catalog.Quest) error {
	if _, ok := c.Quests[q.ID]; ok {
		return fmt.Errorf("accepting %q: %w", q.ID, ErrQuestActive)
	}
	c.Quests[q.ID] = &QuestProgress{
		QuestID:     q.ID,
		Target:      q.Target,
		Required:    q.Amount,
		RewardCoins: q.RewardCoins,
	}
	return nil
}

// AdvanceQuests adds n progress to every open quest targeting target. Quests
// reaching their requirement complete exactly once and pay their reward.
//
// Postcondition: Progress never exceeds Required.
func (c *Character) AdvanceQuests(target string, n int) []event.Event {
	if n <= 0 {
		return nil
	}
	ids := make([]string, 0, len(c.Quests))
	for id := range c.Quests {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var events []event.Event
	for _, id := range ids {
		q := c.Quests[id]
		if q.Completed || q.Target != target {
			continue
		}
		q.Progress += n
		if q.Progress < q.Required {
			continue
		}
		q.Progress = q.Required
		q.Completed = true
		c.AddCoins(q.RewardCoins)
		events = append(events, event.QuestCompleted{QuestID: q.QuestID, RewardCoins: q.RewardCoins})
	}
	return events
}
