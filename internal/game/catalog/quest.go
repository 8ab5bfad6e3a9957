package catalog

import "fmt"

// Quest asks the player to complete Amount actions of an activity or kills of
// a monster, named by Target.
type Quest struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Target      string `yaml:"target" json:"target"`
	Amount      int    `yaml:"amount" json:"amount"`
	RewardCoins int64  `yaml:"reward_coins" json:"reward_coins"`
}

// Validate checks that the quest satisfies basic invariants.
func (q *Quest) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("quest: id must not be empty")
	}
	if q.Name == "" {
		return fmt.Errorf("quest %q: name must not be empty", q.ID)
	}
	if q.Target == "" {
		return fmt.Errorf("quest %q: target must not be empty", q.ID)
	}
	if q.Amount < 1 {
		return fmt.Errorf("quest %q: amount must be >= 1", q.ID)
	}
	if q.RewardCoins < 0 {
		return fmt.Errorf("quest %q: reward_coins must be >= 0", q.ID)
	}
	return nil
}
