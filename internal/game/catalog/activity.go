package catalog

import "fmt"

// Activity defines a gathering or production action loop.
type Activity struct {
	ID            string `yaml:"id" json:"id"`
	Name          string `yaml:"name" json:"name"`
	Skill         string `yaml:"skill" json:"skill"`
	LevelRequired int    `yaml:"level_required" json:"level_required"`
	XPPerAction   int64  `yaml:"xp_per_action" json:"xp_per_action"`
	DurationMs    int64  `yaml:"duration_ms" json:"duration_ms"`
	// Produces is the item granted per completed action; empty means none.
	Produces        string `yaml:"produces" json:"produces"`
	ProduceQuantity int    `yaml:"produce_quantity" json:"produce_quantity"`
	// Consumes is the item spent per completed action; empty means none.
	Consumes string `yaml:"consumes" json:"consumes"`
}

// Yield returns the number of Produces items granted per action.
//
// Postcondition: Returns 0 when Produces is empty, otherwise >= 1.
func (a *Activity) Yield() int {
	if a.Produces == "" {
		return 0
	}
	if a.ProduceQuantity < 1 {
		return 1
	}
	return a.ProduceQuantity
}

// Validate checks that the activity satisfies basic invariants.
//
// Postcondition: Returns nil iff ID, Name and Skill are non-empty,
// DurationMs > 0 and XPPerAction >= 0.
func (a *Activity) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("activity: id must not be empty")
	}
	if a.Name == "" {
		return fmt.Errorf("activity %q: name must not be empty", a.ID)
	}
	if a.Skill == "" {
		return fmt.Errorf("activity %q: skill must not be empty", a.ID)
	}
	if a.DurationMs <= 0 {
		return fmt.Errorf("activity %q: duration_ms must be > 0", a.ID)
	}
	if a.XPPerAction < 0 {
		return fmt.Errorf("activity %q: xp_per_action must be >= 0", a.ID)
	}
	if a.ProduceQuantity < 0 {
		return fmt.Errorf("activity %q: produce_quantity must be >= 0", a.ID)
	}
	return nil
}
