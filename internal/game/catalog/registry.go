package catalog

import (
	"fmt"
	"sort"
)

// Registry holds all loaded templates indexed by ID. It is read-only after
// loading and safe for concurrent reads.
type Registry struct {
	skills     map[string]*Skill
	items      map[string]*Item
	monsters   map[string]*Monster
	activities map[string]*Activity
	quests     map[string]*Quest
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		skills:     make(map[string]*Skill),
		items:      make(map[string]*Item),
		monsters:   make(map[string]*Monster),
		activities: make(map[string]*Activity),
		quests:     make(map[string]*Quest),
	}
}

// RegisterSkill validates s and adds it to the registry.
//
// Postcondition: Skill(s.ID) returns s; returns error if invalid or already registered.
func (r *Registry) RegisterSkill(s *Skill) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if _, exists := r.skills[s.ID]; exists {
		return fmt.Errorf("catalog: skill ID %q already registered", s.ID)
	}
	r.skills[s.ID] = s
	return nil
}

// RegisterItem validates i and adds it to the registry.
func (r *Registry) RegisterItem(i *Item) error {
	if err := i.Validate(); err != nil {
		return err
	}
	if _, exists := r.items[i.ID]; exists {
		return fmt.Errorf("catalog: item ID %q already registered", i.ID)
	}
	r.items[i.ID] = i
	return nil
}

// RegisterMonster validates m and adds it to the registry.
func (r *Registry) RegisterMonster(m *Monster) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if _, exists := r.monsters[m.ID]; exists {
		return fmt.Errorf("catalog: monster ID %q already registered", m.ID)
	}
	r.monsters[m.ID] = m
	return nil
}

// RegisterActivity validates a and adds it to the registry.
func (r *Registry) RegisterActivity(a *Activity) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if _, exists := r.activities[a.ID]; exists {
		return fmt.Errorf("catalog: activity ID %q already registered", a.ID)
	}
	r.activities[a.ID] = a
	return nil
}

// RegisterQuest validates q and adds it to the registry.
func (r *Registry) RegisterQuest(q *Quest) error {
	if err := q.Validate(); err != nil {
		return err
	}
	if _, exists := r.quests[q.ID]; exists {
		return fmt.Errorf("catalog: quest ID %q already registered", q.ID)
	}
	r.quests[q.ID] = q
	return nil
}

// Skill returns the skill for id and whether it was found.
func (r *Registry) Skill(id string) (*Skill, bool) {
	s, ok := r.skills[id]
	return s, ok
}

// Item returns the item for id and whether it was found.
func (r *Registry) Item(id string) (*Item, bool) {
	i, ok := r.items[id]
	return i, ok
}

// Monster returns the monster for id and whether it was found.
func (r *Registry) Monster(id string) (*Monster, bool) {
	m, ok := r.monsters[id]
	return m, ok
}

// Activity returns the activity for id and whether it was found.
func (r *Registry) Activity(id string) (*Activity, bool) {
	a, ok := r.activities[id]
	return a, ok
}

// Quest returns the quest for id and whether it was found.
func (r *Registry) Quest(id string) (*Quest, bool) {
	q, ok := r.quests[id]
	return q, ok
}

// SkillIDs returns every registered skill ID in sorted order.
func (r *Registry) SkillIDs() []string {
	out := make([]string, 0, len(r.skills))
	for id := range r.skills {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Activities returns every registered activity sorted by ID.
func (r *Registry) Activities() []*Activity {
	out := make([]*Activity, 0, len(r.activities))
	for _, a := range r.activities {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Monsters returns every registered monster sorted by ID.
func (r *Registry) Monsters() []*Monster {
	out := make([]*Monster, 0, len(r.monsters))
	for _, m := range r.monsters {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Validate checks cross-references between templates.
//
// Postcondition: Returns nil iff every combat skill is registered, every
// activity names a registered skill and registered produced/consumed items,
// every loot drop names a registered item, every item xp bonus names a
// registered skill and every quest targets a registered activity or monster.
func (r *Registry) Validate() error {
	for _, id := range CombatSkills {
		if _, ok := r.skills[id]; !ok {
			return fmt.Errorf("catalog: combat skill %q is not registered", id)
		}
	}
	for _, a := range r.activities {
		if _, ok := r.skills[a.Skill]; !ok {
			return fmt.Errorf("catalog: activity %q references unknown skill %q", a.ID, a.Skill)
		}
		if a.Produces != "" {
			if _, ok := r.items[a.Produces]; !ok {
				return fmt.Errorf("catalog: activity %q produces unknown item %q", a.ID, a.Produces)
			}
		}
		if a.Consumes != "" {
			if _, ok := r.items[a.Consumes]; !ok {
				return fmt.Errorf("catalog: activity %q consumes unknown item %q", a.ID, a.Consumes)
			}
		}
	}
	for _, m := range r.monsters {
		for _, drop := range m.Loot.Items {
			if _, ok := r.items[drop.ItemID]; !ok {
				return fmt.Errorf("catalog: monster %q drops unknown item %q", m.ID, drop.ItemID)
			}
		}
	}
	for _, i := range r.items {
		for skill := range i.XPBonus {
			if _, ok := r.skills[skill]; !ok {
				return fmt.Errorf("catalog: item %q has xp_bonus for unknown skill %q", i.ID, skill)
			}
		}
	}
	for _, q := range r.quests {
		_, isActivity := r.activities[q.Target]
		_, isMonster := r.monsters[q.Target]
		if !isActivity && !isMonster {
			return fmt.Errorf("catalog: quest %q targets unknown activity or monster %q", q.ID, q.Target)
		}
	}
	return nil
}
