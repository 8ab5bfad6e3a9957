package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/Neon681/bmt-idle-sub000/internal/game/catalog"
	"github.com/Neon681/bmt-idle-sub000/internal/game/event"
	"github.com/Neon681/bmt-idle-sub000/internal/game/leveling"
	"github.com/Neon681/bmt-idle-sub000/internal/game/training"
	"github.com/Neon681/bmt-idle-sub000/internal/gameserver"
)

func renderEvents(w io.Writer, events []event.Event) {
	for _, ev := range events {
		fmt.Fprintln(w, describeEvent(ev))
	}
}

func describeEvent(ev event.Event) string {
	switch e := ev.(type) {
	case event.LevelUp:
		return fmt.Sprintf("* %s advanced from level %d to %d", e.Skill, e.OldLevel, e.NewLevel)
	case event.ItemsProduced:
		return fmt.Sprintf("* produced %d x %s", e.Quantity, e.ItemID)
	case event.MonsterDefeated:
		return fmt.Sprintf("* defeated %s (+%d coins)", e.MonsterID, e.CoinsAwarded)
	case event.QuestCompleted:
		return fmt.Sprintf("* quest %s complete (+%d coins)", e.QuestID, e.RewardCoins)
	case event.SessionCompleted:
		return fmt.Sprintf("* %s session finished", e.Skill)
	case event.SessionFailed:
		if e.Resource != "" {
			return fmt.Sprintf("* session stopped: %s (%s)", e.Reason, e.Resource)
		}
		return fmt.Sprintf("* session stopped: %s", e.Reason)
	default:
		return fmt.Sprintf("* %s", ev.Type())
	}
}

func renderStatus(w io.Writer, snap gameserver.Snapshot, reg *catalog.Registry) {
	c := snap.State.Character
	fmt.Fprintf(w, "%s  HP %d/%d  coins %d\n\n", c.Name, c.CurrentHP, c.MaxHP, c.Coins)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SKILL\tLEVEL\tXP\tNEXT")
	ids := make([]string, 0, len(c.Skills))
	for id := range c.Skills {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		sk := c.Skills[id]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f%%\n", skillName(reg, id), sk.Level, sk.Experience,
			leveling.ProgressPercent(sk.Level, sk.Experience))
	}
	_ = tw.Flush()

	if len(c.Inventory) > 0 {
		fmt.Fprintln(w, "\nInventory:")
		items := make([]string, 0, len(c.Inventory))
		for id := range c.Inventory {
			items = append(items, id)
		}
		sort.Strings(items)
		for _, id := range items {
			fmt.Fprintf(w, "  %-20s %d\n", itemName(reg, id), c.Inventory[id])
		}
	}

	if len(c.Equipment) > 0 {
		fmt.Fprintln(w, "\nEquipped:")
		slots := make([]string, 0, len(c.Equipment))
		for slot := range c.Equipment {
			slots = append(slots, string(slot))
		}
		sort.Strings(slots)
		for _, slot := range slots {
			fmt.Fprintf(w, "  %-8s %s\n", slot, itemName(reg, c.Equipment[catalog.Slot(slot)].ItemID))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, describeSession(snap.State.Session, snap.Now))
}

func describeSession(s training.Session, nowMs int64) string {
	if s == nil {
		return "Idle."
	}
	remaining := time.Duration(s.Info().EndsAt()-nowMs) * time.Millisecond
	if remaining < 0 {
		remaining = 0
	}
	switch v := s.(type) {
	case *training.Gathering:
		return fmt.Sprintf("Training %s: %s, %d actions done, %s left.",
			v.Skill, v.ActivityID, v.Applied(v.StartedAt), remaining.Round(time.Second))
	case *training.Encounter:
		return fmt.Sprintf("Fighting %s #%d: %s, %s left.",
			v.Monster.Name, v.Foe.Spawn+1, v.Foe.HealthDescription(), remaining.Round(time.Second))
	default:
		return string(s.Kind())
	}
}

func renderXPTable(w io.Writer, maxLevel int) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "LEVEL\tXP\tDIFF\t")
	var prev int64
	for level := leveling.MinLevel; level <= maxLevel; level++ {
		xp := leveling.ExperienceForLevel(level)
		fmt.Fprintf(tw, "%d\t%d\t%d\t\n", level, xp, xp-prev)
		prev = xp
	}
	_ = tw.Flush()
}

func skillName(reg *catalog.Registry, id string) string {
	if s, ok := reg.Skill(id); ok {
		return s.Name
	}
	return id
}

func itemName(reg *catalog.Registry, id string) string {
	if it, ok := reg.Item(id); ok {
		return it.Name
	}
	return id
}
