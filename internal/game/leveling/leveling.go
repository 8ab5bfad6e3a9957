// Package leveling maps accumulated experience to skill levels and back using
// the cumulative-threshold curve.
package leveling

import (
	"math"
	"sort"
	"sync"
)

// MinLevel is the lowest level any skill can hold.
const MinLevel = 1

// maxIncrement bounds a step that still converts to int64 exactly.
const maxIncrement = float64(1 << 62)

var (
	tableOnce  sync.Once
	thresholds []int64
)

// table holds every threshold whose point total fits in int64. The curve
// stops at the last such level.
func table() []int64 {
	tableOnce.Do(func() {
		thresholds = []int64{0, 0}
		var points int64
		for i := 1; ; i++ {
			f := math.Floor(float64(i) + 300*math.Pow(2, float64(i)/7))
			if f >= maxIncrement {
				break
			}
			inc := int64(f)
			if points > math.MaxInt64-inc {
				break
			}
			points += inc
			thresholds = append(thresholds, points/4)
		}
	})
	return thresholds
}

// MaxLevel returns the highest level the curve can represent.
func MaxLevel() int {
	return len(table()) - 1
}

// ExperienceForLevel returns the minimum experience required to hold level.
//
// Precondition: level >= 1; values below 1 are treated as 1.
// Postcondition: ExperienceForLevel(1) == 0; strictly increasing up to
// MaxLevel; math.MaxInt64 above it.
func ExperienceForLevel(level int) int64 {
	if level <= MinLevel {
		return 0
	}
	t := table()
	if level >= len(t) {
		return math.MaxInt64
	}
	return t[level]
}

// LevelForExperience returns the largest level L in [1, MaxLevel] with
// ExperienceForLevel(L) <= xp.
//
// Postcondition: monotonic non-decreasing in xp; negative xp yields MinLevel.
func LevelForExperience(xp int64) int {
	if xp <= 0 {
		return MinLevel
	}
	t := table()
	// First level above MinLevel whose threshold exceeds xp.
	above := sort.Search(len(t)-MinLevel-1, func(i int) bool {
		return t[i+MinLevel+1] > xp
	})
	return above + MinLevel
}

// ProgressPercent reports how far xp has advanced from level toward level+1,
// clamped to [0, 100]. A level with no successor reports 100.
func ProgressPercent(level int, xp int64) float64 {
	if level < MinLevel {
		level = MinLevel
	}
	floor := ExperienceForLevel(level)
	next := ExperienceForLevel(level + 1)
	if next <= floor {
		return 100
	}
	pct := (float64(xp) - float64(floor)) / float64(next-floor) * 100
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}
