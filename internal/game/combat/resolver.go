package combat

import "github.com/Neon681/bmt-idle-sub000/internal/game/dice"

const (
	// opposedRollSides is the width of the uniform [0, 19] swing added to each side.
	opposedRollSides = 20
	// FavouredHitChance applies when the attacker wins the opposed roll.
	FavouredHitChance = 0.8
	// UnfavouredHitChance applies on a tie or a lost opposed roll.
	UnfavouredHitChance = 0.4
)

// AttackResult holds the outcome of a single attack action.
type AttackResult struct {
	// AttackerRoll and DefenderRoll are the opposed totals including stats.
	AttackerRoll int
	DefenderRoll int
	Hit          bool
	// Damage is 0 on a miss.
	Damage int
}

// AccuracyRoll performs the opposed roll and the final hit check.
//
// Draw order: attacker Intn(20), defender Intn(20), one Float64.
func AccuracyRoll(src dice.Source, offense, defence int) bool {
	hit, _, _ := accuracy(src, offense, defence)
	return hit
}

func accuracy(src dice.Source, offense, defence int) (hit bool, atk, def int) {
	atk = offense + src.Intn(opposedRollSides)
	def = defence + src.Intn(opposedRollSides)
	chance := UnfavouredHitChance
	if atk > def {
		chance = FavouredHitChance
	}
	return dice.Chance(src, chance), atk, def
}

// MaxHit returns the largest damage a hit at strength can deal.
//
// Postcondition: Returns >= 1 for strength >= 0.
func MaxHit(strength int) int {
	if strength < 0 {
		strength = 0
	}
	return strength/4 + 1
}

// DamageRoll returns a uniform damage value in [1, MaxHit(strength)].
// No draw is made when MaxHit is 1.
func DamageRoll(src dice.Source, strength int) int {
	return dice.Between(src, 1, MaxHit(strength))
}

// ResolveAttack runs one attack of attacker against defender. Damage is only
// rolled on a hit.
//
// Precondition: src must be non-nil.
// Postcondition: Damage == 0 iff !Hit; otherwise 1 <= Damage <= MaxHit(attacker.Strength).
func ResolveAttack(src dice.Source, attacker, defender Stats) AttackResult {
	hit, atk, def := accuracy(src, attacker.Attack, defender.Defence)
	res := AttackResult{AttackerRoll: atk, DefenderRoll: def, Hit: hit}
	if hit {
		res.Damage = DamageRoll(src, attacker.Strength)
	}
	return res
}
