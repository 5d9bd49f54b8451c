// Package combat resolves melee hit events into authoritative health changes
// and death notifications.
package combat

import (
	"time"

	"github.com/GuySandler/orbitaldaggers/internal/game/session"
)

// Result is the outcome of an accepted hit.
type Result struct {
	TargetID   string
	AttackerID string
	// HP is the target's health after the hit, clamped at 0.
	HP int
	// HPMax is the target's maximum health, unchanged by the hit.
	HPMax int
	// Died is true when this hit brought the target's health to 0.
	Died bool
}

// Resolver applies hit events against cooldown and health-state rules.
//
// The clock is injected so cooldown behaviour is testable without sleeping.
type Resolver struct {
	cooldown time.Duration
	now      func() time.Time
}

// NewResolver creates a Resolver with the given per-attacker cooldown window.
//
// Precondition: cooldown must be > 0. now may be nil, defaulting to time.Now.
func NewResolver(cooldown time.Duration, now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{cooldown: cooldown, now: now}
}

// ResolveHit validates and applies a hit from attacker on target.
//
// A hit is rejected (ok=false, no state change) when the target is on a
// different map, already has no health, or falls inside the attacker's
// cooldown window on this target. The window is per (attacker, target) pair:
// hits on other targets or from other attackers are unaffected.
//
// Postcondition: On ok=true the target's health is reduced by damage, floored
// at 0, and the acceptance time is recorded for the cooldown window. Death is
// reported at most once per target: a target at 0 health is un-hittable.
func (r *Resolver) ResolveHit(attacker, target *session.Session, damage int) (Result, bool) {
	if target.MapID != attacker.MapID {
		return Result{}, false
	}
	if target.State.HP <= 0 {
		return Result{}, false
	}

	now := r.now()
	if last, ok := target.LastHitFrom(attacker.ID); ok && now.Sub(last) < r.cooldown {
		return Result{}, false
	}
	target.RecordHit(attacker.ID, now)

	target.State.HP -= damage
	died := false
	if target.State.HP <= 0 {
		target.State.HP = 0
		died = true
	}

	return Result{
		TargetID:   target.ID,
		AttackerID: attacker.ID,
		HP:         target.State.HP,
		HPMax:      target.State.HPMax,
		Died:       died,
	}, true
}
