// Package balance implements the Game-Balance Engine (§4.F): the
// cross-cutting validator every state-changing request passes through
// before the Action-Point Ledger reserves a budget for it.
//
// Grounded on the source repository's ad-hoc per-package bounds checks,
// generalized into one closed-allow-list validator; exploit heuristics use
// golang.org/x/time/rate token buckets the way Vitadek-OwnWorld's
// getLimiter(ip) idiom rate-limits per caller key.
package balance

import (
	"time"

	"github.com/stellarforge/empirecore/buildings"
	"golang.org/x/time/rate"
)

// ActionType is the closed allow-list of state-changing action kinds
// (§4.F "Action type is in a closed allow-list").
type ActionType string

const (
	ActionRenameEmpire      ActionType = "rename_empire"
	ActionQueueBuilding     ActionType = "queue_building"
	ActionFleetCompose      ActionType = "fleet_compose"
	ActionFleetMove         ActionType = "fleet_move"
	ActionInitiateCombat    ActionType = "initiate_combat"
	ActionRetreat           ActionType = "retreat"
	ActionDiplomacyPropose  ActionType = "diplomacy_propose"
	ActionDiplomacyRespond  ActionType = "diplomacy_respond"
	ActionExploreSector     ActionType = "explore_sector"
	ActionColonize          ActionType = "colonize"
	ActionAbandonColony     ActionType = "abandon_colony"
	ActionProposeTradeRoute ActionType = "propose_trade_route"
	ActionAdvanceTurn       ActionType = "advance_turn"
)

var allowedActions = map[ActionType]struct{}{
	ActionRenameEmpire: {}, ActionQueueBuilding: {}, ActionFleetCompose: {}, ActionFleetMove: {},
	ActionInitiateCombat: {}, ActionRetreat: {}, ActionDiplomacyPropose: {}, ActionDiplomacyRespond: {},
	ActionExploreSector: {}, ActionColonize: {}, ActionAbandonColony: {}, ActionProposeTradeRoute: {},
	ActionAdvanceTurn: {},
}

// IsKnownAction reports whether t is in the closed allow-list.
func IsKnownAction(t ActionType) bool {
	_, ok := allowedActions[t]
	return ok
}

// Severity grades a violation (§4.F result object "violations[severity]").
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityHigh    Severity = "high"
)

// Violation is one failed or flagged check.
type Violation struct {
	Code     string
	Message  string
	Severity Severity
}

// Result is the outcome of Validate (§4.F: "{valid, violations[severity],
// warnings, adjusted_costs}").
type Result struct {
	Valid        bool
	Violations   []Violation
	Warnings     []Violation
	AdjustedCost int64
}

// Quantity caps (§4.F).
const (
	MaxFleetsPerEmpire  = 50
	MaxShipsPerFleet    = 1000
	MaxShipsPerEmpire   = 10000
	MaxResourceCost     = 1_000_000
)

// Time-between-actions floors (§4.F), keyed by action class.
const (
	AttackCooldown      = 5 * time.Minute
	ColonizationCooldown = 30 * time.Minute
	DiplomacyCooldown   = 2 * time.Minute
)

// cooldownFor returns the time-between-actions floor for t, or zero if t
// has no cooldown class.
func cooldownFor(t ActionType) time.Duration {
	switch t {
	case ActionInitiateCombat:
		return AttackCooldown
	case ActionColonize:
		return ColonizationCooldown
	case ActionDiplomacyPropose, ActionDiplomacyRespond:
		return DiplomacyCooldown
	default:
		return 0
	}
}

// ScaledCostMultiplier implements `1 + max(0, colonies-5)*0.1`, capped at
// 2.0 (§4.F).
func ScaledCostMultiplier(colonies int) float64 {
	extra := colonies - 5
	if extra < 0 {
		extra = 0
	}
	m := 1 + float64(extra)*0.1
	if m > 2.0 {
		return 2.0
	}
	return m
}

// Request bundles everything Validate needs to check one action.
type Request struct {
	Action ActionType

	ResourceCost    int64
	EmpireResources int64

	FleetCount int
	ShipsInFleet int
	TotalShips int

	BuildingType  buildings.BuildingType
	BuildingCount int

	LastActionOfClass time.Time
	Now               time.Time

	Colonies int
}

// Validate runs every §4.F check against req and returns the result
// object. Hard violations (cooldown, cap, affordability, unknown action)
// set Valid=false; exploit heuristics are always warnings except where
// noted "high".
func Validate(req Request) Result {
	var result Result
	result.Valid = true

	if !IsKnownAction(req.Action) {
		result.Valid = false
		result.Violations = append(result.Violations, Violation{Code: "unknown_action", Message: "action type is not in the allow-list", Severity: SeverityHigh})
		return result
	}

	if req.ResourceCost < 0 || req.ResourceCost > MaxResourceCost {
		result.Valid = false
		result.Violations = append(result.Violations, Violation{Code: "cost_out_of_bounds", Message: "resource cost outside [0, 1000000]", Severity: SeverityHigh})
	}

	multiplier := ScaledCostMultiplier(req.Colonies)
	adjustedCost := int64(float64(req.ResourceCost) * multiplier)
	result.AdjustedCost = adjustedCost

	if adjustedCost > req.EmpireResources {
		result.Valid = false
		result.Violations = append(result.Violations, Violation{Code: "insufficient_resources", Message: "empire cannot afford the adjusted cost", Severity: SeverityHigh})
	}

	if req.FleetCount > MaxFleetsPerEmpire {
		result.Valid = false
		result.Violations = append(result.Violations, Violation{Code: "fleet_cap_exceeded", Severity: SeverityHigh})
	}
	if req.ShipsInFleet > MaxShipsPerFleet {
		result.Valid = false
		result.Violations = append(result.Violations, Violation{Code: "ships_per_fleet_cap_exceeded", Severity: SeverityHigh})
	}
	if req.TotalShips > MaxShipsPerEmpire {
		result.Valid = false
		result.Violations = append(result.Violations, Violation{Code: "total_ships_cap_exceeded", Severity: SeverityHigh})
	}

	if req.BuildingType != "" {
		if effect, ok := buildings.Effects[req.BuildingType]; ok && req.BuildingCount > effect.MaxCount {
			result.Valid = false
			result.Violations = append(result.Violations, Violation{Code: "building_cap_exceeded", Severity: SeverityHigh})
		}
	}

	if cooldown := cooldownFor(req.Action); cooldown > 0 && !req.LastActionOfClass.IsZero() {
		if req.Now.Sub(req.LastActionOfClass) < cooldown {
			result.Valid = false
			result.Violations = append(result.Violations, Violation{Code: "action_cooldown", Message: "time-between-actions floor not met", Severity: SeverityHigh})
		}
	}

	return result
}

// ExploitLimiter holds one rate.Limiter per (player_id, action_class) key,
// flagging actions-per-minute > 10 as a warning (not a hard reject, per
// §4.F) rather than rejecting outright.
type ExploitLimiter struct {
	limiters map[string]*rate.Limiter
}

// NewExploitLimiter builds an empty per-key limiter set.
func NewExploitLimiter() *ExploitLimiter {
	return &ExploitLimiter{limiters: make(map[string]*rate.Limiter)}
}

// actionsPerMinuteThreshold is the §4.F "actions-per-minute > 10" heuristic
// threshold, expressed as a token bucket: burst 10, refill 10/minute.
const actionsPerMinuteThreshold = 10

func (l *ExploitLimiter) limiterFor(key string) *rate.Limiter {
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(rate.Every(time.Minute/actionsPerMinuteThreshold), actionsPerMinuteThreshold)
		l.limiters[key] = lim
	}
	return lim
}

// CheckRate records one action for key and reports whether it exceeds the
// actions-per-minute heuristic. A true result is a Warning, never a hard
// reject, per §4.F.
func (l *ExploitLimiter) CheckRate(key string) bool {
	return !l.limiterFor(key).Allow()
}

// ResourceTransferVolumeThreshold is the §4.F per-turn resource-transfer
// volume exploit heuristic.
const ResourceTransferVolumeThreshold = 100_000

// QuartileRatioThreshold flags suspiciously perfect resource ratios (§4.F
// "perfect-quartile resource ratios above a threshold"). Not quantified in
// the distilled spec text; 0.95 treats anything within 5% of an exact
// quarter-split as suspicious.
const QuartileRatioThreshold = 0.95
