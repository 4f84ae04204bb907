// Package appropriate decides whether a memory may surface in the current
// situation, independent of how relevant it is. Rules run in a fixed order
// and the chain short-circuits on the first failure.
package appropriate

import (
	"fmt"
	"strings"

	"github.com/haasonsaas/memorable/pkg/models"
)

// Result is the outcome of running the rule chain for one candidate.
type Result struct {
	Allowed bool `json:"allowed"`

	// Rule names the rule that blocked the candidate, empty on pass.
	Rule string `json:"rule,omitempty"`

	Reason string `json:"reason,omitempty"`

	// Alternative suggests a safer way to surface the content, when one
	// exists (e.g. "wait for a private setting").
	Alternative string `json:"alternative,omitempty"`
}

// Rule is one judgment in the chain.
type Rule interface {
	Name() string
	Evaluate(cand models.MemoryCandidate, ctx models.SurfacingContext) Result
}

// Chain applies rules in order, short-circuiting on the first block.
type Chain struct {
	rules []Rule
}

// NewChain builds the standard chain: privacy tier, physical location,
// device trust, bystanders, emotional state. The order is part of the
// contract; earlier rules are cheaper and stricter.
func NewChain() *Chain {
	return &Chain{rules: []Rule{
		privacyTierRule{},
		locationRule{},
		deviceTrustRule{},
		bystanderRule{},
		emotionalStateRule{},
	}}
}

// Evaluate runs the chain for one candidate.
func (c *Chain) Evaluate(cand models.MemoryCandidate, ctx models.SurfacingContext) Result {
	for _, rule := range c.rules {
		if res := rule.Evaluate(cand, ctx); !res.Allowed {
			res.Rule = rule.Name()
			return res
		}
	}
	return Result{Allowed: true}
}

// Filtered pairs a passing candidate with its filter result, kept for
// observability.
type Filtered struct {
	Candidate models.MemoryCandidate `json:"candidate"`
	Result    Result                 `json:"result"`
}

// FilterAll applies the chain to a list and returns only the passing
// subset, each annotated with its result.
func (c *Chain) FilterAll(cands []models.MemoryCandidate, ctx models.SurfacingContext) []Filtered {
	passed := make([]Filtered, 0, len(cands))
	for _, cand := range cands {
		if res := c.Evaluate(cand, ctx); res.Allowed {
			passed = append(passed, Filtered{Candidate: cand, Result: res})
		}
	}
	return passed
}

// privacyTierRule blocks elevated-sensitivity tiers from implicit
// surfacing. Tier-2/3 content only surfaces on an explicit, specific ask.
type privacyTierRule struct{}

func (privacyTierRule) Name() string { return "privacy_tier" }

func (privacyTierRule) Evaluate(cand models.MemoryCandidate, ctx models.SurfacingContext) Result {
	if cand.PrivacyTier >= models.TierPersonal && !ctx.WasExplicitlyRequested {
		return Result{
			Reason:      fmt.Sprintf("tier-%d content requires an explicit request", cand.PrivacyTier),
			Alternative: "surface only when the user asks for it specifically",
		}
	}
	return Result{Allowed: true}
}

// locationRule blocks sensitive content in public and office settings.
type locationRule struct{}

func (locationRule) Name() string { return "location" }

func (locationRule) Evaluate(cand models.MemoryCandidate, ctx models.SurfacingContext) Result {
	exposed := ctx.Location == models.LocationPublic || ctx.Location == models.LocationOffice
	if exposed && hasAny(cand, models.SensitivityIntimate, models.SensitivityMedical, models.SensitivityFinancial) {
		return Result{
			Reason:      fmt.Sprintf("sensitive content blocked in %s location", ctx.Location),
			Alternative: "wait for a private setting",
		}
	}
	if ctx.Location == models.LocationOffice && hasAny(cand, models.SensitivityCareer) {
		return Result{
			Reason:      "career-sensitive content blocked at the office",
			Alternative: "wait until the user leaves the office",
		}
	}
	return Result{Allowed: true}
}

// deviceTrustRule blocks elevated-tier and sensitive content on shared or
// employer-controlled devices.
type deviceTrustRule struct{}

func (deviceTrustRule) Name() string { return "device_trust" }

func (deviceTrustRule) Evaluate(cand models.MemoryCandidate, ctx models.SurfacingContext) Result {
	if ctx.Device != models.DeviceShared && ctx.Device != models.DeviceEmployer {
		return Result{Allowed: true}
	}
	if cand.PrivacyTier >= models.TierPersonal || len(cand.Sensitivity) > 0 {
		return Result{
			Reason:      fmt.Sprintf("sensitive content blocked on %s device", ctx.Device),
			Alternative: "deliver on a trusted personal device",
		}
	}
	return Result{Allowed: true}
}

// bystanderRule applies role-based blocks for people present.
type bystanderRule struct{}

func (bystanderRule) Name() string { return "bystanders" }

func (bystanderRule) Evaluate(cand models.MemoryCandidate, ctx models.SurfacingContext) Result {
	for _, b := range ctx.Bystanders {
		switch b.Role {
		case models.RoleBoss:
			if hasAny(cand, models.SensitivityCareer) {
				return Result{
					Reason:      "career-sensitive content blocked while a boss is present",
					Alternative: "resurface after the meeting",
				}
			}
		case models.RoleChild:
			if hasAny(cand, models.SensitivityAdult, models.SensitivityFinancial) {
				return Result{Reason: "content unsuitable while a child is present"}
			}
		case models.RoleStranger:
			if cand.PrivacyTier > models.TierOpen {
				return Result{
					Reason:      "non-public content blocked while a stranger is present",
					Alternative: "wait until the stranger leaves",
				}
			}
		}

		// Content intimately concerning a present person stays hidden
		// while they are in the room.
		if b.Name != "" && concernsPerson(cand, b.Name) && cand.PrivacyTier >= models.TierPersonal {
			return Result{
				Reason:      fmt.Sprintf("content about %s blocked while they are present", b.Name),
				Alternative: "resurface once they have left",
			}
		}
	}
	return Result{Allowed: true}
}

// emotionalStateRule suppresses distress-inducing content while the user
// is highly distressed. Distress detection itself lives upstream; this is
// the suppression hook.
type emotionalStateRule struct{}

func (emotionalStateRule) Name() string { return "emotional_state" }

func (emotionalStateRule) Evaluate(cand models.MemoryCandidate, ctx models.SurfacingContext) Result {
	if ctx.UserDistressed && hasAny(cand, models.SensitivityDistress) {
		return Result{
			Reason:      "distress-inducing content suppressed while the user is distressed",
			Alternative: "resurface once the user has settled",
		}
	}
	return Result{Allowed: true}
}

func hasAny(cand models.MemoryCandidate, tags ...models.Sensitivity) bool {
	for _, have := range cand.Sensitivity {
		for _, want := range tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

func concernsPerson(cand models.MemoryCandidate, name string) bool {
	if strings.EqualFold(cand.Contact, name) {
		return true
	}
	for _, p := range cand.People {
		if strings.EqualFold(p, name) {
			return true
		}
	}
	return false
}
