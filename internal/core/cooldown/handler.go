package cooldown

import (
	"fmt"
	"strings"
)

// Handler describes how a trigger ability couples to the abilities it affects.
// The set of variants is closed: ChargedCooldown, MutualCooldown, CardDependency and
// ResourceGated. Consumers switch on the concrete type.
type Handler interface {
	Kind() Kind
	sealed()
}

// Kind names a handler variant as it is written in catalog data.
type Kind string

const (
	KindCharged  Kind = "charged"
	KindMutual   Kind = "mutual"
	KindCard     Kind = "card"
	KindResource Kind = "resource"
)

// ChargedCooldown gives the trigger MaxCharges uses, each recovering on its own timer.
type ChargedCooldown struct {
	MaxCharges int
}

// MutualCooldown makes a cast of the trigger start the cooldown of every affected ability.
type MutualCooldown struct{}

// CardDependency makes a cast of the trigger refresh the affected ability, binding it
// to the card just drawn.
type CardDependency struct{}

// ResourceGated ties the trigger to a gauge that accrues from the affected actions,
// auto-attacks included, instead of from elapsed time.
type ResourceGated struct {
	Cost          int
	GainPerAction int
	Max           int
	Initial       int
}

func (ChargedCooldown) Kind() Kind { return KindCharged }
func (MutualCooldown) Kind() Kind  { return KindMutual }
func (CardDependency) Kind() Kind  { return KindCard }
func (ResourceGated) Kind() Kind   { return KindResource }

func (ChargedCooldown) sealed() {}
func (MutualCooldown) sealed()  {}
func (CardDependency) sealed()  {}
func (ResourceGated) sealed()   {}

// Gauge is the declarative form of a resource gauge.
// A nil Initial starts the gauge full.
type Gauge struct {
	Cost    int
	Gain    int
	Max     int
	Initial *int
}

// HandlerSpec is a handler as it appears in catalog data, before validation.
type HandlerSpec struct {
	Kind       string
	MaxCharges int
	Gauge      *Gauge
}

// Build validates the spec and returns the matching variant.
func (s HandlerSpec) Build() (Handler, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s.Kind))) {
	case KindCharged:
		if s.MaxCharges < 1 {
			return nil, fmt.Errorf("charged handler needs maxCharges >= 1, got %d", s.MaxCharges)
		}
		return ChargedCooldown{MaxCharges: s.MaxCharges}, nil
	case KindMutual:
		return MutualCooldown{}, nil
	case KindCard:
		return CardDependency{}, nil
	case KindResource:
		if s.Gauge == nil {
			return nil, fmt.Errorf("resource handler needs a gauge")
		}
		g := *s.Gauge
		if g.Max <= 0 || g.Cost <= 0 || g.Cost > g.Max || g.Gain < 0 {
			return nil, fmt.Errorf("invalid gauge cost=%d gain=%d max=%d", g.Cost, g.Gain, g.Max)
		}
		initial := g.Max
		if g.Initial != nil {
			initial = clamp(*g.Initial, 0, g.Max)
		}
		return ResourceGated{Cost: g.Cost, GainPerAction: g.Gain, Max: g.Max, Initial: initial}, nil
	default:
		return nil, fmt.Errorf("unknown handler kind %q", s.Kind)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
