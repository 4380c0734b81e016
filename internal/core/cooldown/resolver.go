// Package cooldown resolves declarative cooldown couplings between abilities of a job:
// shared cooldowns, charge pools and resource-gated abilities.
package cooldown

import (
	"github.com/penwyp/go-pull-condenser/internal/core/canon"
)

// Entry couples a trigger ability to the abilities it affects.
type Entry struct {
	Job     canon.Key
	Trigger canon.Key
	Affects []canon.Key
	Handler Handler
}

// MaxCharges returns the charge count of a ChargedCooldown entry, 0 for other variants.
func (e Entry) MaxCharges() int {
	if h, ok := e.Handler.(ChargedCooldown); ok {
		return h.MaxCharges
	}
	return 0
}

// Names is the raw, uncanonicalized form of an Entry.
type Names struct {
	Job     string
	Trigger string
	Affects []string
}

// NewEntry canonicalizes names once and binds them to h.
func NewEntry(names Names, h Handler) Entry {
	affects := make([]canon.Key, 0, len(names.Affects))
	for _, a := range names.Affects {
		if k := canon.Normalize(a); !k.IsZero() {
			affects = append(affects, k)
		}
	}
	return Entry{
		Job:     canon.Normalize(names.Job),
		Trigger: canon.Normalize(names.Trigger),
		Affects: affects,
		Handler: h,
	}
}

type pairKey struct {
	job     canon.Key
	ability canon.Key
}

// Resolver indexes entries by trigger and by affected ability. It is read-only after
// construction and safe for concurrent use.
type Resolver struct {
	byTrigger  map[pairKey][]Entry
	byAffected map[pairKey][]Entry
	size       int
}

// NewResolver builds a resolver. Entries missing a job, trigger or handler are skipped.
func NewResolver(entries []Entry) *Resolver {
	r := &Resolver{
		byTrigger:  make(map[pairKey][]Entry),
		byAffected: make(map[pairKey][]Entry),
	}
	for _, e := range entries {
		if e.Job.IsZero() || e.Trigger.IsZero() || e.Handler == nil {
			continue
		}
		tk := pairKey{job: e.Job, ability: e.Trigger}
		r.byTrigger[tk] = append(r.byTrigger[tk], e)
		for _, a := range e.Affects {
			ak := pairKey{job: e.Job, ability: a}
			r.byAffected[ak] = append(r.byAffected[ak], e)
		}
		r.size++
	}
	return r
}

// Resolve returns the entries triggered by ability for job. Unknown pairs return nil.
func (r *Resolver) Resolve(job, ability canon.Key) []Entry {
	if r == nil {
		return nil
	}
	return r.byTrigger[pairKey{job: job, ability: ability}]
}

// Affecting returns the entries whose Affects list names ability for job.
func (r *Resolver) Affecting(job, ability canon.Key) []Entry {
	if r == nil {
		return nil
	}
	return r.byAffected[pairKey{job: job, ability: ability}]
}

// ResolveNames is Resolve on raw names.
func (r *Resolver) ResolveNames(job, ability string) []Entry {
	return r.Resolve(canon.Normalize(job), canon.Normalize(ability))
}

// Len returns the number of indexed entries.
func (r *Resolver) Len() int {
	if r == nil {
		return 0
	}
	return r.size
}
