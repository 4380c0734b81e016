package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/penwyp/go-pull-condenser/internal/core/attribution"
	"github.com/penwyp/go-pull-condenser/internal/core/availability"
	"github.com/penwyp/go-pull-condenser/internal/core/canon"
	"github.com/penwyp/go-pull-condenser/internal/core/cooldown"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the game data the analysis runs against: which buffs to ignore, each
// job's mitigation abilities, buff metadata and the cooldown dependency table.
// Changing job behavior is a data change here, not a code change.
type Catalog struct {
	IgnoredBuffs []string                 `yaml:"ignoredBuffs"`
	Jobs         map[string][]AbilitySpec `yaml:"jobs"`
	// Selections picks, per mutually-exclusive group, the ability brought to a fight.
	Selections map[string]string `yaml:"selections"`
	// EncounterSelections overrides Selections for fights of one encounter ID.
	EncounterSelections map[int]map[string]string `yaml:"encounterSelections,omitempty"`
	Buffs               []BuffSpec                `yaml:"buffs"`
	Dependencies        []DependencySpec          `yaml:"dependencies"`
}

// AbilitySpec is one mitigation ability of a job.
type AbilitySpec struct {
	Name     string        `yaml:"name"`
	Cooldown time.Duration `yaml:"cooldown"`
	Charges  int           `yaml:"charges,omitempty"`
	Group    string        `yaml:"group,omitempty"`
}

// BuffSpec is metadata about one buff.
type BuffSpec struct {
	Name    string   `yaml:"name"`
	Ability string   `yaml:"ability,omitempty"`
	Jobs    []string `yaml:"jobs,omitempty"`
}

// DependencySpec is one row of the cooldown dependency table.
type DependencySpec struct {
	Job        string     `yaml:"job"`
	Trigger    string     `yaml:"trigger"`
	Affects    []string   `yaml:"affects,omitempty"`
	Handler    string     `yaml:"handler"`
	MaxCharges int        `yaml:"maxCharges,omitempty"`
	Gauge      *GaugeSpec `yaml:"gauge,omitempty"`
}

// GaugeSpec describes the gauge of a resource-gated ability.
type GaugeSpec struct {
	Cost    int  `yaml:"cost"`
	Gain    int  `yaml:"gain"`
	Max     int  `yaml:"max"`
	Initial *int `yaml:"initial,omitempty"`
}

// ErrEmptyCatalog indicates a catalog that defines no jobs.
var ErrEmptyCatalog = errors.New("catalog defines no jobs")

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(bytes.NewReader(defaultCatalog))
}

// LoadCatalog reads a catalog file. An empty path returns the built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := ParseCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes and validates a catalog. Unknown keys are rejected.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyCatalog
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every ability and dependency is well formed.
func (c *Catalog) Validate() error {
	if len(c.Jobs) == 0 {
		return ErrEmptyCatalog
	}

	for _, job := range c.jobNames() {
		for i, a := range c.Jobs[job] {
			if canon.Normalize(a.Name).IsZero() {
				return fmt.Errorf("jobs.%s[%d]: missing name", job, i)
			}
			if a.Cooldown < 0 {
				return fmt.Errorf("jobs.%s.%s: negative cooldown", job, a.Name)
			}
			if a.Charges < 0 {
				return fmt.Errorf("jobs.%s.%s: negative charges", job, a.Name)
			}
		}
	}

	for encounter, selections := range c.EncounterSelections {
		for group, ability := range selections {
			if canon.Normalize(group).IsZero() || canon.Normalize(ability).IsZero() {
				return fmt.Errorf("encounterSelections.%d: group and ability are required", encounter)
			}
		}
	}

	for i, d := range c.Dependencies {
		if canon.Normalize(d.Job).IsZero() || canon.Normalize(d.Trigger).IsZero() {
			return fmt.Errorf("dependencies[%d]: job and trigger are required", i)
		}
		if _, err := d.handlerSpec().Build(); err != nil {
			return fmt.Errorf("dependencies[%d] (%s %s): %w", i, d.Job, d.Trigger, err)
		}
	}

	return nil
}

// SelectionsFor returns the group selections of one fight: the catalog defaults,
// then the encounter's overrides, then the fight's own. Groups match canonically.
func (c *Catalog) SelectionsFor(encounterID int, fight map[string]string) map[string]string {
	merged := make(map[canon.Key]string, len(c.Selections))
	groups := make(map[canon.Key]string, len(c.Selections))
	apply := func(selections map[string]string) {
		for group, ability := range selections {
			key := canon.Normalize(group)
			if key.IsZero() {
				continue
			}
			if _, ok := groups[key]; !ok {
				groups[key] = group
			}
			merged[key] = ability
		}
	}
	apply(c.Selections)
	apply(c.EncounterSelections[encounterID])
	apply(fight)

	out := make(map[string]string, len(merged))
	for key, ability := range merged {
		out[groups[key]] = ability
	}
	return out
}

// IgnoredSet returns the ignore list as a canonical set.
func (c *Catalog) IgnoredSet() canon.Set {
	return canon.NewSet(c.IgnoredBuffs...)
}

// Abilities converts the job table for the availability tracker.
func (c *Catalog) Abilities() map[string][]availability.Ability {
	out := make(map[string][]availability.Ability, len(c.Jobs))
	for job, specs := range c.Jobs {
		abilities := make([]availability.Ability, len(specs))
		for i, s := range specs {
			abilities[i] = availability.Ability{
				Name:     s.Name,
				Cooldown: s.Cooldown,
				Charges:  s.Charges,
				Group:    s.Group,
			}
		}
		out[job] = abilities
	}
	return out
}

// BuffMeta converts buff metadata for the attribution engine.
func (c *Catalog) BuffMeta() []attribution.Buff {
	out := make([]attribution.Buff, len(c.Buffs))
	for i, b := range c.Buffs {
		out[i] = attribution.Buff{Name: b.Name, Ability: b.Ability, Jobs: b.Jobs}
	}
	return out
}

// Resolver builds the cooldown dependency resolver.
func (c *Catalog) Resolver() (*cooldown.Resolver, error) {
	entries := make([]cooldown.Entry, 0, len(c.Dependencies))
	for encounter, selections := range c.EncounterSelections {
		for group, ability := range selections {
			if canon.Normalize(group).IsZero() || canon.Normalize(ability).IsZero() {
				return nil, fmt.Errorf("encounterSelections.%d: group and ability are required", encounter)
			}
		}
	}

	for i, d := range c.Dependencies {
		h, err := d.handlerSpec().Build()
		if err != nil {
			return nil, fmt.Errorf("dependencies[%d]: %w", i, err)
		}
		entries = append(entries, cooldown.NewEntry(cooldown.Names{
			Job:     d.Job,
			Trigger: d.Trigger,
			Affects: d.Affects,
		}, h))
	}
	return cooldown.NewResolver(entries), nil
}

func (d DependencySpec) handlerSpec() cooldown.HandlerSpec {
	spec := cooldown.HandlerSpec{Kind: d.Handler, MaxCharges: d.MaxCharges}
	if d.Gauge != nil {
		spec.Gauge = &cooldown.Gauge{
			Cost:    d.Gauge.Cost,
			Gain:    d.Gauge.Gain,
			Max:     d.Gauge.Max,
			Initial: d.Gauge.Initial,
		}
	}
	return spec
}

func (c *Catalog) jobNames() []string {
	names := make([]string, 0, len(c.Jobs))
	for job := range c.Jobs {
		names = append(names, job)
	}
	sort.Strings(names)
	return names
}
