// Package canon turns job, ability and buff names into comparison keys.
//
// Combat-log sources disagree on case, spacing and punctuation ("Holy Sheltron",
// "holy-sheltron", "HolySheltron"). Names are canonicalized once at ingestion and
// the resulting Key is what every lookup table is indexed by.
package canon

import (
	"strings"
	"unicode"
)

// Key is a canonical job, ability or buff identifier.
type Key string

// Normalize lower-cases name and drops everything that is not a letter or digit.
func Normalize(name string) Key {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return Key(b.String())
}

// String returns the key as a plain string
func (k Key) String() string {
	return string(k)
}

// IsZero reports whether the name carried no letters or digits at all.
func (k Key) IsZero() bool {
	return k == ""
}

// Set is a set of canonical keys.
type Set map[Key]struct{}

// NewSet canonicalizes names into a set. Names that normalize to nothing are skipped.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, name := range names {
		s.Add(name)
	}
	return s
}

// Add canonicalizes name and adds it
func (s Set) Add(name string) {
	if k := Normalize(name); !k.IsZero() {
		s[k] = struct{}{}
	}
}

// Has reports whether the canonical form of name is in the set. A nil set has nothing.
func (s Set) Has(name string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[Normalize(name)]
	return ok
}

// HasKey reports whether k is in the set.
func (s Set) HasKey(k Key) bool {
	_, ok := s[k]
	return ok
}
