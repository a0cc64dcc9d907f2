// Package taxonomy canonicalizes free-text sector labels and classifies how
// closely two sector sets align.
package taxonomy

import (
	"strings"
	"unicode"
)

// Terms shorter than this only match as whole words during containment scans.
const minFragment = 3

// Sector is a normalized sector label.
type Sector struct {
	Key Key
	// Raw holds the cleaned label when Key is Unrecognized.
	Raw string
}

func (s Sector) String() string {
	if s.Key == Unrecognized {
		return s.Raw
	}
	return s.Key.String()
}

// Canonical reports whether the sector resolved to a known key.
func (s Sector) Canonical() bool { return s.Key != Unrecognized }

// Set is an ordered, de-duplicated list of sectors.
type Set []Sector

func (s Set) Contains(sector Sector) bool {
	for _, v := range s {
		if v == sector {
			return true
		}
	}
	return false
}

func (s Set) Strings() []string {
	out := make([]string, 0, len(s))
	for _, v := range s {
		out = append(out, v.String())
	}
	return out
}

type synonym struct {
	key  Key
	term string
}

// Normalizer resolves labels against an immutable vocabulary.
type Normalizer struct {
	keys     []Key
	synonyms []synonym
	adjacent map[Key]map[Key]struct{}
}

// NewNormalizer cleans the vocabulary once and indexes adjacency in both
// directions.
func NewNormalizer(v Vocabulary) *Normalizer {
	n := &Normalizer{
		keys:     append([]Key(nil), v.Keys...),
		adjacent: make(map[Key]map[Key]struct{}, len(v.Adjacent)),
	}

	for _, key := range n.keys {
		for _, term := range v.Synonyms[key] {
			cleaned := Clean(term)
			if cleaned == "" {
				continue
			}
			n.synonyms = append(n.synonyms, synonym{key: key, term: cleaned})
		}
	}

	link := func(a, b Key) {
		if n.adjacent[a] == nil {
			n.adjacent[a] = make(map[Key]struct{})
		}
		n.adjacent[a][b] = struct{}{}
	}
	for from, related := range v.Adjacent {
		for _, to := range related {
			if from == to {
				continue
			}
			link(from, to)
			link(to, from)
		}
	}

	return n
}

// Clean lowercases the label, drops everything except letters, digits and
// whitespace, and collapses whitespace runs into single spaces.
func Clean(raw string) string {
	var b strings.Builder
	pendingSpace := false
	for _, r := range strings.ToLower(raw) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			pendingSpace = true
		}
	}
	return b.String()
}

// Normalize never fails: unmatched labels come back as Unrecognized sectors
// carrying their cleaned text.
func (n *Normalizer) Normalize(raw string) Sector {
	cleaned := Clean(raw)
	if cleaned == "" {
		return Sector{}
	}

	for _, key := range n.keys {
		if key.String() == cleaned {
			return Sector{Key: key}
		}
	}

	for _, s := range n.synonyms {
		if s.term == cleaned {
			return Sector{Key: s.key}
		}
	}

	for _, s := range n.synonyms {
		if overlaps(cleaned, s.term) {
			return Sector{Key: s.key}
		}
	}

	for _, key := range n.keys {
		if overlaps(cleaned, key.String()) {
			return Sector{Key: key}
		}
	}

	return Sector{Key: Unrecognized, Raw: cleaned}
}

// NormalizeAll normalizes labels into a Set, dropping labels that clean to
// nothing and duplicates.
func (n *Normalizer) NormalizeAll(raw []string) Set {
	out := make(Set, 0, len(raw))
	for _, label := range raw {
		sector := n.Normalize(label)
		if sector.Key == Unrecognized && sector.Raw == "" {
			continue
		}
		if out.Contains(sector) {
			continue
		}
		out = append(out, sector)
	}
	return out
}

// Adjacent reports whether two canonical sectors are related.
func (n *Normalizer) Adjacent(a, b Key) bool {
	if a == Unrecognized || b == Unrecognized {
		return false
	}
	_, ok := n.adjacent[a][b]
	return ok
}

// Related lists the keys adjacent to k.
func (n *Normalizer) Related(k Key) []Key {
	out := make([]Key, 0, len(n.adjacent[k]))
	for _, key := range n.keys {
		if _, ok := n.adjacent[k][key]; ok {
			out = append(out, key)
		}
	}
	return out
}

func overlaps(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) < minFragment || len(b) < minFragment {
		return containsWord(a, b) || containsWord(b, a)
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func containsWord(haystack, needle string) bool {
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}
