// Package stage places startups and investor stage focus on the 0..6
// lifecycle scale and grades the distance between them.
package stage

import (
	"sort"
	"strconv"
	"strings"

	"github.com/spigell/fitmatch/internal/taxonomy"
	"github.com/spigell/fitmatch/internal/tuning"
)

const (
	PreSeed = iota
	EarlySeed
	Seed
	SeriesA
	SeriesB
	SeriesC
	Growth

	maxOrdinal = Growth
)

type Category string

const (
	Unknown  Category = "unknown"
	Agnostic Category = "agnostic"
	Exact    Category = "exact"
	Next     Category = "next"
	Off1     Category = "off1"
	Off2     Category = "off2"
	Far      Category = "far"
)

// Fit is the graded relation between a startup stage and an investor focus.
type Fit struct {
	Category Category `json:"category"`
	Points   int      `json:"points"`
}

var names = [...]string{
	PreSeed:   "pre-seed",
	EarlySeed: "early seed",
	Seed:      "seed",
	SeriesA:   "series a",
	SeriesB:   "series b",
	SeriesC:   "series c",
	Growth:    "growth",
}

// Name returns the display label of an ordinal, or "" when out of range.
func Name(ordinal int) string {
	if ordinal < 0 || ordinal > maxOrdinal {
		return ""
	}
	return names[ordinal]
}

// Names lists the display labels in ordinal order.
func Names() []string {
	return append([]string(nil), names[:]...)
}

// DefaultLabels maps cleaned stage labels to ordinals.
func DefaultLabels() map[string]int {
	return map[string]int{
		"pre seed":       PreSeed,
		"angel":          PreSeed,
		"idea":           PreSeed,
		"ideation":       PreSeed,
		"concept":        PreSeed,
		"pre product":    PreSeed,
		"friends family": PreSeed,

		"early":        EarlySeed,
		"early seed":   EarlySeed,
		"micro seed":   EarlySeed,
		"pre series a": EarlySeed,

		"seed":       Seed,
		"seed stage": Seed,
		"post seed":  Seed,

		"series a": SeriesA,
		"a round":  SeriesA,

		"series b": SeriesB,
		"b round":  SeriesB,

		"series c": SeriesC,
		"c round":  SeriesC,

		"growth":       Growth,
		"growth stage": Growth,
		"late":         Growth,
		"late stage":   Growth,
		"series d":     Growth,
		"series e":     Growth,
		"series f":     Growth,
		"pre ipo":      Growth,
		"expansion":    Growth,
	}
}

type label struct {
	text    string
	ordinal int
}

// Aligner resolves stage labels and scores stage fit with a fixed point table.
type Aligner struct {
	exact  map[string]int
	labels []label
	points tuning.StagePoints
}

func NewAligner(labels map[string]int, points tuning.StagePoints) *Aligner {
	a := &Aligner{
		exact:  make(map[string]int, len(labels)*2),
		points: points,
	}
	for raw, ordinal := range labels {
		cleaned := taxonomy.Clean(raw)
		if cleaned == "" || ordinal < 0 || ordinal > maxOrdinal {
			continue
		}
		a.exact[cleaned] = ordinal
		a.exact[strings.ReplaceAll(cleaned, " ", "")] = ordinal
		a.labels = append(a.labels, label{text: cleaned, ordinal: ordinal})
	}

	// Longest labels first so "pre series a" wins over "series a".
	sort.Slice(a.labels, func(i, j int) bool {
		if len(a.labels[i].text) != len(a.labels[j].text) {
			return len(a.labels[i].text) > len(a.labels[j].text)
		}
		return a.labels[i].text < a.labels[j].text
	})

	return a
}

// Resolve maps an ordinal string or a stage label onto the 0..6 scale.
func (a *Aligner) Resolve(raw string) (int, bool) {
	cleaned := taxonomy.Clean(raw)
	if cleaned == "" {
		return 0, false
	}

	if n, err := strconv.Atoi(cleaned); err == nil {
		if n < 0 || n > maxOrdinal {
			return 0, false
		}
		return n, true
	}

	if ordinal, ok := a.exact[cleaned]; ok {
		return ordinal, true
	}
	if ordinal, ok := a.exact[strings.ReplaceAll(cleaned, " ", "")]; ok {
		return ordinal, true
	}

	padded := " " + cleaned + " "
	for _, l := range a.labels {
		if strings.Contains(padded, " "+l.text+" ") {
			return l.ordinal, true
		}
	}

	return 0, false
}

// ResolveFocus resolves every focus entry it can, in order and without
// duplicates. Unresolvable entries are skipped.
func (a *Aligner) ResolveFocus(focus []string) []int {
	var out []int
	seen := map[int]bool{}
	for _, f := range focus {
		ordinal, ok := a.Resolve(f)
		if !ok || seen[ordinal] {
			continue
		}
		seen[ordinal] = true
		out = append(out, ordinal)
	}
	return out
}

// Fit grades a startup stage against an investor focus. A missing startup
// stage is unknown; a focus with no resolvable entries is agnostic.
func (a *Aligner) Fit(startupStage string, focus []string) Fit {
	ordinal, ok := a.Resolve(startupStage)
	if !ok {
		return Fit{Category: Unknown, Points: a.points.Unknown}
	}

	ordinals := a.ResolveFocus(focus)
	if len(ordinals) == 0 {
		return Fit{Category: Agnostic, Points: a.points.Agnostic}
	}

	return a.grade(ordinal, ordinals)
}

func (a *Aligner) grade(ordinal int, focus []int) Fit {
	diff := maxOrdinal + 1
	next := false
	for _, f := range focus {
		if f == ordinal {
			return Fit{Category: Exact, Points: a.points.Exact}
		}
		if f == ordinal+1 {
			next = true
		}
		d := f - ordinal
		if d < 0 {
			d = -d
		}
		if d < diff {
			diff = d
		}
	}

	switch {
	case next:
		return Fit{Category: Next, Points: a.points.Next}
	case diff == 1:
		return Fit{Category: Off1, Points: a.points.Off1}
	case diff == 2:
		return Fit{Category: Off2, Points: a.points.Off2}
	default:
		return Fit{Category: Far, Points: a.points.Far}
	}
}
