// Package tier places investors into accessibility tiers. Lower tiers are
// easier to reach and expect less traction.
package tier

import (
	"sort"
	"strings"

	"github.com/spigell/fitmatch/internal/profile"
	"github.com/spigell/fitmatch/internal/taxonomy"
)

const (
	Elite    = 1
	Strong   = 2
	Emerging = 3
	Angel    = 4
)

type Source string

const (
	SourceDeclared  Source = "declared"
	SourceName      Source = "name"
	SourceCheckSize Source = "check_size"
)

// Info is the metadata a tier carries into the composite score.
type Info struct {
	Tier                 int     `json:"tier"`
	Label                string  `json:"label"`
	CheckSizeMin         float64 `json:"check_size_min"`
	CheckSizeMax         float64 `json:"check_size_max"`
	ExpectedReadinessMin int     `json:"expected_readiness_min"`
	AccessibilityBonus   int     `json:"accessibility_bonus"`
}

type Classification struct {
	Tier   int    `json:"tier"`
	Source Source `json:"source"`
	Info   Info   `json:"info"`
}

// DefaultTable lists tiers from elite to angels. A tier is entered when the
// investor's check size reaches its CheckSizeMin.
func DefaultTable() []Info {
	return []Info{
		{Tier: Elite, Label: "elite", CheckSizeMin: 5_000_000, CheckSizeMax: 100_000_000, ExpectedReadinessMin: 30, AccessibilityBonus: 0},
		{Tier: Strong, Label: "strong", CheckSizeMin: 1_000_000, CheckSizeMax: 5_000_000, ExpectedReadinessMin: 20, AccessibilityBonus: 2},
		{Tier: Emerging, Label: "emerging", CheckSizeMin: 250_000, CheckSizeMax: 1_000_000, ExpectedReadinessMin: 10, AccessibilityBonus: 4},
		{Tier: Angel, Label: "angel", CheckSizeMin: 10_000, CheckSizeMax: 250_000, ExpectedReadinessMin: 0, AccessibilityBonus: 6},
	}
}

// DefaultFirms lists known investor names per tier. Angels have no list.
func DefaultFirms() map[int][]string {
	return map[int][]string{
		Elite: {
			"sequoia", "sequoia capital", "andreessen horowitz", "a16z", "accel", "benchmark",
			"lightspeed", "lightspeed venture partners", "kleiner perkins", "greylock", "index ventures",
			"founders fund", "general catalyst", "tiger global", "insight partners", "khosla ventures",
			"gv", "google ventures", "bessemer venture partners", "thrive capital", "coatue",
		},
		Strong: {
			"first round", "first round capital", "union square ventures", "usv", "initialized capital",
			"felicis", "felicis ventures", "spark capital", "redpoint", "redpoint ventures", "craft ventures",
			"lux capital", "forerunner ventures", "ribbit capital", "y combinator", "matrix partners",
			"battery ventures", "menlo ventures", "floodgate",
		},
		Emerging: {
			"hustle fund", "precursor ventures", "pear vc", "boldstart ventures", "afore capital",
			"500 global", "500 startups", "soma capital", "backstage capital", "kima ventures",
			"techstars", "betaworks", "wischoff ventures", "village global", "notation capital",
		},
	}
}

type firm struct {
	phrase string
	tier   int
}

type Classifier struct {
	table []Info
	firms []firm
}

func NewClassifier(table []Info, firms map[int][]string) *Classifier {
	c := &Classifier{table: append([]Info(nil), table...)}
	sort.Slice(c.table, func(i, j int) bool { return c.table[i].Tier < c.table[j].Tier })

	for t, names := range firms {
		for _, name := range names {
			if cleaned := taxonomy.Clean(name); cleaned != "" {
				c.firms = append(c.firms, firm{phrase: cleaned, tier: t})
			}
		}
	}
	// Longer phrases first, then the more elite tier on ties.
	sort.Slice(c.firms, func(i, j int) bool {
		if len(c.firms[i].phrase) != len(c.firms[j].phrase) {
			return len(c.firms[i].phrase) > len(c.firms[j].phrase)
		}
		if c.firms[i].tier != c.firms[j].tier {
			return c.firms[i].tier < c.firms[j].tier
		}
		return c.firms[i].phrase < c.firms[j].phrase
	})

	return c
}

func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultTable(), DefaultFirms())
}

// Classify uses the declared tier when valid, then known names, then the
// check size (max, else min).
func (c *Classifier) Classify(inv profile.InvestorProfile) Classification {
	if info, ok := c.Info(inv.Tier); ok {
		return Classification{Tier: inv.Tier, Source: SourceDeclared, Info: info}
	}

	if t, ok := c.matchName(inv.Name, inv.Firm); ok {
		info, _ := c.Info(t)
		return Classification{Tier: t, Source: SourceName, Info: info}
	}

	size := inv.CheckSizeMax
	if size <= 0 {
		size = inv.CheckSizeMin
	}
	t := c.bySize(size)
	info, _ := c.Info(t)
	return Classification{Tier: t, Source: SourceCheckSize, Info: info}
}

// Info returns the metadata of tier t.
func (c *Classifier) Info(t int) (Info, bool) {
	for _, info := range c.table {
		if info.Tier == t {
			return info, true
		}
	}
	return Info{}, false
}

func (c *Classifier) matchName(names ...string) (int, bool) {
	for _, f := range c.firms {
		for _, name := range names {
			cleaned := taxonomy.Clean(name)
			if cleaned == "" {
				continue
			}
			if strings.Contains(" "+cleaned+" ", " "+f.phrase+" ") {
				return f.tier, true
			}
		}
	}
	return 0, false
}

func (c *Classifier) bySize(size float64) int {
	for _, info := range c.table {
		if size >= info.CheckSizeMin && info.Tier != c.lowest() {
			return info.Tier
		}
	}
	return c.lowest()
}

func (c *Classifier) lowest() int {
	if len(c.table) == 0 {
		return Angel
	}
	return c.table[len(c.table)-1].Tier
}
