package velocity

import (
	"strings"

	"github.com/spigell/fitmatch/internal/taxonomy"
)

type Category string

const (
	Software  Category = "software"
	Hardware  Category = "hardware"
	MedTech   Category = "medtech"
	DeepTech  Category = "deeptech"
	SpaceTech Category = "spacetech"
	IoT       Category = "iot"
	Default   Category = "default"
)

// Round ordinals used by the benchmark tables.
const (
	roundPreSeed = iota
	roundSeed
	roundSeriesA
	roundSeriesB
	roundSeriesC
	roundSeriesD
)

var roundNames = []string{"pre_seed", "seed", "series_a", "series_b", "series_c", "series_d"}

// Benchmarks hold the expected months for each consecutive primary-round
// transition: pre-seed to seed, seed to A, A to B, B to C, C to D.
type Benchmarks map[Category][5]float64

func DefaultBenchmarks() Benchmarks {
	return Benchmarks{
		Software:  {12, 18, 24, 24, 24},
		Hardware:  {15, 24, 30, 30, 30},
		MedTech:   {18, 36, 36, 36, 36},
		DeepTech:  {18, 30, 36, 36, 36},
		SpaceTech: {18, 30, 36, 36, 36},
		IoT:       {15, 24, 28, 30, 30},
		Default:   {14, 20, 26, 28, 28},
	}
}

// Expected sums the transitions between two round ordinals, so skipping a
// round expects the combined time.
func (b Benchmarks) Expected(c Category, from, to int) float64 {
	steps, ok := b[c]
	if !ok {
		steps = b[Default]
	}
	total := 0.0
	for i := from; i < to && i < len(steps); i++ {
		total += steps[i]
	}
	return total
}

type keywordSet struct {
	category Category
	phrases  []string
}

// Most specific categories come first.
var categoryKeywords = []keywordSet{
	{SpaceTech, []string{"space", "spacetech", "satellite", "satellites", "aerospace", "orbital", "launch vehicle", "rocket", "rockets"}},
	{MedTech, []string{"medtech", "medical", "medical device", "medical devices", "diagnostics", "biotech", "therapeutics", "pharma", "clinical", "healthtech", "life sciences"}},
	{DeepTech, []string{"deeptech", "deep tech", "quantum", "fusion", "advanced materials", "semiconductor", "semiconductors", "nanotech", "photonics"}},
	{IoT, []string{"iot", "internet of things", "connected devices", "sensor", "sensors", "smart home", "wearables"}},
	{Hardware, []string{"hardware", "robotics", "robot", "robots", "device", "devices", "electronics", "drones", "manufacturing", "3d printing"}},
	{Software, []string{"software", "saas", "ai", "machine learning", "platform", "app", "api", "cloud", "devtools", "fintech", "marketplace", "ecommerce", "data", "security", "enterprise"}},
}

// Classify picks the benchmark category from sector labels and free text.
func Classify(sectors []string, description string) Category {
	texts := make([]string, 0, len(sectors)+1)
	for _, s := range sectors {
		if c := taxonomy.Clean(s); c != "" {
			texts = append(texts, " "+c+" ")
		}
	}
	if c := taxonomy.Clean(description); c != "" {
		texts = append(texts, " "+c+" ")
	}

	for _, set := range categoryKeywords {
		for _, phrase := range set.phrases {
			for _, text := range texts {
				if containsPhrase(text, phrase) {
					return set.category
				}
			}
		}
	}
	return Default
}

func containsPhrase(padded, phrase string) bool {
	return strings.Contains(padded, " "+phrase+" ")
}
