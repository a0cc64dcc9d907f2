package taxonomy

// Fit classifies how a startup's sectors relate to an investor's sectors.
type Fit string

const (
	FitUnknown  Fit = "unknown"
	FitExact    Fit = "exact"
	FitAdjacent Fit = "adjacent"
	FitNone     Fit = "none"
)

// Fit is unknown when either side is empty, exact on any shared sector,
// adjacent when any pair is related in the adjacency graph, none otherwise.
func (n *Normalizer) Fit(startup, investor Set) Fit {
	if len(startup) == 0 || len(investor) == 0 {
		return FitUnknown
	}

	for _, s := range startup {
		if investor.Contains(s) {
			return FitExact
		}
	}

	for _, s := range startup {
		for _, i := range investor {
			if n.Adjacent(s.Key, i.Key) {
				return FitAdjacent
			}
		}
	}

	return FitNone
}
