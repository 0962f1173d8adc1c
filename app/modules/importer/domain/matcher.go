package importdomain

// DefaultMatchThreshold is the lowest similarity treated as a possible
// duplicate identity.
const DefaultMatchThreshold = 88

// Verdict is the identity matcher output for one candidate name.
type Verdict struct {
	Status      MatchStatus
	MatchedName string
	Score       int
}

// Matcher classifies extracted names against the participant registry.
type Matcher struct {
	similarity Similarity
	threshold  int
	registry   []string
	known      map[string]struct{}
}

// NewMatcher builds a Matcher over registry, which must be in a stable
// order: on equal scores the earliest name wins. A nil similarity uses
// TokenSortRatio and a non-positive threshold uses DefaultMatchThreshold.
func NewMatcher(registry []string, similarity Similarity, threshold int) *Matcher {
	if similarity == nil {
		similarity = TokenSortRatio{}
	}
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	known := make(map[string]struct{}, len(registry))
	for _, name := range registry {
		known[name] = struct{}{}
	}
	return &Matcher{similarity: similarity, threshold: threshold, registry: registry, known: known}
}

// Match classifies name as exact, conflict or new.
func (m *Matcher) Match(name string) Verdict {
	if _, ok := m.known[name]; ok {
		return Verdict{Status: StatusExact, MatchedName: name, Score: 100}
	}
	if len(m.registry) == 0 {
		return Verdict{Status: StatusNew}
	}

	best, bestScore := "", -1
	for _, candidate := range m.registry {
		score := m.similarity.Score(name, candidate)
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}

	switch {
	case bestScore >= 100:
		return Verdict{Status: StatusExact, MatchedName: best, Score: 100}
	case bestScore >= m.threshold:
		return Verdict{Status: StatusConflict, MatchedName: best, Score: bestScore}
	default:
		return Verdict{Status: StatusNew, Score: bestScore}
	}
}
