package canon

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Resolver canonicalizes state and district names, memoizing every
// distinct raw value in a NameMap. Resolution cost is O(distinct
// values), not O(rows).
//
// A Resolver is not safe for concurrent use; the pipeline resolves
// names in a single goroutine.
type Resolver struct {
	stateThreshold    float64
	districtThreshold float64
	nmap              *NameMap
	titler            cases.Caser

	// canonical district spellings already accepted, per state;
	// the first spelling seen wins
	seen map[string][]string
}

// NewResolver returns a resolver with the given acceptance thresholds
// (0-100 scale). A state candidate must score strictly above
// stateThreshold; a district snaps to an earlier spelling only strictly
// above districtThreshold.
func NewResolver(stateThreshold, districtThreshold float64) *Resolver {
	return &Resolver{
		stateThreshold:    stateThreshold,
		districtThreshold: districtThreshold,
		nmap:              NewNameMap(),
		titler:            cases.Title(language.English),
		seen:              make(map[string][]string),
	}
}

// NameMap returns the mappings accumulated so far.
func (r *Resolver) NameMap() *NameMap {
	return r.nmap
}

// State resolves a raw state value to an official name or a sentinel.
func (r *Resolver) State(raw string) Resolution {
	if res, ok := r.nmap.State(raw); ok {
		return res
	}
	res := r.resolveState(raw)
	r.nmap.setState(raw, res)
	return res
}

func (r *Resolver) resolveState(raw string) Resolution {
	n := Normalize(raw)

	if IsOfficialState(n) {
		return Resolution{Canonical: n, Score: 100, Match: Exact}
	}

	// Garbage inputs are never fuzzy-matched; "100000" must not
	// become a state.
	if isGarbage(n) {
		return Resolution{Canonical: InvalidEntry, Match: Invalid}
	}

	best, score := bestOfficial(n)
	if score > r.stateThreshold {
		return Resolution{Canonical: best, Score: score, Match: Fuzzy}
	}
	return Resolution{Canonical: UnknownState, Score: score, Match: Unknown}
}

// District resolves a raw district value within a state. Districts have
// no official vocabulary; spellings are canonicalized to title case and
// near-duplicates snap to the spelling seen first in that state.
// Scoping per state keeps same-named districts of different states
// apart.
func (r *Resolver) District(state, raw string) Resolution {
	if res, ok := r.nmap.District(state, raw); ok {
		return res
	}
	res := r.resolveDistrict(state, raw)
	r.nmap.setDistrict(state, raw, res)
	return res
}

func (r *Resolver) resolveDistrict(state, raw string) Resolution {
	titled := r.titler.String(strings.ToLower(Normalize(raw)))

	for _, s := range r.seen[state] {
		if s == titled {
			return Resolution{Canonical: s, Score: 100, Match: Exact}
		}
	}

	var best string
	var bestScore float64
	for _, s := range r.seen[state] {
		if sc := Score(titled, s); sc > bestScore {
			best, bestScore = s, sc
		}
	}
	if bestScore > r.districtThreshold {
		return Resolution{Canonical: best, Score: bestScore, Match: Fuzzy}
	}

	r.seen[state] = append(r.seen[state], titled)
	return Resolution{Canonical: titled, Score: 100, Match: Exact}
}
