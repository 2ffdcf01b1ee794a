package canon

import (
	"cmp"
	"slices"
)

// Kind distinguishes state entries from district entries.
type Kind string

const (
	KindState    Kind = "state"
	KindDistrict Kind = "district"
)

// Entry is one raw-to-canonical mapping held by a NameMap.
type Entry struct {
	Kind      Kind      `json:"kind"`
	State     string    `json:"state,omitempty"`
	Raw       string    `json:"raw"`
	Canonical string    `json:"canonical"`
	Score     float64   `json:"score"`
	Match     MatchType `json:"match"`
}

// NameMap records every resolution decision of a run. Only the resolver
// writes to it; after the run it is a read-only audit artifact that can
// be persisted and exported.
type NameMap struct {
	states    map[string]Resolution
	districts map[string]map[string]Resolution
}

// NewNameMap returns an empty map.
func NewNameMap() *NameMap {
	return &NameMap{
		states:    make(map[string]Resolution),
		districts: make(map[string]map[string]Resolution),
	}
}

// State returns the memoized resolution for a raw state value.
func (m *NameMap) State(raw string) (Resolution, bool) {
	res, ok := m.states[raw]
	return res, ok
}

// District returns the memoized resolution for a raw district value
// within a state.
func (m *NameMap) District(state, raw string) (Resolution, bool) {
	byRaw, ok := m.districts[state]
	if !ok {
		return Resolution{}, false
	}
	res, ok := byRaw[raw]
	return res, ok
}

func (m *NameMap) setState(raw string, res Resolution) {
	m.states[raw] = res
}

func (m *NameMap) setDistrict(state, raw string, res Resolution) {
	byRaw, ok := m.districts[state]
	if !ok {
		byRaw = make(map[string]Resolution)
		m.districts[state] = byRaw
	}
	byRaw[raw] = res
}

// Len returns the total number of entries.
func (m *NameMap) Len() int {
	n := len(m.states)
	for _, byRaw := range m.districts {
		n += len(byRaw)
	}
	return n
}

// Entries returns all mappings, state entries first, each group sorted
// for deterministic persistence and export.
func (m *NameMap) Entries() []Entry {
	res := make([]Entry, 0, m.Len())

	for raw, r := range m.states {
		res = append(res, Entry{
			Kind:      KindState,
			Raw:       raw,
			Canonical: r.Canonical,
			Score:     r.Score,
			Match:     r.Match,
		})
	}
	for state, byRaw := range m.districts {
		for raw, r := range byRaw {
			res = append(res, Entry{
				Kind:      KindDistrict,
				State:     state,
				Raw:       raw,
				Canonical: r.Canonical,
				Score:     r.Score,
				Match:     r.Match,
			})
		}
	}

	slices.SortFunc(res, func(a, b Entry) int {
		if a.Kind != b.Kind {
			// States sort ahead of districts
			if a.Kind == KindState {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(a.State, b.State); c != 0 {
			return c
		}
		return cmp.Compare(a.Raw, b.Raw)
	})

	return res
}
