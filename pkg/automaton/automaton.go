// Package automaton implements a turn-restriction automaton: a deterministic
// finite automaton over "last road edge taken" states, used by the search
// engine to forbid or force specific road-edge sequences.
package automaton

import "github.com/tempuscore/tempuscore/pkg/tcore"

// State is an automaton vertex. The zero value is the initial state, the one
// every label starts in and the one the automaton returns to after any road
// edge that is not itself the subject of a restriction.
type State int32

// InitialState is S0: "no turn-restriction history observed".
const InitialState State = 0

// Kind distinguishes the two restriction families.
type Kind int

const (
	// No forbids the single transition from -> to.
	No Kind = iota
	// Only forbids every transition from -> X except from -> to.
	Only
)

// Restriction is one entry of the turn-restriction list the automaton is
// built from.
type Restriction struct {
	From tcore.RoadEdgeID
	To   tcore.RoadEdgeID
	Kind Kind
}

// PenaltyEntry is one (traffic-rule-mask -> minutes) pair attached to a
// state. Entries are tried in the order they were added, and the first
// whose mask shares a bit with the query's traffic rules wins.
type PenaltyEntry struct {
	TrafficRules tcore.TrafficRule
	Minutes      float64
}

// Automaton is the deterministic finite automaton the search consults on
// every road-to-road transition. States are lazily constructed: only road
// edges that appear as the `From` of some restriction ever get a dedicated
// state, bounding |states| <= 1 + sum(|restrictions|).
type Automaton struct {
	nextState     State
	stateForEdge  map[tcore.RoadEdgeID]State // "just arrived via this edge" -> state
	forbidden     map[State]map[tcore.RoadEdgeID]bool
	onlyAllowed   map[State]map[tcore.RoadEdgeID]bool // non-empty => allow-list, all else forbidden
	penalties     map[State][]PenaltyEntry
}

// New builds an automaton accepting all transitions, the one-state automaton
// construction starts from.
func New() *Automaton {
	return &Automaton{
		nextState:    InitialState + 1,
		stateForEdge: make(map[tcore.RoadEdgeID]State),
		forbidden:    make(map[State]map[tcore.RoadEdgeID]bool),
		onlyAllowed:  make(map[State]map[tcore.RoadEdgeID]bool),
		penalties:    make(map[State][]PenaltyEntry),
	}
}

// Build constructs an Automaton from a flat restriction list in one pass:
// materialise the state witnessing the `From` history, then remove either
// the single forbidden transition (No) or every transition but the allowed
// one (Only).
func Build(restrictions []Restriction) *Automaton {
	a := New()
	for _, r := range restrictions {
		a.AddRestriction(r)
	}
	return a
}

// stateFor returns (creating if necessary) the dedicated state reached after
// traversing edge.
func (a *Automaton) stateFor(edge tcore.RoadEdgeID) State {
	if s, ok := a.stateForEdge[edge]; ok {
		return s
	}
	s := a.nextState
	a.nextState++
	a.stateForEdge[edge] = s
	return s
}

// AddRestriction adds one restriction to the automaton, materialising states
// as needed.
func (a *Automaton) AddRestriction(r Restriction) {
	s := a.stateFor(r.From)
	switch r.Kind {
	case No:
		if a.forbidden[s] == nil {
			a.forbidden[s] = make(map[tcore.RoadEdgeID]bool)
		}
		a.forbidden[s][r.To] = true
	case Only:
		if a.onlyAllowed[s] == nil {
			a.onlyAllowed[s] = make(map[tcore.RoadEdgeID]bool)
		}
		a.onlyAllowed[s][r.To] = true
	}
}

// SetPenalty appends a penalty entry to state, checked in insertion order by
// Penalty.
func (a *Automaton) SetPenalty(s State, rules tcore.TrafficRule, minutes float64) {
	a.penalties[s] = append(a.penalties[s], PenaltyEntry{TrafficRules: rules, Minutes: minutes})
}

// InitialState returns S0.
func (a *Automaton) InitialState() State { return InitialState }

// Transition returns the next state after traversing edge from state s, or
// ok=false if the restriction automaton forbids it. Determinism holds
// because each (state, edge) combination maps to at most one of: the
// only-allow-list check, the forbidden check, or the default "return to the
// edge's dedicated state (or S0)" rule. Exactly one of these branches ever
// fires.
func (a *Automaton) Transition(s State, edge tcore.RoadEdgeID) (State, bool) {
	if allow, ok := a.onlyAllowed[s]; ok && len(allow) > 0 {
		if !allow[edge] {
			return InitialState, false
		}
	} else if forb := a.forbidden[s]; forb != nil && forb[edge] {
		return InitialState, false
	}

	if next, ok := a.stateForEdge[edge]; ok {
		return next, true
	}
	return InitialState, true
}

// Penalty returns the first penalty entry of state s whose TrafficRules
// shares a bit with rules, or 0 if none matches.
func (a *Automaton) Penalty(s State, rules tcore.TrafficRule) float64 {
	for _, p := range a.penalties[s] {
		if p.TrafficRules&rules != 0 {
			return p.Minutes
		}
	}
	return 0
}
