// Package search implements the multimodal search engine: a label-setting
// shortest-path search over the extended state space (vertex, automaton
// state, mode) the graph model, turn-restriction automaton and cost
// calculator packages together define.
package search

import (
	"container/heap"
	"context"
	"fmt"
	"time"

	"github.com/tempuscore/tempuscore/pkg/automaton"
	"github.com/tempuscore/tempuscore/pkg/costcalc"
	"github.com/tempuscore/tempuscore/pkg/tcore"
)

// Request is one routing query.
type Request struct {
	Graph     *tcore.Graph
	Automaton *automaton.Automaton

	Origin      tcore.Vertex
	Destination tcore.Vertex

	// Date is the service day timetable/frequency lookups are checked
	// against.
	Date time.Time

	// Time is minutes-since-midnight: a departure time when ArriveBy is
	// false, an arrival deadline when it is true.
	Time     float64
	ArriveBy bool

	// Criterion selects what the search minimises: elapsed minutes
	// (CriterionTime, the zero value) or metres travelled.
	Criterion tcore.Criterion

	// InitialMode, when non-zero, restricts the trip to start in that one
	// mode; zero means one start label per allowed mode.
	InitialMode  tcore.ModeID
	AllowedModes []tcore.ModeID

	CostOptions costcalc.Options
}

// Step is one leg of a planned trip: the edge, the mode it was ridden in,
// the trip boarded on it (zero off public transport), the wait incurred
// before it and the cumulative cost at its end.
type Step struct {
	Edge tcore.Edge
	Mode tcore.ModeID
	Trip tcore.TripID
	Wait float64
	Cost float64
}

// Result is the engine's output: the trip as a sequence of steps plus the
// wall-clock departure/arrival times it resolved to. Under the distance
// criterion TotalCost is metres and the departure/arrival fields stay at the
// request's fixed endpoint.
type Result struct {
	Steps         []Step
	TotalCost     float64
	DepartureTime float64
	ArrivalTime   float64
}

// Run performs the label-setting search. It returns tcore.ErrNoPath if the
// destination is unreachable under the request's mode and restriction
// constraints, and tcore.ErrCancelled if ctx is done before the search
// concludes; cancellation is checked at every label extraction, never
// mid-relaxation.
func Run(ctx context.Context, req Request) (Result, error) {
	if req.Graph == nil || req.Automaton == nil {
		return Result{}, fmt.Errorf("%w: graph and automaton are required", tcore.ErrInvalidRequest)
	}
	if len(req.AllowedModes) == 0 {
		return Result{}, fmt.Errorf("%w: at least one allowed mode is required", tcore.ErrInvalidRequest)
	}
	switch req.Criterion {
	case tcore.CriterionTime, tcore.CriterionDistance:
	default:
		return Result{}, fmt.Errorf("%w: criterion %d", tcore.ErrUnsupportedCriteria, req.Criterion)
	}
	if !req.Graph.HasVertex(req.Origin) {
		return Result{}, fmt.Errorf("%w: origin %s not in graph", tcore.ErrInvalidRequest, req.Origin)
	}
	if !req.Graph.HasVertex(req.Destination) {
		return Result{}, fmt.Errorf("%w: destination %s not in graph", tcore.ErrInvalidRequest, req.Destination)
	}

	startModes := req.AllowedModes
	if req.InitialMode != 0 {
		allowed := false
		for _, m := range req.AllowedModes {
			if m == req.InitialMode {
				allowed = true
				break
			}
		}
		if !allowed {
			return Result{}, fmt.Errorf("%w: initial mode %d not in allowed modes", tcore.ErrInvalidRequest, req.InitialMode)
		}
		startModes = []tcore.ModeID{req.InitialMode}
	}

	direction := tcore.Forward
	if req.ArriveBy {
		direction = tcore.Reverse
	}
	calc := costcalc.New(req.Graph, req.Date, direction, req.AllowedModes, req.CostOptions)

	startVertex, target := req.Origin, req.Destination
	if req.ArriveBy {
		startVertex, target = req.Destination, req.Origin
	}

	labels := map[stateKey]*label{}
	pq := &priorityQueue{}
	for _, m := range startModes {
		k := stateKey{Vertex: startVertex, Automaton: req.Automaton.InitialState(), Mode: m}
		labels[k] = &label{}
		*pq = append(*pq, pqItem{key: k, potential: 0})
	}
	heap.Init(pq)

	settled := map[stateKey]bool{}

	var goalKey stateKey
	found := false

	for pq.Len() > 0 {
		select {
		case <-ctx.Done():
			return Result{}, fmt.Errorf("%w: %v", tcore.ErrCancelled, ctx.Err())
		default:
		}

		item := heap.Pop(pq).(pqItem)
		if settled[item.key] {
			continue
		}
		cur := labels[item.key]
		if cur == nil || item.potential > cur.potential {
			continue
		}
		settled[item.key] = true

		if item.key.Vertex == target {
			goalKey = item.key
			found = true
			break
		}

		relax(req, calc, item.key, cur, labels, settled, pq)
	}

	if !found {
		return Result{}, tcore.ErrNoPath
	}
	return reconstruct(req, labels, goalKey), nil
}

// relax expands one settled label across every out-edge (forward search) or
// in-edge (reverse search) reachable from it, across every mode the rider
// could be using after any transfer available at this vertex.
func relax(req Request, calc *costcalc.Calculator, key stateKey, cur *label, labels map[stateKey]*label, settled map[stateKey]bool, pq *priorityQueue) {
	g := req.Graph
	v := key.Vertex

	var edges []tcore.Edge
	if req.ArriveBy {
		edges = g.InEdges(v)
	} else {
		edges = g.OutEdges(v)
	}

	for _, e := range edges {
		neighbour := e.Target
		if req.ArriveBy {
			neighbour = e.Source
		}

		newState := key.Automaton
		var penalty float64
		if e.Type == tcore.Road2Road {
			var okTransition bool
			newState, okTransition = req.Automaton.Transition(key.Automaton, e.RoadEdge)
			if !okTransition {
				continue
			}
			penalty = req.Automaton.Penalty(newState, g.Modes[key.Mode].TrafficRules)
		}

		var res costcalc.Result
		if req.Criterion == tcore.CriterionDistance {
			d, ok := calc.Distance(e, key.Mode)
			if !ok {
				continue
			}
			res = costcalc.Result{Delta: d, ShiftOut: cur.shiftTime}
		} else {
			wallClock := req.Time + cur.potential
			if req.ArriveBy {
				wallClock = req.Time - cur.potential
			}
			var ok bool
			res, ok = calc.TravelTime(e, key.Mode, wallClock, cur.shiftTime, cur.tripID)
			if !ok {
				continue
			}
			res.Delta += penalty
		}

		arrived := cur.potential + res.Delta

		for _, toMode := range req.AllowedModes {
			transferCost, ok := calc.TransferTime(e, key.Mode, toMode)
			if !ok {
				continue
			}

			nextPotential := arrived
			if req.Criterion == tcore.CriterionTime {
				nextPotential += transferCost
			}
			nextKey := stateKey{Vertex: neighbour, Automaton: newState, Mode: toMode}
			if settled[nextKey] {
				continue
			}

			existing, has := labels[nextKey]
			if has && existing.potential <= nextPotential {
				continue
			}

			labels[nextKey] = &label{
				potential: nextPotential,
				shiftTime: res.ShiftOut,
				tripID:    res.TripOut,
				hasPred:   true,
				pred:      key,
				predEdge:  e,
				predMode:  key.Mode,
				waitHere:  res.Wait,
			}
			heap.Push(pq, pqItem{key: nextKey, potential: nextPotential})
		}
	}
}

// reconstruct walks the predecessor chain from goal back to the search's
// start and orders it origin-to-destination. A forward search's chain runs
// destination-to-origin (each predecessor is earlier in time) and needs
// reversing; a reverse search's chain already runs origin-to-destination,
// since there the search walked backward from the destination and each
// predEdge points from the later-discovered (more origin-ward) vertex
// forward to the earlier one.
func reconstruct(req Request, labels map[stateKey]*label, goal stateKey) Result {
	var steps []Step
	for k := goal; ; {
		l := labels[k]
		if !l.hasPred {
			break
		}
		steps = append(steps, Step{Edge: l.predEdge, Mode: l.predMode, Trip: l.tripID, Wait: l.waitHere, Cost: l.potential})
		k = l.pred
	}

	if !req.ArriveBy {
		for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
			steps[i], steps[j] = steps[j], steps[i]
		}
	}

	total := labels[goal].potential
	result := Result{Steps: steps, TotalCost: total}
	if req.Criterion == tcore.CriterionDistance {
		result.DepartureTime = req.Time
		result.ArrivalTime = req.Time
		return result
	}
	if req.ArriveBy {
		result.ArrivalTime = req.Time
		result.DepartureTime = req.Time - total
	} else {
		result.DepartureTime = req.Time
		result.ArrivalTime = req.Time + total
	}
	return result
}
