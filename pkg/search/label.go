package search

import (
	"github.com/tempuscore/tempuscore/pkg/automaton"
	"github.com/tempuscore/tempuscore/pkg/tcore"
)

// stateKey is the extended search state: a multimodal vertex, the
// turn-restriction automaton state reached there, and the mode the rider is
// currently using.
type stateKey struct {
	Vertex    tcore.Vertex
	Automaton automaton.State
	Mode      tcore.ModeID
}

// less implements the extraction tie-break: equal-potential labels are
// ordered by (vertex, automaton state, mode) lexicographically, so the
// search is deterministic regardless of insertion order.
func (k stateKey) less(other stateKey) bool {
	ka, kb := vertexOrder(k.Vertex), vertexOrder(other.Vertex)
	for i := range ka {
		if ka[i] != kb[i] {
			return ka[i] < kb[i]
		}
	}
	if k.Automaton != other.Automaton {
		return k.Automaton < other.Automaton
	}
	return k.Mode < other.Mode
}

func vertexOrder(v tcore.Vertex) [5]int64 {
	return [5]int64{int64(v.Kind), int64(v.Road), int64(v.PTGraph), int64(v.PTVertex), int64(v.POI)}
}

// label is the settled/tentative information kept for one stateKey: the
// running potential (elapsed time from the search's fixed endpoint), the
// wait and shift carried for the reverse-search timetable law, the trip
// currently being ridden, and the predecessor link path reconstruction
// walks back along.
type label struct {
	potential float64
	shiftTime float64
	tripID    tcore.TripID

	hasPred  bool
	pred     stateKey
	predEdge tcore.Edge
	predMode tcore.ModeID
	waitHere float64
}

// pqItem is one entry of the open set's priority queue: a candidate label
// that may or may not still be the best known one for its key (label-setting
// Dijkstra with lazy deletion).
type pqItem struct {
	key       stateKey
	potential float64
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].potential != pq[j].potential {
		return pq[i].potential < pq[j].potential
	}
	return pq[i].key.less(pq[j].key)
}
func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x any) { *pq = append(*pq, x.(pqItem)) }

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
