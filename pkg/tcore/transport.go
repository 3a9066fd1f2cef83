package tcore

import (
	"sort"
	"time"
)

// PTVertexID and PTEdgeID index a single PublicTransport subgraph's stops
// and sections.
type PTVertexID int32
type PTEdgeID int32

// PTGraphID indexes into the top-level multimodal graph's arena of PT
// subgraphs. Stops carry this back-reference instead of a pointer to their
// containing subgraph: the arena (Graph.ptGraphs) owns every PTGraph, a Stop
// only ever holds an index into it, so the stop/subgraph cycle never becomes
// an ownership cycle.
type PTGraphID int32

// Stop is a public-transport stop.
type Stop struct {
	Name    string
	Station bool
	Parent  *PTVertexID // optional parent-station back-reference, within the same PTGraph

	RoadEdge        RoadEdgeID
	OppositeRoadEdge *RoadEdgeID // optional
	Abscissa        float64      // in [0,1], position along RoadEdge from source to target

	FareZone int32

	Lon, Lat float64
}

// TripID distinguishes transfers from continuations on the same vehicle run.
type TripID int64

// ServiceID is a schedule identifier, resolved against a ServiceMap.
type ServiceID int64

// TripTime is one scheduled run of a trip over a PT section, in minutes
// since midnight on its service day.
type TripTime struct {
	Departure float64
	Arrival   float64
	TripID    TripID
	ServiceID ServiceID
}

// Timetable is a sorted sequence of TripTime, ordered by Departure
// ascending. The invariant (monotone non-decreasing Departure) is the
// caller's responsibility at construction time; NewTimetable sorts
// defensively so it always holds afterwards.
type Timetable struct {
	entries []TripTime
	byTrip  map[TripID]TripTime
}

// NewTimetable builds a Timetable, sorting by Departure ascending and
// indexing entries by TripID so a rider already aboard a trip can look up
// this section's leg of it directly rather than transferring.
func NewTimetable(entries []TripTime) *Timetable {
	sorted := make([]TripTime, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Departure < sorted[j].Departure })
	byTrip := make(map[TripID]TripTime, len(sorted))
	for _, e := range sorted {
		byTrip[e.TripID] = e
	}
	return &Timetable{entries: sorted, byTrip: byTrip}
}

// ByTrip returns the TripTime this section runs for the given trip, if any.
func (t *Timetable) ByTrip(trip TripID) (TripTime, bool) {
	e, ok := t.byTrip[trip]
	return e, ok
}

// Entries exposes the sorted sequence read-only.
func (t *Timetable) Entries() []TripTime { return t.entries }

// NextDeparture returns the first entry with Departure >= since that is in
// service on date according to svc, or (zero, false) if none exists: the
// forward "next departure >= t" lookup.
func (t *Timetable) NextDeparture(since float64, date time.Time, svc *ServiceMap) (TripTime, bool) {
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].Departure >= since })
	for ; i < len(t.entries); i++ {
		if svc == nil || svc.IsAvailableOn(t.entries[i].ServiceID, date) {
			return t.entries[i], true
		}
	}
	return TripTime{}, false
}

// PreviousArrival returns the last entry with Arrival <= until that is in
// service on date, or (zero, false) if none exists: the backward "previous
// arrival <= t" lookup used by reverse search.
func (t *Timetable) PreviousArrival(until float64, date time.Time, svc *ServiceMap) (TripTime, bool) {
	// entries are sorted by Departure, and Arrival >= Departure, so we can't
	// binary-search Arrival directly; walk back from the first entry whose
	// Departure exceeds `until` (a safe upper bound on Arrival candidates)
	// and take the best in-service entry with Arrival <= until.
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].Departure > until })
	best := -1
	for j := i - 1; j >= 0; j-- {
		if t.entries[j].Arrival > until {
			continue
		}
		if svc != nil && !svc.IsAvailableOn(t.entries[j].ServiceID, date) {
			continue
		}
		if best == -1 || t.entries[j].Arrival > t.entries[best].Arrival {
			best = j
		}
	}
	if best == -1 {
		return TripTime{}, false
	}
	return t.entries[best], true
}

// FrequencyRecord is a frequency-based service: a trip running from some
// start time (the containing map's key) to EndTime at Headway intervals.
type FrequencyRecord struct {
	TripID     TripID
	EndTime    float64
	Headway    float64
	TravelTime float64
}

// FrequencyTable is a sorted-by-start-time sequence of FrequencyRecord,
// mirroring Timetable's shape for headway-based sections.
type FrequencyTable struct {
	starts  []float64
	records []FrequencyRecord
}

// NewFrequencyTable builds a FrequencyTable from start-time -> record pairs,
// sorted by start time ascending.
func NewFrequencyTable(starts []float64, records []FrequencyRecord) *FrequencyTable {
	type pair struct {
		start float64
		rec   FrequencyRecord
	}
	pairs := make([]pair, len(starts))
	for i := range starts {
		pairs[i] = pair{starts[i], records[i]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].start < pairs[j].start })
	ft := &FrequencyTable{starts: make([]float64, len(pairs)), records: make([]FrequencyRecord, len(pairs))}
	for i, p := range pairs {
		ft.starts[i] = p.start
		ft.records[i] = p.rec
	}
	return ft
}

// IntervalCovering returns the last interval whose start is <= t, or
// (zero, false) if t precedes every interval.
func (f *FrequencyTable) IntervalCovering(t float64) (start float64, rec FrequencyRecord, ok bool) {
	i := sort.Search(len(f.starts), func(i int) bool { return f.starts[i] > t })
	if i == 0 {
		return 0, FrequencyRecord{}, false
	}
	return f.starts[i-1], f.records[i-1], true
}

// NextInterval returns the first interval whose start is > t, or
// (zero, false) if none follows.
func (f *FrequencyTable) NextInterval(t float64) (start float64, rec FrequencyRecord, ok bool) {
	i := sort.Search(len(f.starts), func(i int) bool { return f.starts[i] > t })
	if i >= len(f.starts) {
		return 0, FrequencyRecord{}, false
	}
	return f.starts[i], f.records[i], true
}

// Section is a public-transport section (edge): a network id and the
// Timetable (or frequency table) that drives Transport2Transport costs.
type Section struct {
	Source, Target PTVertexID
	NetworkID      int64

	Timetable *Timetable      // nil when this section is frequency-based
	Frequency *FrequencyTable // nil when this section is timetable-based
}

// PTGraph is one public-transport network: a set of stops and sections.
// Several independent networks (e.g. separate operators) can coexist in a
// single Multimodal Graph, each its own PTGraph in the graph's arena.
type PTGraph struct {
	Stops    []Stop
	Sections []Section

	outEdges [][]PTEdgeID
	inEdges  [][]PTEdgeID
}

// NewPTGraph builds out/in adjacency over a fixed stop and section set.
func NewPTGraph(stops []Stop, sections []Section) *PTGraph {
	g := &PTGraph{
		Stops:    stops,
		Sections: sections,
		outEdges: make([][]PTEdgeID, len(stops)),
		inEdges:  make([][]PTEdgeID, len(stops)),
	}
	for i, s := range sections {
		id := PTEdgeID(i)
		g.outEdges[s.Source] = append(g.outEdges[s.Source], id)
		g.inEdges[s.Target] = append(g.inEdges[s.Target], id)
	}
	return g
}

// OutEdges returns the PT out-edges of v in O(degree).
func (g *PTGraph) OutEdges(v PTVertexID) []PTEdgeID { return g.outEdges[v] }

// InEdges returns the PT in-edges of v, used by reverse search.
func (g *PTGraph) InEdges(v PTVertexID) []PTEdgeID { return g.inEdges[v] }

// ServiceMap maps a service id to the set of dates it runs. Availability is
// an exact date-membership check, never a day-of-week or calendar-range
// rule; any such expansion has already happened by the time dates reach
// here.
type ServiceMap struct {
	dates map[ServiceID]map[string]struct{} // date key: "2006-01-02"
}

// NewServiceMap builds a ServiceMap from service -> dates-in-service.
func NewServiceMap(byService map[ServiceID][]time.Time) *ServiceMap {
	sm := &ServiceMap{dates: make(map[ServiceID]map[string]struct{}, len(byService))}
	for svc, dates := range byService {
		set := make(map[string]struct{}, len(dates))
		for _, d := range dates {
			set[dateKey(d)] = struct{}{}
		}
		sm.dates[svc] = set
	}
	return sm
}

// IsAvailableOn reports whether svc runs on date. Unknown service ids are
// treated as never in service rather than an error, so a timetable entry
// referencing one is simply skipped at query time.
func (sm *ServiceMap) IsAvailableOn(svc ServiceID, date time.Time) bool {
	set, ok := sm.dates[svc]
	if !ok {
		return false
	}
	_, ok = set[dateKey(date)]
	return ok
}

func dateKey(t time.Time) string { return t.Format("2006-01-02") }
