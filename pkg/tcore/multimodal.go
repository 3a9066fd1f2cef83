package tcore

import "fmt"

// VertexKind tags which arm of the Multimodal vertex union is populated.
type VertexKind int

const (
	VertexRoad VertexKind = iota
	VertexStop
	VertexPoi
)

// Vertex is a multimodal vertex: a tagged union of {Road vertex,
// Public-transport stop, POI}. It is a plain comparable struct so it can be
// used directly as a map key (labels are keyed by (Vertex, state, mode)).
type Vertex struct {
	Kind VertexKind

	Road RoadVertexID // valid when Kind == VertexRoad

	PTGraph  PTGraphID  // valid when Kind == VertexStop
	PTVertex PTVertexID // valid when Kind == VertexStop

	POI POIID // valid when Kind == VertexPoi
}

func RoadVertexOf(v RoadVertexID) Vertex { return Vertex{Kind: VertexRoad, Road: v} }
func StopVertexOf(g PTGraphID, v PTVertexID) Vertex {
	return Vertex{Kind: VertexStop, PTGraph: g, PTVertex: v}
}
func POIVertexOf(id POIID) Vertex { return Vertex{Kind: VertexPoi, POI: id} }

func (v Vertex) String() string {
	switch v.Kind {
	case VertexRoad:
		return fmt.Sprintf("road#%d", v.Road)
	case VertexStop:
		return fmt.Sprintf("stop#%d.%d", v.PTGraph, v.PTVertex)
	case VertexPoi:
		return fmt.Sprintf("poi#%d", v.POI)
	}
	return "?"
}

// ConnectionType tags which pair of vertex kinds a multimodal edge joins.
type ConnectionType int

const (
	Road2Road ConnectionType = iota
	Road2Transport
	Transport2Road
	Transport2Transport
	Road2Poi
	Poi2Road
)

// Edge is a multimodal edge: a tagged union whose connection type selects
// which field(s) below are meaningful. Edges are derived on the fly by
// Graph.OutEdges/InEdges rather than stored.
type Edge struct {
	Type           ConnectionType
	Source, Target Vertex

	RoadEdge RoadEdgeID // valid for Road2Road
	PTEdge   PTEdgeID   // valid for Transport2Transport, within Source/Target's PTGraph
}

// Graph is the top-level multimodal graph: the static, immutable union of
// the road network, a PT-subgraph arena and a POI set. No mutation is
// possible after NewGraph returns.
type Graph struct {
	Road     *RoadGraph
	ptGraphs []*PTGraph
	pois     []POI
	Modes    ModeTable

	// PrivateParking is the one road vertex, if any, where a private
	// (non-shared) vehicle may be parked without a POI.
	PrivateParking *RoadVertexID

	stopsByRoadVertex map[RoadVertexID][]Vertex
	poisByRoadVertex  map[RoadVertexID][]Vertex
}

// NewGraph builds the Road<->Stop and Road<->POI attachment indices that
// back multimodal out-edge enumeration. It returns ErrDataCorruption for a
// stop or POI referencing an unknown road edge or carrying an abscissa
// outside [0,1]; that is a load-time-only failure, never surfaced per query.
func NewGraph(road *RoadGraph, ptGraphs []*PTGraph, pois []POI, modes ModeTable, privateParking *RoadVertexID) (*Graph, error) {
	g := &Graph{
		Road:              road,
		ptGraphs:          ptGraphs,
		pois:              pois,
		Modes:             modes,
		PrivateParking:    privateParking,
		stopsByRoadVertex: make(map[RoadVertexID][]Vertex),
		poisByRoadVertex:  make(map[RoadVertexID][]Vertex),
	}

	for gi, pt := range ptGraphs {
		for vi, stop := range pt.Stops {
			if int(stop.RoadEdge) < 0 || int(stop.RoadEdge) >= len(road.Edges) {
				return nil, fmt.Errorf("%w: stop %d in pt graph %d references unknown road edge %d", ErrDataCorruption, vi, gi, stop.RoadEdge)
			}
			if stop.Abscissa < 0 || stop.Abscissa > 1 {
				return nil, fmt.Errorf("%w: stop %d in pt graph %d has abscissa %f out of [0,1]", ErrDataCorruption, vi, gi, stop.Abscissa)
			}
			re := road.Edges[stop.RoadEdge]
			v := StopVertexOf(PTGraphID(gi), PTVertexID(vi))
			g.stopsByRoadVertex[re.Source] = append(g.stopsByRoadVertex[re.Source], v)
			g.stopsByRoadVertex[re.Target] = append(g.stopsByRoadVertex[re.Target], v)
		}
	}

	for pi, poi := range pois {
		if int(poi.RoadEdge) < 0 || int(poi.RoadEdge) >= len(road.Edges) {
			return nil, fmt.Errorf("%w: poi %d references unknown road edge %d", ErrDataCorruption, pi, poi.RoadEdge)
		}
		if poi.Abscissa < 0 || poi.Abscissa > 1 {
			return nil, fmt.Errorf("%w: poi %d has abscissa %f out of [0,1]", ErrDataCorruption, pi, poi.Abscissa)
		}
		re := road.Edges[poi.RoadEdge]
		v := POIVertexOf(POIID(pi))
		g.poisByRoadVertex[re.Source] = append(g.poisByRoadVertex[re.Source], v)
		g.poisByRoadVertex[re.Target] = append(g.poisByRoadVertex[re.Target], v)
	}

	return g, nil
}

// HasVertex reports whether v refers to an existing vertex of this graph,
// used by the search engine to reject a request naming an unknown origin or
// destination before any label is created.
func (g *Graph) HasVertex(v Vertex) bool {
	switch v.Kind {
	case VertexRoad:
		return int(v.Road) >= 0 && int(v.Road) < len(g.Road.Vertices)
	case VertexStop:
		if int(v.PTGraph) < 0 || int(v.PTGraph) >= len(g.ptGraphs) {
			return false
		}
		return int(v.PTVertex) >= 0 && int(v.PTVertex) < len(g.ptGraphs[v.PTGraph].Stops)
	case VertexPoi:
		return int(v.POI) >= 0 && int(v.POI) < len(g.pois)
	}
	return false
}

// PTGraphByID returns the PT subgraph at id.
func (g *Graph) PTGraphByID(id PTGraphID) *PTGraph { return g.ptGraphs[id] }

// POIByID returns the POI at id.
func (g *Graph) POIByID(id POIID) *POI { return &g.pois[id] }

// Stop returns the Stop record a stop vertex refers to.
func (g *Graph) Stop(v Vertex) *Stop { return &g.ptGraphs[v.PTGraph].Stops[v.PTVertex] }

// OutEdges enumerates the multimodal out-edges of v:
// a road vertex yields its road out-edges plus every incident stop/POI
// attachment; a stop yields its PT out-edges plus the road edges back to its
// attachment edge's two endpoints; a POI yields the road edges back to its
// attachment edge's two endpoints.
func (g *Graph) OutEdges(v Vertex) []Edge {
	switch v.Kind {
	case VertexRoad:
		var edges []Edge
		for _, re := range g.Road.OutEdges(v.Road) {
			e := g.Road.Edges[re]
			edges = append(edges, Edge{Type: Road2Road, Source: v, Target: RoadVertexOf(e.Target), RoadEdge: re})
		}
		for _, stop := range g.stopsByRoadVertex[v.Road] {
			edges = append(edges, Edge{Type: Road2Transport, Source: v, Target: stop})
		}
		for _, poi := range g.poisByRoadVertex[v.Road] {
			edges = append(edges, Edge{Type: Road2Poi, Source: v, Target: poi})
		}
		return edges

	case VertexStop:
		pt := g.ptGraphs[v.PTGraph]
		stop := pt.Stops[v.PTVertex]
		var edges []Edge
		for _, se := range pt.OutEdges(v.PTVertex) {
			sec := pt.Sections[se]
			edges = append(edges, Edge{
				Type: Transport2Transport, Source: v,
				Target: StopVertexOf(v.PTGraph, sec.Target), PTEdge: se,
			})
		}
		re := g.Road.Edges[stop.RoadEdge]
		edges = append(edges,
			Edge{Type: Transport2Road, Source: v, Target: RoadVertexOf(re.Source)},
			Edge{Type: Transport2Road, Source: v, Target: RoadVertexOf(re.Target)},
		)
		return edges

	case VertexPoi:
		poi := g.pois[v.POI]
		re := g.Road.Edges[poi.RoadEdge]
		return []Edge{
			{Type: Poi2Road, Source: v, Target: RoadVertexOf(re.Source)},
			{Type: Poi2Road, Source: v, Target: RoadVertexOf(re.Target)},
		}
	}
	return nil
}

// InEdges enumerates the multimodal in-edges of v: the edges a reverse
// search (fixing the arrival time and walking backward) follows. It mirrors
// OutEdges exactly, using RoadGraph/PTGraph in-adjacency in place of
// out-adjacency; attachment edges are symmetric so the same
// stopsByRoadVertex/poisByRoadVertex indices serve both directions.
func (g *Graph) InEdges(v Vertex) []Edge {
	switch v.Kind {
	case VertexRoad:
		var edges []Edge
		for _, re := range g.Road.InEdges(v.Road) {
			e := g.Road.Edges[re]
			edges = append(edges, Edge{Type: Road2Road, Source: RoadVertexOf(e.Source), Target: v, RoadEdge: re})
		}
		for _, stop := range g.stopsByRoadVertex[v.Road] {
			edges = append(edges, Edge{Type: Transport2Road, Source: stop, Target: v})
		}
		for _, poi := range g.poisByRoadVertex[v.Road] {
			edges = append(edges, Edge{Type: Poi2Road, Source: poi, Target: v})
		}
		return edges

	case VertexStop:
		pt := g.ptGraphs[v.PTGraph]
		stop := pt.Stops[v.PTVertex]
		var edges []Edge
		for _, se := range pt.InEdges(v.PTVertex) {
			sec := pt.Sections[se]
			edges = append(edges, Edge{
				Type: Transport2Transport, Source: StopVertexOf(v.PTGraph, sec.Source),
				Target: v, PTEdge: se,
			})
		}
		re := g.Road.Edges[stop.RoadEdge]
		edges = append(edges,
			Edge{Type: Road2Transport, Source: RoadVertexOf(re.Source), Target: v},
			Edge{Type: Road2Transport, Source: RoadVertexOf(re.Target), Target: v},
		)
		return edges

	case VertexPoi:
		poi := g.pois[v.POI]
		re := g.Road.Edges[poi.RoadEdge]
		return []Edge{
			{Type: Road2Poi, Source: RoadVertexOf(re.Source), Target: v},
			{Type: Road2Poi, Source: RoadVertexOf(re.Target), Target: v},
		}
	}
	return nil
}

// AttachmentFraction returns the fraction of the attachment road edge's
// length that must be walked/ridden to reach v from the given road-vertex
// endpoint, used by the cost calculator for Road2Transport/Transport2Road/
// Road2Poi/Poi2Road edges.
func (g *Graph) AttachmentFraction(roadEdge RoadEdgeID, abscissa float64, fromSource bool) float64 {
	if fromSource {
		return abscissa
	}
	return 1 - abscissa
}
