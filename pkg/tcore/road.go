package tcore

// RoadVertexID and RoadEdgeID are dense, zero-based indices into RoadGraph's
// slices, so attribute access by descriptor is O(1).
type RoadVertexID int32
type RoadEdgeID int32

// RoadVertex carries only the parking-traffic-rule bitmask; everything else
// (coordinates, degree) is derived from RoadGraph.
type RoadVertex struct {
	ParkingTrafficRules TrafficRule
}

// RoadEdge is a directed road edge.
type RoadEdge struct {
	Source RoadVertexID
	Target RoadVertexID

	LengthMetres float64

	TrafficRules        TrafficRule // allowed-traffic-rule bitmask
	ParkingTrafficRules TrafficRule // parking-allowed-traffic-rule bitmask

	CarSpeedLimitKPH float64

	DBID int64 // stable database id, referenced by speed profiles

	// HasSpeedProfile is true when this edge has an entry in the loaded
	// speed profile, looked up by DBID.
	HasSpeedProfile bool
}

// RoadGraph is the static, immutable road network. Edges are grouped by
// source vertex for O(degree) out-edge enumeration; InEdges mirrors that
// for reverse search.
type RoadGraph struct {
	Vertices []RoadVertex
	Edges    []RoadEdge

	outEdges [][]RoadEdgeID
	inEdges  [][]RoadEdgeID
	// edgeIndex resolves (u,v) -> edge in O(1), built once at construction.
	edgeIndex map[[2]RoadVertexID]RoadEdgeID
}

// NewRoadGraph builds the adjacency and (u,v)->edge indices over a fixed set
// of vertices and edges. The graph is immutable afterwards: no method below
// mutates Vertices or Edges.
func NewRoadGraph(vertices []RoadVertex, edges []RoadEdge) *RoadGraph {
	g := &RoadGraph{
		Vertices:  vertices,
		Edges:     edges,
		outEdges:  make([][]RoadEdgeID, len(vertices)),
		inEdges:   make([][]RoadEdgeID, len(vertices)),
		edgeIndex: make(map[[2]RoadVertexID]RoadEdgeID, len(edges)),
	}
	for i, e := range edges {
		id := RoadEdgeID(i)
		g.outEdges[e.Source] = append(g.outEdges[e.Source], id)
		g.inEdges[e.Target] = append(g.inEdges[e.Target], id)
		g.edgeIndex[[2]RoadVertexID{e.Source, e.Target}] = id
	}
	return g
}

// OutEdges returns the out-edges of v in O(degree).
func (g *RoadGraph) OutEdges(v RoadVertexID) []RoadEdgeID { return g.outEdges[v] }

// InEdges returns the in-edges of v, used by the reverse search direction.
func (g *RoadGraph) InEdges(v RoadVertexID) []RoadEdgeID { return g.inEdges[v] }

// Edge resolves (u,v) to an edge descriptor in O(1).
func (g *RoadGraph) Edge(u, v RoadVertexID) (RoadEdgeID, bool) {
	id, ok := g.edgeIndex[[2]RoadVertexID{u, v}]
	return id, ok
}

// NumVertices returns the vertex count.
func (g *RoadGraph) NumVertices() int { return len(g.Vertices) }
