package tcore

import "testing"

func TestRoadGraphAdjacency(t *testing.T) {
	road := NewRoadGraph(
		[]RoadVertex{{}, {}, {}},
		[]RoadEdge{
			{Source: 0, Target: 1, LengthMetres: 100},
			{Source: 1, Target: 2, LengthMetres: 200},
		},
	)

	t.Run("out edges", func(t *testing.T) {
		out := road.OutEdges(0)
		if len(out) != 1 || out[0] != 0 {
			t.Fatalf("OutEdges(0) = %v, want [0]", out)
		}
	})

	t.Run("in edges", func(t *testing.T) {
		in := road.InEdges(2)
		if len(in) != 1 || in[0] != 1 {
			t.Fatalf("InEdges(2) = %v, want [1]", in)
		}
	})

	t.Run("edge lookup", func(t *testing.T) {
		id, ok := road.Edge(0, 1)
		if !ok || id != 0 {
			t.Fatalf("Edge(0,1) = (%v, %v), want (0, true)", id, ok)
		}
		if _, ok := road.Edge(0, 2); ok {
			t.Fatalf("Edge(0,2) should not exist")
		}
	})

	t.Run("dead end has no out edges", func(t *testing.T) {
		if out := road.OutEdges(2); len(out) != 0 {
			t.Fatalf("OutEdges(2) = %v, want empty", out)
		}
	})
}
