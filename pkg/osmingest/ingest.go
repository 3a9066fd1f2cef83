package osmingest

import (
	"context"
	"io"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

// wayRecord is one retained way (has a highway tag) from the first pass.
type wayRecord struct {
	nodes []int64
	tags  map[string]string
}

// Ingest reads the PBF stream at r (which must support Seek, as this is a
// two-pass reader: one pass to learn which nodes are referenced and how
// many times, a second to read their coordinates and emit everything) and
// drives w through the begin/write/end phases of the Writer contract.
func Ingest(ctx context.Context, r io.ReadSeeker, w Writer, progress ProgressSink) error {
	if progress == nil {
		progress = NoProgress{}
	}

	ways := map[int64]wayRecord{}
	// wayOrder preserves file encounter order so section ids (and the
	// restriction records built from them) are reproducible run to run.
	var wayOrder []int64
	uses := map[int64]int{}
	var raws []rawRestriction

	progress.Phase("scan ways and relations")
	scanner := osmpbf.New(ctx, r, 0)
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Way:
			if !acceptWay(o) {
				continue
			}
			nodes := make([]int64, len(o.Nodes))
			for i, n := range o.Nodes {
				id := int64(n.ID)
				nodes[i] = id
				if uses[id] < 2 {
					uses[id]++
				}
			}
			tags := map[string]string{}
			for _, t := range o.Tags {
				tags[t.Key] = t.Value
			}
			if _, seen := ways[int64(o.ID)]; !seen {
				wayOrder = append(wayOrder, int64(o.ID))
			}
			ways[int64(o.ID)] = wayRecord{nodes: nodes, tags: tags}

		case *osm.Relation:
			if o.Tags.Find("type") != "restriction" {
				continue
			}
			tag := o.Tags.Find("restriction")
			if tag == "" {
				continue
			}
			var from, via, to int64
			viaIsNode := false
			for _, m := range o.Members {
				switch m.Role {
				case "from":
					from = m.Ref
				case "to":
					to = m.Ref
				case "via":
					via = m.Ref
					viaIsNode = m.Type == osm.TypeNode
				}
			}
			if from == 0 || to == 0 || via == 0 || !viaIsNode {
				continue
			}
			raws = append(raws, rawRestriction{fromWay: from, viaNode: via, toWay: to, tag: tag})
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return err
	}
	scanner.Close()

	referenced := map[int64]bool{}
	for _, wr := range ways {
		for _, n := range wr.nodes {
			referenced[n] = true
		}
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return err
	}

	coords := map[int64]LonLat{}

	progress.Phase("read referenced nodes")
	if err := w.BeginNodes(); err != nil {
		return err
	}
	scanner = osmpbf.New(ctx, r, 0)
	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		id := int64(n.ID)
		if !referenced[id] {
			continue
		}
		coords[id] = LonLat{Lon: n.Lon, Lat: n.Lat}
		if err := w.WriteNode(id, n.Lon, n.Lat); err != nil {
			scanner.Close()
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return err
	}
	scanner.Close()
	if err := w.EndNodes(); err != nil {
		return err
	}

	progress.Phase("split ways into sections")
	if err := w.BeginSections(); err != nil {
		return err
	}

	var nextSectionID int64 = 1
	sectionsByWay := map[int64][]sectionGeom{}
	sectionsFromNode := map[int64][]sectionGeom{}

	for _, wayID := range wayOrder {
		wr := ways[wayID]
		start := 0
		for i := 1; i < len(wr.nodes); i++ {
			node := wr.nodes[i]
			last := i == len(wr.nodes)-1
			if !last && uses[node] < 2 {
				continue
			}

			segment := wr.nodes[start : i+1]
			points := make([]LonLat, len(segment))
			for j, n := range segment {
				points[j] = coords[n]
			}

			sec := Section{
				WayID:     wayID,
				SectionID: nextSectionID,
				NodeFrom:  segment[0],
				NodeTo:    segment[len(segment)-1],
				Points:    points,
				Tags:      wr.tags,
			}
			if err := w.WriteSection(sec); err != nil {
				return err
			}

			geom := sectionGeom{
				id:              sec.SectionID,
				wayID:           wayID,
				nodeFrom:        sec.NodeFrom,
				nodeTo:          sec.NodeTo,
				secondPoint:     points[1],
				secondLastPoint: points[len(points)-2],
			}
			sectionsByWay[wayID] = append(sectionsByWay[wayID], geom)
			sectionsFromNode[sec.NodeFrom] = append(sectionsFromNode[sec.NodeFrom], geom)

			nextSectionID++
			start = i
		}
	}

	if err := w.EndSections(); err != nil {
		return err
	}

	progress.Phase("resolve turn restrictions")
	if err := w.BeginRestrictions(); err != nil {
		return err
	}
	for _, res := range resolveRestrictions(raws, sectionsByWay, sectionsFromNode, coords) {
		if err := w.WriteRestriction(res); err != nil {
			return err
		}
	}
	return w.EndRestrictions()
}

func acceptWay(w *osm.Way) bool {
	return w.Tags.Find("highway") != "" && len(w.Nodes) >= 2
}
