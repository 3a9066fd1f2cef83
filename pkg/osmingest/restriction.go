package osmingest

import "strings"

// rawRestriction is one `type=restriction` relation collected during the
// relation pass, before it has been resolved against emitted sections.
type rawRestriction struct {
	fromWay int64
	viaNode int64
	toWay   int64
	tag     string
}

// parsedKind decomposes an OSM `restriction` tag value into the two axes the
// resolver cares about: whether it's a No*/Only* restriction, and which
// geometric turn it names (used to disambiguate when `to` admits more than
// one candidate section).
type parsedKind struct {
	only bool
	turn string // "left", "right", "straight" or "u_turn"
}

func parseRestrictionTag(tag string) (parsedKind, bool) {
	v := strings.ToLower(tag)
	only := strings.HasPrefix(v, "only_")
	no := strings.HasPrefix(v, "no_")
	if !only && !no {
		return parsedKind{}, false
	}
	switch {
	case strings.Contains(v, "left"):
		return parsedKind{only: only, turn: "left"}, true
	case strings.Contains(v, "right"):
		return parsedKind{only: only, turn: "right"}, true
	case strings.Contains(v, "straight"):
		return parsedKind{only: only, turn: "straight"}, true
	case strings.Contains(v, "u_turn"):
		return parsedKind{only: only, turn: "u_turn"}, true
	}
	return parsedKind{}, false
}

// sectionGeom is the subset of a built section's data the resolver needs:
// its endpoints and enough geometry to compute a turn angle.
type sectionGeom struct {
	id             int64
	wayID          int64
	nodeFrom       int64
	nodeTo         int64
	secondPoint    LonLat // first point after NodeFrom
	secondLastPoint LonLat // last point before NodeTo
}

// resolveRestrictions turns raw relations into edge-pair records: for each
// one, find the section arriving at `via` from `from_way`, the candidate section(s) of
// `to_way` departing from `via`, disambiguate geometrically when there is
// more than one candidate, and emit a No-equivalent Restriction per
// forbidden continuation (Only* expands to every other candidate).
func resolveRestrictions(raws []rawRestriction, sectionsByWay map[int64][]sectionGeom, sectionsFromNode map[int64][]sectionGeom, coords map[int64]LonLat) []Restriction {
	var out []Restriction
	nextID := int64(1)

	for _, r := range raws {
		kind, ok := parseRestrictionTag(r.tag)
		if !ok {
			continue
		}

		from, ok := findArriving(sectionsByWay[r.fromWay], r.viaNode)
		if !ok {
			continue
		}

		candidates := sectionsFromNode[r.viaNode]
		if len(candidates) == 0 {
			continue
		}

		toCandidates := filterByWay(candidates, r.toWay)
		if len(toCandidates) == 0 {
			continue
		}

		var to sectionGeom
		if len(toCandidates) == 1 {
			to = toCandidates[0]
		} else {
			resolved, ok := disambiguate(toCandidates, from, kind.turn, coords[r.viaNode])
			if !ok {
				continue
			}
			to = resolved
		}

		if kind.only {
			for _, other := range candidates {
				if other.id == to.id {
					continue
				}
				out = append(out, Restriction{RestrictionID: nextID, EdgeIDs: [2]int64{from.id, other.id}})
				nextID++
			}
			continue
		}

		out = append(out, Restriction{RestrictionID: nextID, EdgeIDs: [2]int64{from.id, to.id}})
		nextID++
	}

	return out
}

func findArriving(sections []sectionGeom, node int64) (sectionGeom, bool) {
	for _, s := range sections {
		if s.nodeTo == node {
			return s, true
		}
	}
	return sectionGeom{}, false
}

func filterByWay(sections []sectionGeom, wayID int64) []sectionGeom {
	var out []sectionGeom
	for _, s := range sections {
		if s.wayID == wayID {
			out = append(out, s)
		}
	}
	return out
}

// disambiguate picks among two or more candidate sections departing `via`
// by signed turn angle: left wants the most negative angle, right the most
// positive, straight (and u_turn) the smallest magnitude.
func disambiguate(candidates []sectionGeom, from sectionGeom, turn string, via LonLat) (sectionGeom, bool) {
	best := -1
	bestAngle := 0.0
	for i, c := range candidates {
		angle := turnAngleDegrees(from.secondLastPoint, via, c.secondPoint)
		switch turn {
		case "left":
			if angle < 0 && (best == -1 || angle < bestAngle) {
				best, bestAngle = i, angle
			}
		case "right":
			if angle > 0 && (best == -1 || angle > bestAngle) {
				best, bestAngle = i, angle
			}
		case "straight", "u_turn":
			if best == -1 || absf(angle) < absf(bestAngle) {
				best, bestAngle = i, angle
			}
		}
	}
	if best == -1 {
		return sectionGeom{}, false
	}
	return candidates[best], true
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
