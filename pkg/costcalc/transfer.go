package costcalc

import "github.com/tempuscore/tempuscore/pkg/tcore"

// TransferTime is the cost of switching, at the vertex e leads into, from
// the mode just ridden on e to a candidate mode to continue with. ok is
// false when the switch is physically impossible there (the vehicle being
// dropped has nowhere to go, or the one being picked up isn't available).
func (c *Calculator) TransferTime(e tcore.Edge, from, to tcore.ModeID) (float64, bool) {
	if from == to {
		return 0, true
	}
	fm, ok := c.graph.Modes[from]
	if !ok {
		return 0, false
	}
	tm, ok := c.graph.Modes[to]
	if !ok {
		return 0, false
	}
	if fm.IsPublicTransport && tm.IsPublicTransport {
		return 0, true
	}

	v := e.Target
	var cost float64

	switch {
	case fm.NeedParking:
		switch {
		case c.hostsMode(v, from):
			cost += c.parkingSearchCost(fm)
		case c.isPrivateParking(v) && !fm.IsShared:
			// free return to the rider's own private parking spot.
		case e.Type == tcore.Road2Road && c.roadAllowsParking(e, fm):
			cost += c.parkingSearchCost(fm)
		default:
			return 0, false
		}
	case fm.MustBeReturned:
		if !c.hostsMode(v, from) {
			return 0, false
		}
		cost += c.sharedVehicleTime
	}

	switch {
	case tm.IsShared:
		if !c.hostsMode(v, to) {
			return 0, false
		}
		cost += c.sharedVehicleTime
	case tm.NeedParking:
		// a private vehicle can only be collected from its own parking spot;
		// POI pickup is reserved for shared fleets, handled above.
		if !c.isPrivateParking(v) {
			return 0, false
		}
		cost += c.sharedVehicleTime
	}

	return cost, true
}

// parkingSearchCost is the time spent finding a spot to leave mode behind:
// negligible for a bicycle, a fixed search delay for a car, and the
// retrieve/return overhead for anything shared.
func (c *Calculator) parkingSearchCost(mode tcore.TransportMode) float64 {
	switch {
	case mode.IsShared:
		return c.sharedVehicleTime
	case mode.SpeedRule == tcore.SpeedRuleBicycle:
		return 0
	default:
		return c.carParkingSearch
	}
}

// roadAllowsParking reports whether the Road->Road edge just ridden allows
// kerbside parking for the mode being dropped.
func (c *Calculator) roadAllowsParking(e tcore.Edge, mode tcore.TransportMode) bool {
	re := c.graph.Road.Edges[e.RoadEdge]
	return re.ParkingTrafficRules&mode.TrafficRules != 0
}

// hostsMode reports whether v is a POI that can park or release mode.
func (c *Calculator) hostsMode(v tcore.Vertex, mode tcore.ModeID) bool {
	if v.Kind != tcore.VertexPoi {
		return false
	}
	return c.graph.POIByID(v.POI).HostsMode(mode)
}

// isPrivateParking reports whether v is the graph's one designated private
// parking road vertex.
func (c *Calculator) isPrivateParking(v tcore.Vertex) bool {
	if v.Kind != tcore.VertexRoad || c.graph.PrivateParking == nil {
		return false
	}
	return v.Road == *c.graph.PrivateParking
}
