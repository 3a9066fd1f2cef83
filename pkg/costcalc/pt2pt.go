package costcalc

import "github.com/tempuscore/tempuscore/pkg/tcore"

// pt2pt computes the cost of riding one public-transport section: a
// Transport2Transport edge is driven either by an exact Timetable or by a
// FrequencyTable, never both.
//
// Same-trip continuation (the rider never got off) is resolved by looking
// the incoming trip up directly rather than by the departure-ordered
// next-departure scan: a later trip can depart before the current trip's
// own continuation, and the scan would skip straight past it.
func (c *Calculator) pt2pt(e tcore.Edge, t, shift float64, tripIn tcore.TripID) (Result, bool) {
	pt := c.graph.PTGraphByID(e.Source.PTGraph)
	sec := pt.Sections[e.PTEdge]

	switch c.direction {
	case tcore.Forward:
		return c.pt2ptForward(sec, t, shift, tripIn)
	default:
		return c.pt2ptReverse(sec, t, shift, tripIn)
	}
}

func (c *Calculator) pt2ptForward(sec tcore.Section, t, shift float64, tripIn tcore.TripID) (Result, bool) {
	if sec.Timetable != nil {
		if tripIn != 0 {
			if tt, ok := sec.Timetable.ByTrip(tripIn); ok && tt.Arrival >= t && c.inService(tt.ServiceID) {
				return Result{Delta: tt.Arrival - t, ShiftOut: shift, TripOut: tripIn}, true
			}
		}
		next, ok := sec.Timetable.NextDeparture(t+c.minTransferTime, c.date, c.svc)
		if !ok {
			return Result{}, false
		}
		wait := next.Departure - t
		return Result{Delta: next.Arrival - t, ShiftOut: shift, TripOut: next.TripID, Wait: wait}, true
	}

	if sec.Frequency != nil {
		if tripIn != 0 {
			if _, rec, ok := sec.Frequency.IntervalCovering(t); ok && rec.TripID == tripIn && t <= rec.EndTime {
				return Result{Delta: rec.TravelTime, ShiftOut: shift, TripOut: tripIn}, true
			}
		}
		after := t + c.minTransferTime
		if _, rec, ok := sec.Frequency.IntervalCovering(after); ok && after <= rec.EndTime {
			wait := rec.Headway / 2
			return Result{Delta: rec.TravelTime + wait, ShiftOut: shift, TripOut: rec.TripID, Wait: wait}, true
		}
		if _, rec, ok := sec.Frequency.NextInterval(after); ok {
			wait := rec.Headway / 2
			return Result{Delta: rec.TravelTime + wait, ShiftOut: shift, TripOut: rec.TripID, Wait: wait}, true
		}
		return Result{}, false
	}

	return Result{}, false
}

// pt2ptReverse mirrors the forward rule for a search that fixes the arrival
// time and walks backward: it asks "what is the latest run of this section
// that gets a rider to t", continuing the current trip when possible and
// otherwise accepting the transfer-time penalty on the far side.
func (c *Calculator) pt2ptReverse(sec tcore.Section, t, shift float64, tripIn tcore.TripID) (Result, bool) {
	if sec.Timetable != nil {
		if tripIn != 0 {
			if tt, ok := sec.Timetable.ByTrip(tripIn); ok && tt.Departure <= t && c.inService(tt.ServiceID) {
				return Result{Delta: t - tt.Departure, ShiftOut: shift, TripOut: tripIn}, true
			}
		}
		prev, ok := sec.Timetable.PreviousArrival(t-c.minTransferTime, c.date, c.svc)
		if !ok {
			return Result{}, false
		}
		wait := (t - c.minTransferTime) - prev.Arrival
		return Result{Delta: t - prev.Departure, ShiftOut: shift, TripOut: prev.TripID, Wait: wait}, true
	}

	if sec.Frequency != nil {
		if tripIn != 0 {
			if _, rec, ok := sec.Frequency.IntervalCovering(t); ok && rec.TripID == tripIn && t <= rec.EndTime {
				return Result{Delta: rec.TravelTime, ShiftOut: shift, TripOut: tripIn}, true
			}
		}
		before := t - c.minTransferTime
		if _, rec, ok := sec.Frequency.IntervalCovering(before); ok {
			// a deadline inside the interval boards any run; one past its
			// end still catches the last run at EndTime, mirroring the
			// forward NextInterval fallback on the reversed time axis.
			wait := rec.Headway / 2
			return Result{Delta: rec.TravelTime + wait, ShiftOut: shift, TripOut: rec.TripID, Wait: wait}, true
		}
		return Result{}, false
	}

	return Result{}, false
}

func (c *Calculator) inService(svc tcore.ServiceID) bool {
	if c.svc == nil {
		return true
	}
	return c.svc.IsAvailableOn(svc, c.date)
}
