// Package costcalc computes multimodal edge traversal costs: a pure function
// family over edge, mode, departure time and the trip currently being
// ridden, plus the cost of switching modes at a vertex.
package costcalc

import (
	"math"
	"time"

	"github.com/tempuscore/tempuscore/pkg/tcore"
)

// Inf marks an edge, mode or transfer that can never be taken.
const Inf = math.MaxFloat64

// Fixed walk-in penalty for entering or leaving a stop or POI, in minutes.
const stationPenalty = 0.1

// Result is the five-tuple a relaxation step threads through the label
// table: elapsed time, the shift_time to carry forward on a reverse search,
// the trip now being ridden, and any wait incurred.
type Result struct {
	Delta    float64
	ShiftOut float64
	TripOut  tcore.TripID
	Wait     float64
}

// Calculator evaluates travel and transfer times for one query: it is built
// fresh per request (bound to a date, a direction and the query's allowed
// modes) and is otherwise a pure function of its arguments.
type Calculator struct {
	graph     *tcore.Graph
	date      time.Time
	direction tcore.Direction
	allowed   map[tcore.ModeID]struct{}

	walkingSpeed float64 // m/s
	cyclingSpeed float64 // m/s

	minTransferTime   float64
	carParkingSearch  float64
	sharedVehicleTime float64

	profile tcore.SpeedProfile // optional, nil => average-speed fallback only
	svc     *tcore.ServiceMap // optional, nil => every trip considered in service
}

// Options configures a Calculator; zero speeds fall back to the defaults
// (walking 1.0 m/s, cycling 5.0 m/s).
type Options struct {
	WalkingSpeed      float64
	CyclingSpeed      float64
	MinTransferTime   float64
	CarParkingSearch  float64
	SharedVehicleTime float64
	Profile           tcore.SpeedProfile
	ServiceMap        *tcore.ServiceMap
}

// New builds a Calculator for one query.
func New(graph *tcore.Graph, date time.Time, direction tcore.Direction, allowedModes []tcore.ModeID, opts Options) *Calculator {
	allowed := make(map[tcore.ModeID]struct{}, len(allowedModes))
	for _, m := range allowedModes {
		allowed[m] = struct{}{}
	}

	walking := opts.WalkingSpeed
	if walking == 0 {
		walking = 1.0
	}
	cycling := opts.CyclingSpeed
	if cycling == 0 {
		cycling = 5.0
	}

	return &Calculator{
		graph:             graph,
		date:              date,
		direction:         direction,
		allowed:           allowed,
		walkingSpeed:      walking,
		cyclingSpeed:      cycling,
		minTransferTime:   opts.MinTransferTime,
		carParkingSearch:  opts.CarParkingSearch,
		sharedVehicleTime: opts.SharedVehicleTime,
		profile:           opts.Profile,
		svc:               opts.ServiceMap,
	}
}

// TravelTime computes the time to traverse e under mode, departing (or, on a
// reverse search, arriving) at t, carrying the running shift and the trip
// currently being ridden. ok is false when the traversal is impossible
// (wrong mode, restriction, no connecting service).
func (c *Calculator) TravelTime(e tcore.Edge, mode tcore.ModeID, t, shift float64, tripIn tcore.TripID) (Result, bool) {
	if _, ok := c.allowed[mode]; !ok {
		return Result{}, false
	}
	m, ok := c.graph.Modes[mode]
	if !ok {
		return Result{}, false
	}

	switch e.Type {
	case tcore.Road2Road:
		re := c.graph.Road.Edges[e.RoadEdge]
		d := c.roadTravelTime(re, re.LengthMetres, t, m)
		if d >= Inf {
			return Result{}, false
		}
		return Result{Delta: d, ShiftOut: shift}, true

	case tcore.Road2Transport:
		re, length := c.attachmentGeometry(e)
		d := c.roadTravelTime(re, length, t, m)
		if d >= Inf {
			return Result{}, false
		}
		wait := 0.0
		if c.direction == tcore.Reverse && tripIn != 0 {
			// coming from a Transport2Transport on the reverse search: the
			// rider must have transferred onto this leg.
			wait = c.minTransferTime
		}
		return Result{Delta: d + stationPenalty + wait, ShiftOut: shift, Wait: wait}, true

	case tcore.Transport2Road, tcore.Road2Poi, tcore.Poi2Road:
		re, length := c.attachmentGeometry(e)
		d := c.roadTravelTime(re, length, t, m)
		if d >= Inf {
			return Result{}, false
		}
		return Result{Delta: d + stationPenalty, ShiftOut: shift}, true

	case tcore.Transport2Transport:
		return c.pt2pt(e, t, shift, tripIn)
	}
	return Result{}, false
}

// attachmentGeometry resolves the road edge an attachment-type edge rides on
// and the metres covered along it: the abscissa fraction measured from
// whichever endpoint of the attachment edge the traversal starts or ends at.
func (c *Calculator) attachmentGeometry(e tcore.Edge) (tcore.RoadEdge, float64) {
	switch e.Type {
	case tcore.Road2Transport:
		stop := c.graph.Stop(e.Target)
		re := c.graph.Road.Edges[stop.RoadEdge]
		return re, re.LengthMetres * c.graph.AttachmentFraction(stop.RoadEdge, stop.Abscissa, re.Source == e.Source.Road)
	case tcore.Transport2Road:
		stop := c.graph.Stop(e.Source)
		re := c.graph.Road.Edges[stop.RoadEdge]
		return re, re.LengthMetres * c.graph.AttachmentFraction(stop.RoadEdge, stop.Abscissa, re.Source == e.Target.Road)
	case tcore.Road2Poi:
		poi := c.graph.POIByID(e.Target.POI)
		re := c.graph.Road.Edges[poi.RoadEdge]
		return re, re.LengthMetres * c.graph.AttachmentFraction(poi.RoadEdge, poi.Abscissa, re.Source == e.Source.Road)
	case tcore.Poi2Road:
		poi := c.graph.POIByID(e.Source.POI)
		re := c.graph.Road.Edges[poi.RoadEdge]
		return re, re.LengthMetres * c.graph.AttachmentFraction(poi.RoadEdge, poi.Abscissa, re.Source == e.Target.Road)
	}
	return tcore.RoadEdge{}, 0
}

// Distance computes the metres e covers under mode: the edge cost when a
// query minimises distance instead of time. Transport2Transport
// sections carry no geometric length, so they are not traversable under the
// distance criterion.
func (c *Calculator) Distance(e tcore.Edge, mode tcore.ModeID) (float64, bool) {
	if _, ok := c.allowed[mode]; !ok {
		return 0, false
	}
	m, ok := c.graph.Modes[mode]
	if !ok {
		return 0, false
	}

	switch e.Type {
	case tcore.Road2Road:
		re := c.graph.Road.Edges[e.RoadEdge]
		if re.TrafficRules&m.TrafficRules == 0 {
			return 0, false
		}
		return re.LengthMetres, true

	case tcore.Road2Transport, tcore.Transport2Road, tcore.Road2Poi, tcore.Poi2Road:
		re, length := c.attachmentGeometry(e)
		if re.TrafficRules&m.TrafficRules == 0 {
			return 0, false
		}
		return length, true
	}
	return 0, false
}

// roadTravelTime computes minutes over a road edge: not-allowed traffic
// rules short-circuit to Inf, otherwise integrate the speed profile if one
// covers this edge, falling back to the average-speed formula.
func (c *Calculator) roadTravelTime(re tcore.RoadEdge, length float64, t float64, mode tcore.TransportMode) float64 {
	if re.TrafficRules&mode.TrafficRules == 0 {
		return Inf
	}
	if c.profile != nil && re.HasSpeedProfile {
		if periods, ok := c.profile.PeriodsAfter(re.DBID, mode.SpeedRule, t); ok && len(periods) > 0 {
			return c.integrateSpeedProfile(re, periods, length, t, mode)
		}
	}
	return c.avgRoadTravelTime(re, length, mode)
}

// avgRoadTravelTime is the fallback when no speed profile applies: car takes
// 60% of the speed limit, pedestrian and bicycle use the configured m/s
// speeds.
func (c *Calculator) avgRoadTravelTime(re tcore.RoadEdge, length float64, mode tcore.TransportMode) float64 {
	switch mode.SpeedRule {
	case tcore.SpeedRuleCar:
		return length / (re.CarSpeedLimitKPH * 1000 * 0.6) * 60
	case tcore.SpeedRulePedestrian:
		return length / (c.walkingSpeed * 60)
	case tcore.SpeedRuleBicycle:
		return length / (c.cyclingSpeed * 60)
	default:
		return Inf
	}
}

// integrateSpeedProfile walks the piecewise-constant speed function one
// piece at a time until length is consumed, falling back to the
// average-speed formula for any remainder once periods run out.
func (c *Calculator) integrateSpeedProfile(re tcore.RoadEdge, periods []tcore.SpeedPeriod, length float64, t float64, mode tcore.TransportMode) float64 {
	tBegin := t
	speed := periods[0].Speed * 1000.0 / 60.0 // km/h -> m/min
	for _, p := range periods {
		if length <= 0 {
			break
		}
		speed = p.Speed * 1000.0 / 60.0
		tEnd := p.Start + p.Length
		length -= speed * (tEnd - tBegin)
		tBegin = tEnd
	}
	if length > 0 {
		return tBegin + c.avgRoadTravelTime(re, length, mode) - t
	}
	return tBegin + (length / speed) - t
}
