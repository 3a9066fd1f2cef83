package tcore

// TrafficRule is a bitmask of the traffic rules a road edge, a parking spot
// or a transport mode participates in. Values are independent bits so an
// edge or a mode can belong to several rules at once (e.g. a shared lane
// open to both bus and taxi).
type TrafficRule uint32

const (
	TrafficRuleCar TrafficRule = 1 << iota
	TrafficRulePedestrian
	TrafficRuleBicycle
	TrafficRuleBus
	TrafficRuleTram
	TrafficRuleTrain
	TrafficRuleTaxi
)

// SpeedRule selects which average-speed formula applies when no speed
// profile covers an edge.
type SpeedRule int

const (
	SpeedRuleCar SpeedRule = iota
	SpeedRulePedestrian
	SpeedRuleBicycle
	SpeedRuleOther
)

// ModeID identifies a TransportMode, stable across a loaded graph.
type ModeID int32

// TransportMode is one way of moving through the network: an identifier, a
// traffic-rule bitmask, a speed rule and the booleans that drive
// mode-transfer semantics (parking, shared fleets, return obligations).
type TransportMode struct {
	ID   ModeID
	Name string

	TrafficRules TrafficRule
	SpeedRule    SpeedRule

	NeedParking        bool
	IsShared           bool
	MustBeReturned     bool
	IsPublicTransport  bool
}

// ModeTable is the read-only catalogue of transport modes a graph was built
// with, keyed by ModeID for O(1) lookup.
type ModeTable map[ModeID]TransportMode
