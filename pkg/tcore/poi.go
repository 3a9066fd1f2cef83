package tcore

// POIID indexes into Graph's POI arena.
type POIID int32

// POI is a point of interest: attached to a road edge by (edge, abscissa),
// hosting a set of modes for parking/pickup (car parks, bike-share docks,
// shared-scooter bays, ...).
type POI struct {
	Name     string
	RoadEdge RoadEdgeID
	Abscissa float64 // in [0,1]

	HostedModes map[ModeID]struct{}
}

// HostsMode reports whether this POI can park or release a vehicle of mode.
func (p *POI) HostsMode(mode ModeID) bool {
	_, ok := p.HostedModes[mode]
	return ok
}
