package tcore

// SpeedPeriod is one piece of a piecewise-constant speed function over
// edge-local time: from Start for Length minutes, travel proceeds at Speed
// km/h.
type SpeedPeriod struct {
	Start  float64 // minutes since midnight
	Length float64 // minutes this period lasts
	Speed  float64 // km/h
}

// SpeedProfile supplies time-dependent speed periods for a road edge under a
// given speed rule. A nil SpeedProfile means "no profile loaded"; callers
// fall back to the average-speed formula.
type SpeedProfile interface {
	// PeriodsAfter returns the periods covering edgeDBID for rule that end
	// after t (the one in progress at t first), in chronological order, and
	// whether such a profile exists for this edge/rule at all.
	PeriodsAfter(edgeDBID int64, rule SpeedRule, t float64) ([]SpeedPeriod, bool)
}

// StaticSpeedProfile is a simple in-memory SpeedProfile keyed by (edge db
// id, speed rule), used by tests and by small deployments that load a daily
// profile wholesale rather than streaming it.
type StaticSpeedProfile struct {
	periods map[speedProfileKey][]SpeedPeriod
}

type speedProfileKey struct {
	edgeDBID int64
	rule     SpeedRule
}

// NewStaticSpeedProfile builds a StaticSpeedProfile; each period list must
// already be sorted by Start ascending.
func NewStaticSpeedProfile() *StaticSpeedProfile {
	return &StaticSpeedProfile{periods: make(map[speedProfileKey][]SpeedPeriod)}
}

// Add registers the periods for one (edge, speed rule) pair.
func (p *StaticSpeedProfile) Add(edgeDBID int64, rule SpeedRule, periods []SpeedPeriod) {
	p.periods[speedProfileKey{edgeDBID, rule}] = periods
}

// PeriodsAfter implements SpeedProfile.
func (p *StaticSpeedProfile) PeriodsAfter(edgeDBID int64, rule SpeedRule, t float64) ([]SpeedPeriod, bool) {
	all, ok := p.periods[speedProfileKey{edgeDBID, rule}]
	if !ok {
		return nil, false
	}
	i := 0
	for i < len(all) && all[i].Start+all[i].Length <= t {
		i++
	}
	return all[i:], true
}
