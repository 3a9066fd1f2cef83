package costcalc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tempuscore/tempuscore/pkg/tcore"
)

func oneRoadEdgeGraph(t *testing.T) (*tcore.Graph, tcore.ModeID) {
	t.Helper()
	road := tcore.NewRoadGraph(
		[]tcore.RoadVertex{{}, {}},
		[]tcore.RoadEdge{{
			Source: 0, Target: 1,
			LengthMetres:     1000,
			TrafficRules:     tcore.TrafficRuleCar | tcore.TrafficRulePedestrian,
			CarSpeedLimitKPH: 60,
		}},
	)
	modes := tcore.ModeTable{
		1: {ID: 1, Name: "car", TrafficRules: tcore.TrafficRuleCar, SpeedRule: tcore.SpeedRuleCar},
		2: {ID: 2, Name: "foot", TrafficRules: tcore.TrafficRulePedestrian, SpeedRule: tcore.SpeedRulePedestrian},
	}
	g, err := tcore.NewGraph(road, nil, nil, modes, nil)
	require.NoError(t, err)
	return g, 1
}

func TestRoadTravelTimeCarAverageSpeed(t *testing.T) {
	g, car := oneRoadEdgeGraph(t)
	calc := New(g, time.Time{}, tcore.Forward, []tcore.ModeID{car, 2}, Options{})

	e := tcore.Edge{Type: tcore.Road2Road, Source: tcore.RoadVertexOf(0), Target: tcore.RoadVertexOf(1), RoadEdge: 0}
	res, ok := calc.TravelTime(e, car, 0, 0, 0)
	require.True(t, ok)

	// 1000m at 60kph*0.6 = 36kph = 600 m/min -> 1000/600 minutes.
	require.InDelta(t, 1000.0/600.0, res.Delta, 1e-9)
}

func TestRoadTravelTimeDisallowedMode(t *testing.T) {
	g, _ := oneRoadEdgeGraph(t)
	bicycle := tcore.ModeID(3)
	g.Modes[bicycle] = tcore.TransportMode{ID: bicycle, TrafficRules: tcore.TrafficRuleBicycle, SpeedRule: tcore.SpeedRuleBicycle}
	calc := New(g, time.Time{}, tcore.Forward, []tcore.ModeID{bicycle}, Options{})

	e := tcore.Edge{Type: tcore.Road2Road, Source: tcore.RoadVertexOf(0), Target: tcore.RoadVertexOf(1), RoadEdge: 0}
	_, ok := calc.TravelTime(e, bicycle, 0, 0, 0)
	require.False(t, ok, "bicycle traffic rule is not allowed on this edge, travel time should fail")
}

func TestRoadTravelTimeWalkingUsesConfiguredSpeed(t *testing.T) {
	g, _ := oneRoadEdgeGraph(t)
	foot := tcore.ModeID(2)
	calc := New(g, time.Time{}, tcore.Forward, []tcore.ModeID{foot}, Options{WalkingSpeed: 2.0})

	e := tcore.Edge{Type: tcore.Road2Road, Source: tcore.RoadVertexOf(0), Target: tcore.RoadVertexOf(1), RoadEdge: 0}
	res, ok := calc.TravelTime(e, foot, 0, 0, 0)
	require.True(t, ok)

	// 1000m at 2 m/s = 120 m/min -> 1000/120 minutes.
	require.InDelta(t, 1000.0/120.0, res.Delta, 1e-9)
}

func TestRoadTravelTimeSpeedProfileOverridesAverage(t *testing.T) {
	road := tcore.NewRoadGraph(
		[]tcore.RoadVertex{{}, {}},
		[]tcore.RoadEdge{{
			Source: 0, Target: 1,
			LengthMetres:     600,
			TrafficRules:     tcore.TrafficRuleCar,
			CarSpeedLimitKPH: 60,
			DBID:             42,
			HasSpeedProfile:  true,
		}},
	)
	modes := tcore.ModeTable{1: {ID: 1, TrafficRules: tcore.TrafficRuleCar, SpeedRule: tcore.SpeedRuleCar}}
	g, err := tcore.NewGraph(road, nil, nil, modes, nil)
	require.NoError(t, err)

	profile := tcore.NewStaticSpeedProfile()
	profile.Add(42, tcore.SpeedRuleCar, []tcore.SpeedPeriod{
		{Start: 0, Length: 10, Speed: 30}, // 30kph = 500 m/min
	})

	calc := New(g, time.Time{}, tcore.Forward, []tcore.ModeID{1}, Options{Profile: profile})
	e := tcore.Edge{Type: tcore.Road2Road, Source: tcore.RoadVertexOf(0), Target: tcore.RoadVertexOf(1), RoadEdge: 0}
	res, ok := calc.TravelTime(e, 1, 0, 0, 0)
	require.True(t, ok)
	require.InDelta(t, 600.0/500.0, res.Delta, 1e-9)
}

func TestTransferTimeSameModeIsFree(t *testing.T) {
	g, car := oneRoadEdgeGraph(t)
	calc := New(g, time.Time{}, tcore.Forward, []tcore.ModeID{car}, Options{})

	e := tcore.Edge{Source: tcore.RoadVertexOf(0), Target: tcore.RoadVertexOf(1)}
	cost, ok := calc.TransferTime(e, car, car)
	require.True(t, ok)
	require.Zero(t, cost)
}

func TestTransferTimeCarNeedsParkingAtPrivateSpot(t *testing.T) {
	road := tcore.NewRoadGraph([]tcore.RoadVertex{{}, {}}, []tcore.RoadEdge{{Source: 0, Target: 1}})
	modes := tcore.ModeTable{
		1: {ID: 1, Name: "car", TrafficRules: tcore.TrafficRuleCar, SpeedRule: tcore.SpeedRuleCar, NeedParking: true},
		2: {ID: 2, Name: "foot", TrafficRules: tcore.TrafficRulePedestrian, SpeedRule: tcore.SpeedRulePedestrian},
	}
	private := tcore.RoadVertexID(1)
	g, err := tcore.NewGraph(road, nil, nil, modes, &private)
	require.NoError(t, err)

	calc := New(g, time.Time{}, tcore.Forward, []tcore.ModeID{1, 2}, Options{CarParkingSearch: 2})

	e := tcore.Edge{Source: tcore.RoadVertexOf(0), Target: tcore.RoadVertexOf(1)}
	cost, ok := calc.TransferTime(e, 1, 2)
	require.True(t, ok)
	require.Zero(t, cost, "returning a private vehicle to its own parking spot should be free")
}

func TestTransferTimeCarCannotParkWithoutAnywhereToLeaveIt(t *testing.T) {
	road := tcore.NewRoadGraph([]tcore.RoadVertex{{}, {}}, []tcore.RoadEdge{{Source: 0, Target: 1}})
	modes := tcore.ModeTable{
		1: {ID: 1, NeedParking: true, TrafficRules: tcore.TrafficRuleCar, SpeedRule: tcore.SpeedRuleCar},
		2: {ID: 2, TrafficRules: tcore.TrafficRulePedestrian, SpeedRule: tcore.SpeedRulePedestrian},
	}
	g, err := tcore.NewGraph(road, nil, nil, modes, nil)
	require.NoError(t, err)

	calc := New(g, time.Time{}, tcore.Forward, []tcore.ModeID{1, 2}, Options{})
	e := tcore.Edge{Type: tcore.Road2Road, Source: tcore.RoadVertexOf(0), Target: tcore.RoadVertexOf(1), RoadEdge: 0}
	_, ok := calc.TransferTime(e, 1, 2)
	require.False(t, ok, "no POI, no private parking and no road parking rule: the car has nowhere to go")
}

func TestTransferTimeRoadParkingRuleAllowsDropoff(t *testing.T) {
	road := tcore.NewRoadGraph(
		[]tcore.RoadVertex{{}, {}},
		[]tcore.RoadEdge{{Source: 0, Target: 1, ParkingTrafficRules: tcore.TrafficRuleCar}},
	)
	modes := tcore.ModeTable{
		1: {ID: 1, NeedParking: true, TrafficRules: tcore.TrafficRuleCar, SpeedRule: tcore.SpeedRuleCar},
		2: {ID: 2, TrafficRules: tcore.TrafficRulePedestrian, SpeedRule: tcore.SpeedRulePedestrian},
	}
	g, err := tcore.NewGraph(road, nil, nil, modes, nil)
	require.NoError(t, err)

	calc := New(g, time.Time{}, tcore.Forward, []tcore.ModeID{1, 2}, Options{CarParkingSearch: 3})
	e := tcore.Edge{Type: tcore.Road2Road, Source: tcore.RoadVertexOf(0), Target: tcore.RoadVertexOf(1), RoadEdge: 0}
	cost, ok := calc.TransferTime(e, 1, 2)
	require.True(t, ok)
	require.Equal(t, 3.0, cost)
}

func TestTransferTimePickupParkedVehicleAtPrivateSpot(t *testing.T) {
	road := tcore.NewRoadGraph([]tcore.RoadVertex{{}, {}}, []tcore.RoadEdge{{Source: 0, Target: 1}})
	modes := tcore.ModeTable{
		1: {ID: 1, Name: "car", TrafficRules: tcore.TrafficRuleCar, SpeedRule: tcore.SpeedRuleCar, NeedParking: true},
		2: {ID: 2, Name: "foot", TrafficRules: tcore.TrafficRulePedestrian, SpeedRule: tcore.SpeedRulePedestrian},
	}
	private := tcore.RoadVertexID(1)
	g, err := tcore.NewGraph(road, nil, nil, modes, &private)
	require.NoError(t, err)

	calc := New(g, time.Time{}, tcore.Forward, []tcore.ModeID{1, 2}, Options{SharedVehicleTime: 1})

	e := tcore.Edge{Source: tcore.RoadVertexOf(0), Target: tcore.RoadVertexOf(1)}
	cost, ok := calc.TransferTime(e, 2, 1)
	require.True(t, ok)
	require.Equal(t, 1.0, cost, "collecting a parked vehicle takes handling time")
}

func TestTransferTimePickupParkedVehicleAwayFromItsSpot(t *testing.T) {
	road := tcore.NewRoadGraph([]tcore.RoadVertex{{}, {}}, []tcore.RoadEdge{{Source: 0, Target: 1}})
	modes := tcore.ModeTable{
		1: {ID: 1, Name: "car", TrafficRules: tcore.TrafficRuleCar, SpeedRule: tcore.SpeedRuleCar, NeedParking: true},
		2: {ID: 2, Name: "foot", TrafficRules: tcore.TrafficRulePedestrian, SpeedRule: tcore.SpeedRulePedestrian},
	}

	t.Run("no private parking vertex at all", func(t *testing.T) {
		g, err := tcore.NewGraph(road, nil, nil, modes, nil)
		require.NoError(t, err)
		calc := New(g, time.Time{}, tcore.Forward, []tcore.ModeID{1, 2}, Options{SharedVehicleTime: 1})

		e := tcore.Edge{Source: tcore.RoadVertexOf(0), Target: tcore.RoadVertexOf(1)}
		_, ok := calc.TransferTime(e, 2, 1)
		require.False(t, ok, "a private vehicle is only parked at its own spot")
	})

	t.Run("a hosting POI does not release a private vehicle", func(t *testing.T) {
		pois := []tcore.POI{{Name: "car park", RoadEdge: 0, Abscissa: 1, HostedModes: map[tcore.ModeID]struct{}{1: {}}}}
		g, err := tcore.NewGraph(road, nil, pois, modes, nil)
		require.NoError(t, err)
		calc := New(g, time.Time{}, tcore.Forward, []tcore.ModeID{1, 2}, Options{SharedVehicleTime: 1})

		e := tcore.Edge{Source: tcore.RoadVertexOf(0), Target: tcore.POIVertexOf(0)}
		_, ok := calc.TransferTime(e, 2, 1)
		require.False(t, ok, "POI pickup is reserved for shared fleets")
	})
}

func TestTransferTimeSharedVehiclePickupAtPOI(t *testing.T) {
	road := tcore.NewRoadGraph([]tcore.RoadVertex{{}, {}}, []tcore.RoadEdge{{Source: 0, Target: 1}})
	modes := tcore.ModeTable{
		2: {ID: 2, TrafficRules: tcore.TrafficRulePedestrian, SpeedRule: tcore.SpeedRulePedestrian},
		3: {ID: 3, IsShared: true, TrafficRules: tcore.TrafficRuleBicycle, SpeedRule: tcore.SpeedRuleBicycle},
	}
	pois := []tcore.POI{{Name: "dock", RoadEdge: 0, Abscissa: 1, HostedModes: map[tcore.ModeID]struct{}{3: {}}}}
	g, err := tcore.NewGraph(road, nil, pois, modes, nil)
	require.NoError(t, err)

	calc := New(g, time.Time{}, tcore.Forward, []tcore.ModeID{2, 3}, Options{SharedVehicleTime: 1.5})
	e := tcore.Edge{Source: tcore.RoadVertexOf(0), Target: tcore.POIVertexOf(0)}
	cost, ok := calc.TransferTime(e, 2, 3)
	require.True(t, ok)
	require.Equal(t, 1.5, cost)
}

func TestTransferTimeSharedVehicleUnavailableAwayFromDock(t *testing.T) {
	road := tcore.NewRoadGraph([]tcore.RoadVertex{{}, {}}, []tcore.RoadEdge{{Source: 0, Target: 1}})
	modes := tcore.ModeTable{
		2: {ID: 2, TrafficRules: tcore.TrafficRulePedestrian, SpeedRule: tcore.SpeedRulePedestrian},
		3: {ID: 3, IsShared: true, TrafficRules: tcore.TrafficRuleBicycle, SpeedRule: tcore.SpeedRuleBicycle},
	}
	g, err := tcore.NewGraph(road, nil, nil, modes, nil)
	require.NoError(t, err)

	calc := New(g, time.Time{}, tcore.Forward, []tcore.ModeID{2, 3}, Options{SharedVehicleTime: 1.5})
	e := tcore.Edge{Type: tcore.Road2Road, Source: tcore.RoadVertexOf(0), Target: tcore.RoadVertexOf(1)}
	_, ok := calc.TransferTime(e, 2, 3)
	require.False(t, ok, "a shared vehicle cannot be picked up away from a hosting POI")
}
