package querycache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tempuscore/tempuscore/pkg/search"
	"github.com/tempuscore/tempuscore/pkg/tcore"
)

func sampleRequest() search.Request {
	return search.Request{
		Origin:       tcore.RoadVertexOf(1),
		Destination:  tcore.RoadVertexOf(2),
		Date:         time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC),
		Time:         480,
		AllowedModes: []tcore.ModeID{1, 2},
	}
}

func TestKeyIsDeterministic(t *testing.T) {
	a := Key(sampleRequest())
	b := Key(sampleRequest())
	require.Equal(t, a, b)
	require.Len(t, a, 40) // hex-encoded sha1
}

func TestKeyDiffersOnRequestFields(t *testing.T) {
	base := Key(sampleRequest())

	timeChanged := sampleRequest()
	timeChanged.Time = 481
	require.NotEqual(t, base, Key(timeChanged))

	destChanged := sampleRequest()
	destChanged.Destination = tcore.RoadVertexOf(3)
	require.NotEqual(t, base, Key(destChanged))

	arriveByChanged := sampleRequest()
	arriveByChanged.ArriveBy = true
	require.NotEqual(t, base, Key(arriveByChanged))

	modesChanged := sampleRequest()
	modesChanged.AllowedModes = []tcore.ModeID{1}
	require.NotEqual(t, base, Key(modesChanged))

	criterionChanged := sampleRequest()
	criterionChanged.Criterion = tcore.CriterionDistance
	require.NotEqual(t, base, Key(criterionChanged))
}
