package osmingest

import "math"

// turnAngleDegrees is the signed turn angle over three consecutive
// coordinates prev -> via -> next, in degrees in (-180, 180]: negative is a
// left turn, positive a right turn, magnitude near 0 is straight ahead.
func turnAngleDegrees(prev, via, next LonLat) float64 {
	v1x, v1y := via.Lon-prev.Lon, via.Lat-prev.Lat
	v2x, v2y := next.Lon-via.Lon, next.Lat-via.Lat

	cross := v1y*v2x - v1x*v2y
	dot := v1x*v2x + v1y*v2y

	return math.Atan2(cross, dot) * 180 / math.Pi
}
