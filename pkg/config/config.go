// Package config loads the runtime configuration for the routing core from
// TEMPUSCORE_* environment variables.
package config

import (
	"strconv"

	"github.com/tempuscore/tempuscore/pkg/util"
)

// Config holds the cost-model tunables: default speeds used when no speed
// profile covers an edge, the minimum PT transfer time, and the car parking
// search time. All have sensible defaults so the core runs without any
// environment variables set.
type Config struct {
	LogFormat string
	Debug     bool

	WalkingSpeed        float64 // m/s
	CyclingSpeed        float64 // m/s
	MinTransferTime     float64 // minutes
	CarParkingSearch    float64 // minutes
	SharedVehicleHandle float64 // minutes to pick up or return a shared vehicle

	RedisAddress  string
	RedisPassword string
	RedisDatabase int
}

const (
	defaultWalkingSpeed     = 1.0
	defaultCyclingSpeed     = 5.0
	defaultMinTransferTime  = 3.0
	defaultCarParkingSearch = 2.0
	defaultSharedVehicle    = 1.0

	defaultRedisAddress = "localhost:6379"
)

// Load reads TEMPUSCORE_* environment variables into a Config, falling back
// to the documented defaults for anything unset or malformed.
func Load() Config {
	env := util.GetEnvironmentVariables()

	c := Config{
		LogFormat:           env["TEMPUSCORE_LOG_FORMAT"],
		Debug:               env["TEMPUSCORE_DEBUG"] == "YES",
		WalkingSpeed:        floatOr(env["TEMPUSCORE_WALKING_SPEED"], defaultWalkingSpeed),
		CyclingSpeed:        floatOr(env["TEMPUSCORE_CYCLING_SPEED"], defaultCyclingSpeed),
		MinTransferTime:     floatOr(env["TEMPUSCORE_MIN_TRANSFER_TIME"], defaultMinTransferTime),
		CarParkingSearch:    floatOr(env["TEMPUSCORE_CAR_PARKING_SEARCH_TIME"], defaultCarParkingSearch),
		SharedVehicleHandle: floatOr(env["TEMPUSCORE_SHARED_VEHICLE_TIME"], defaultSharedVehicle),
		RedisAddress:        env["TEMPUSCORE_REDIS_ADDRESS"],
		RedisPassword:       env["TEMPUSCORE_REDIS_PASSWORD"],
		RedisDatabase:       int(floatOr(env["TEMPUSCORE_REDIS_DATABASE"], 0)),
	}

	if c.RedisAddress == "" {
		c.RedisAddress = defaultRedisAddress
	}

	return c
}

func floatOr(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}
