package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kr/pretty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/tempuscore/tempuscore/pkg/automaton"
	"github.com/tempuscore/tempuscore/pkg/config"
	"github.com/tempuscore/tempuscore/pkg/costcalc"
	"github.com/tempuscore/tempuscore/pkg/osmingest"
	"github.com/tempuscore/tempuscore/pkg/search"
	"github.com/tempuscore/tempuscore/pkg/tcore"
	"github.com/tempuscore/tempuscore/pkg/util"
)

// knownModeNames maps the --modes flag's accepted values to the ModeIDs
// demoGraph builds.
var knownModeNames = map[string]tcore.ModeID{
	"car": 1,
}

func main() {
	cfg := config.Load()

	if cfg.LogFormat != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	if cfg.LogFormat != "" && !util.ContainsString([]string{"CONSOLE", "JSON"}, cfg.LogFormat) {
		log.Warn().Str("format", util.TrimString(cfg.LogFormat, 32)).Msg("unrecognised log format, defaulting to console")
	}
	if cfg.Debug {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "tempuscore",
		Description: "Multimodal time-dependent shortest-path routing core",
		Commands: []*cli.Command{
			ingestCommand(),
			routeCommand(cfg),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func ingestCommand() *cli.Command {
	return &cli.Command{
		Name:      "ingest",
		Usage:     "Read an OSM PBF extract and emit nodes, sections and restrictions",
		ArgsUsage: "<pbf-file>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return cli.Exit("a <pbf-file> argument is required", 1)
			}

			f, err := os.Open(c.Args().Get(0))
			if err != nil {
				return err
			}
			defer f.Close()

			w := &countingWriter{}
			if err := osmingest.Ingest(context.Background(), f, w, progressLogger{}); err != nil {
				return err
			}

			log.Info().
				Int("nodes", w.nodes).
				Int("sections", w.sections).
				Int("restrictions", w.restrictions).
				Msg("ingestion complete")
			return nil
		},
	}
}

func routeCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "route",
		Usage: "Run a single demo query against an in-memory graph and print the trip",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "depart", Usage: "departure time, minutes since midnight", Value: 480},
			&cli.StringFlag{Name: "modes", Usage: "comma-separated allowed modes", Value: "car"},
			&cli.StringFlag{Name: "criterion", Usage: "what to minimise: time or distance", Value: "time"},
		},
		Action: func(c *cli.Context) error {
			graph, auto, err := demoGraph(cfg)
			if err != nil {
				return err
			}

			allowed, err := parseModes(c.String("modes"))
			if err != nil {
				return err
			}

			criterion, err := parseCriterion(c.String("criterion"))
			if err != nil {
				return err
			}

			req := search.Request{
				Graph:        graph,
				Automaton:    auto,
				Origin:       tcore.RoadVertexOf(0),
				Destination:  tcore.RoadVertexOf(2),
				Date:         time.Now(),
				Time:         c.Float64("depart"),
				Criterion:    criterion,
				InitialMode:  allowed[0],
				AllowedModes: allowed,
				CostOptions: costcalc.Options{
					WalkingSpeed:      cfg.WalkingSpeed,
					CyclingSpeed:      cfg.CyclingSpeed,
					MinTransferTime:   cfg.MinTransferTime,
					CarParkingSearch:  cfg.CarParkingSearch,
					SharedVehicleTime: cfg.SharedVehicleHandle,
				},
			}

			result, err := search.Run(context.Background(), req)
			if err != nil {
				return err
			}

			fmt.Printf("%# v\n", pretty.Formatter(result))
			fmt.Printf("departs %s, arrives %s\n",
				atMinutes(req.Date, result.DepartureTime).Format(time.RFC3339),
				atMinutes(req.Date, result.ArrivalTime).Format(time.RFC3339))
			return nil
		},
	}
}

// parseModes splits and deduplicates the --modes flag and resolves each
// name against knownModeNames.
func parseModes(raw string) ([]tcore.ModeID, error) {
	names := util.RemoveDuplicateStrings(strings.Split(raw, ","), nil)
	if len(names) == 0 {
		return nil, cli.Exit("at least one mode is required", 1)
	}

	modes := make([]tcore.ModeID, 0, len(names))
	for _, name := range names {
		id, ok := knownModeNames[strings.TrimSpace(name)]
		if !ok {
			return nil, cli.Exit(fmt.Sprintf("unknown mode %q", name), 1)
		}
		modes = append(modes, id)
	}
	return util.Unique(modes), nil
}

func parseCriterion(raw string) (tcore.Criterion, error) {
	switch strings.ToLower(raw) {
	case "time":
		return tcore.CriterionTime, nil
	case "distance":
		return tcore.CriterionDistance, nil
	}
	return 0, cli.Exit(fmt.Sprintf("unknown criterion %q, want time or distance", raw), 1)
}

// atMinutes resolves a minutes-since-midnight value against a service date
// into a wall-clock time.Time.
func atMinutes(date time.Time, minutes float64) time.Time {
	h := int(minutes) / 60
	m := int(minutes) % 60
	s := int((minutes - float64(int(minutes))) * 60)
	source := time.Date(0, 1, 1, h, m, s, 0, time.UTC)
	return util.AddTimeToDate(date, source)
}

// demoGraph builds the tiny two-edge road network used by the car worked
// example: three vertices in a line joined by two Road2Road edges, suitable
// for exercising the engine without a loaded dataset.
func demoGraph(cfg config.Config) (*tcore.Graph, *automaton.Automaton, error) {
	road := tcore.NewRoadGraph(
		[]tcore.RoadVertex{{}, {}, {}},
		[]tcore.RoadEdge{
			{Source: 0, Target: 1, LengthMetres: 500, TrafficRules: tcore.TrafficRuleCar | tcore.TrafficRulePedestrian, CarSpeedLimitKPH: 50},
			{Source: 1, Target: 2, LengthMetres: 500, TrafficRules: tcore.TrafficRuleCar | tcore.TrafficRulePedestrian, CarSpeedLimitKPH: 50},
		},
	)

	modes := tcore.ModeTable{
		1: {ID: 1, Name: "car", TrafficRules: tcore.TrafficRuleCar, SpeedRule: tcore.SpeedRuleCar},
	}

	graph, err := tcore.NewGraph(road, nil, nil, modes, nil)
	if err != nil {
		return nil, nil, err
	}

	return graph, automaton.New(), nil
}

type progressLogger struct{}

func (progressLogger) Phase(name string) { log.Info().Str("phase", name).Msg("ingestion phase") }

type countingWriter struct {
	nodes, sections, restrictions int
}

func (w *countingWriter) BeginNodes() error                        { return nil }
func (w *countingWriter) WriteNode(id int64, lon, lat float64) error { w.nodes++; return nil }
func (w *countingWriter) EndNodes() error                           { return nil }

func (w *countingWriter) BeginSections() error             { return nil }
func (w *countingWriter) WriteSection(s osmingest.Section) error { w.sections++; return nil }
func (w *countingWriter) EndSections() error               { return nil }

func (w *countingWriter) BeginRestrictions() error                       { return nil }
func (w *countingWriter) WriteRestriction(r osmingest.Restriction) error { w.restrictions++; return nil }
func (w *countingWriter) EndRestrictions() error                        { return nil }
