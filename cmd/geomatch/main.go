// Command geomatch loads a road network and one or more GPS trips, runs
// online map matching against each trip, and prints the matched route as a
// WKT LINESTRING.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/udisondev/geomatch/internal/batch"
	"github.com/udisondev/geomatch/internal/config"
	"github.com/udisondev/geomatch/internal/geom"
	"github.com/udisondev/geomatch/internal/hmm"
	"github.com/udisondev/geomatch/internal/matcher"
	"github.com/udisondev/geomatch/internal/observation"
	"github.com/udisondev/geomatch/internal/pathconnector"
	"github.com/udisondev/geomatch/internal/roadgraph"
	"github.com/udisondev/geomatch/internal/simplify"
	"github.com/udisondev/geomatch/internal/topology"
	"github.com/udisondev/geomatch/internal/wkt"
)

const DefaultConfigPath = "config/match.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	networkPath := flag.String("network", "", "path to a WKT road network file (one \"id;LINESTRING(...)\" per line)")
	tripsFlag := flag.String("trips", "", "comma-separated paths to trip files (one \"POINT(...);RFC3339\" per line)")
	configPath := flag.String("config", DefaultConfigPath, "path to the match config YAML file")
	simplifyTolerance := flag.Float64("simplify", 0, "RDP simplification tolerance applied to the output route, in metres (0 disables)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if *networkPath == "" || *tripsFlag == "" {
		flag.Usage()
		return fmt.Errorf("both -network and -trips are required")
	}

	cfg, err := config.LoadMatchConfig(*configPath)
	if err != nil {
		return fmt.Errorf("loading match config: %w", err)
	}

	calc := topology.NewGeoidal(topology.DefaultGeoidalPrecision)
	graph, err := loadNetwork(*networkPath, calc, cfg.SnapThresholdM)
	if err != nil {
		return fmt.Errorf("loading network: %w", err)
	}
	slog.Info("network loaded", "edges", len(graph.Edges()), "nodes", len(graph.Nodes()))

	connector := pathconnector.Connector{Graph: graph, Calc: calc}

	tripPaths := strings.Split(*tripsFlag, ",")
	jobs := make([]batch.Job, 0, len(tripPaths))
	for _, p := range tripPaths {
		seq, err := loadTrip(p)
		if err != nil {
			return fmt.Errorf("loading trip %s: %w", p, err)
		}
		if err := seq.Validate(); err != nil {
			return fmt.Errorf("trip %s: %w", p, err)
		}
		jobs = append(jobs, batch.Job{
			ID:       filepath.Base(p),
			Decoder:  newMatcher(graph, calc, connector, cfg),
			Sequence: seq,
		})
	}

	results, err := batch.MatchAll(context.Background(), jobs)
	if err != nil {
		return fmt.Errorf("running matches: %w", err)
	}

	for _, r := range results {
		if r.Err != nil {
			slog.Error("match failed", "trip", r.JobID, "err", r.Err)
			continue
		}
		if len(r.Paths) == 0 {
			slog.Warn("match produced no paths", "trip", r.JobID)
			continue
		}
		route := buildRoute(connector, r.Paths[0].Edges)
		if *simplifyTolerance > 0 {
			route = simplify.RDP(calc, route, *simplifyTolerance)
		}
		fmt.Printf("%s: %s\n", r.JobID, wkt.FormatLineString(route))
	}
	return nil
}

func newMatcher(graph *roadgraph.Graph, calc topology.Calculator, connector pathconnector.Connector, cfg config.MatchConfig) *matcher.ViterbiMapMatcher {
	plugins := buildPlugins(cfg.Plugins, connector, cfg.MaxRouteLengthM)
	radius := cfg.ObservationRadiusM
	return &matcher.ViterbiMapMatcher{
		Graph:   graph,
		Calc:    calc,
		Plugins: plugins,
		Emission: hmm.GaussianEmissionCalculator{
			Calc:  calc,
			Sigma: cfg.ObservationStdDevM,
		},
		FindCandidates:   candidatesWithin(graph, calc, radius),
		TopK:             cfg.TopKPaths,
		NullStatePenalty: radius,
	}
}

func buildPlugins(names []string, connector pathconnector.Connector, maxRouteLength float64) []hmm.TransitionPlugin {
	plugins := make([]hmm.TransitionPlugin, 0, len(names))
	for _, name := range names {
		switch name {
		case "topological":
			plugins = append(plugins, hmm.TopologicalPlugin{})
		case "connectedGraph":
			plugins = append(plugins, hmm.ConnectedGraphPlugin{
				Threshold: maxRouteLength,
				ShortestPath: func(from, to roadgraph.Edge) (float64, bool) {
					_, dist, ok := connector.ShortestPath(from.To, to.From)
					return dist, ok
				},
			})
		case "direction":
			plugins = append(plugins, hmm.DirectionPlugin{Weight: 1})
		case "noUTurn":
			plugins = append(plugins, hmm.NoUTurnPlugin{})
		default:
			slog.Warn("unknown transition plugin, skipping", "plugin", name)
		}
	}
	return plugins
}

// candidatesWithin returns a CandidateFinder scanning every graph edge for
// ones within radius of the observation. Simple and correct for the CLI's
// scale; larger deployments would route this through a spatial index
// instead of a linear scan.
func candidatesWithin(graph *roadgraph.Graph, calc topology.Calculator, radius float64) matcher.CandidateFinder {
	return func(o geom.Point) []roadgraph.Edge {
		var out []roadgraph.Edge
		for _, e := range graph.Edges() {
			if d, _ := calc.DistanceToPolyline(o, e.Polyline); d <= radius {
				out = append(out, e)
			}
		}
		return out
	}
}

func buildRoute(connector pathconnector.Connector, edges []*roadgraph.Edge) geom.Polyline {
	spliced := connector.ConnectGaps(edges)
	var route geom.Polyline
	for _, e := range spliced {
		route = route.Append(e.Polyline)
	}
	return route
}

// loadNetwork reads "id;LINESTRING(...)" lines into a road graph.
func loadNetwork(path string, calc topology.Calculator, snapThreshold float64) (*roadgraph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	graph := roadgraph.NewGraph(calc, snapThreshold)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ";", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed network line %q: want \"id;LINESTRING(...)\"", line)
		}
		pl, err := wkt.ParseLineString(parts[1])
		if err != nil {
			return nil, fmt.Errorf("edge %q: %w", parts[0], err)
		}
		graph.AddApproximateDirectEdge(parts[0], pl)
	}
	return graph, scanner.Err()
}

// loadTrip reads "POINT(...);RFC3339" lines into an observation sequence.
func loadTrip(path string) (observation.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return observation.Sequence{}, err
	}
	defer f.Close()

	var pts []observation.WKTPoint
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ";", 2)
		if len(parts) != 2 {
			return observation.Sequence{}, fmt.Errorf("malformed trip line %q: want \"POINT(...);RFC3339\"", line)
		}
		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(parts[1]))
		if err != nil {
			return observation.Sequence{}, fmt.Errorf("parsing timestamp %q: %w", parts[1], err)
		}
		pts = append(pts, observation.WKTPoint{WKT: parts[0], Timestamp: ts})
	}
	if err := scanner.Err(); err != nil {
		return observation.Sequence{}, err
	}
	return observation.FromWKTPoints(pts)
}
