package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/signalsfoundry/commnet-calculator/core"
	"github.com/signalsfoundry/commnet-calculator/internal/linkcalc"
	"github.com/signalsfoundry/commnet-calculator/internal/logging"
	"github.com/signalsfoundry/commnet-calculator/internal/observability"
	"github.com/signalsfoundry/commnet-calculator/internal/report"
	"github.com/signalsfoundry/commnet-calculator/model"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// stringList collects every occurrence of a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ", ") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("commnet", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: commnet [flags]")
		fmt.Fprintln(fs.Output(), "")
		fmt.Fprintln(fs.Output(), "Antenna specifiers are [count:]name, where name is a full antenna name or alias.")
		fmt.Fprintln(fs.Output(), "")
		fs.PrintDefaults()
	}

	cfg := linkcalc.DefaultConfig()
	var from, to stringList
	fs.Var(&from, "from", "antenna on the sending side, [count:]name (repeatable; default \""+linkcalc.DefaultFrom+"\")")
	fs.Var(&to, "to", "antenna on the receiving side, [count:]name (repeatable)")
	listAntennas := fs.Bool("antennas", false, "list the known antennas and exit")
	fs.StringVar(&cfg.AntennasFile, "antennas-file", "", "YAML antenna catalog replacing the packaged one")
	fs.StringVar(&cfg.DistancesFile, "distances-file", "", "YAML distance table replacing the packaged one")
	fs.StringVar(&cfg.Output, "output", "", "report format: table or json")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	fs.BoolVar(&cfg.SeedCommandModule, "seed-command-module", cfg.SeedCommandModule, "start both endpoints with the built-in Command Module")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return 2
	}

	cfg.From = from
	cfg.To = to
	cfg = cfg.ApplyEnv().ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := execute(context.Background(), cfg, *listAntennas, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func execute(ctx context.Context, cfg linkcalc.Config, listAntennas bool, stdout io.Writer) error {
	ctx, log := logging.WithRunLogger(ctx, logging.NewFromEnv())

	catalog, err := loadCatalog(cfg.AntennasFile)
	if err != nil {
		return err
	}
	log = log.With(logging.String("catalog_version", catalog.Version()))
	for _, c := range catalog.Collisions() {
		log.Warn(ctx, "antenna alias reassigned",
			logging.String("alias", c.Alias),
			logging.String("previous", c.Previous),
			logging.String("current", c.Current),
		)
	}

	if listAntennas {
		return report.WriteAntennaList(stdout, catalog.All(), catalog.Version())
	}

	distances, err := loadDistances(cfg.DistancesFile)
	if err != nil {
		return err
	}

	tracingCfg := observability.TracingConfigFromEnv()
	tracingCfg.Attributes = observability.CatalogAttributes(catalog.Version(), catalog.Len(), len(distances))
	shutdown, err := observability.InitTracing(ctx, tracingCfg, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	metrics, err := observability.NewCalcCollector(prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	runner := linkcalc.NewRunner(catalog,
		linkcalc.WithLogger(log),
		linkcalc.WithMetrics(metrics),
		linkcalc.WithDistances(distances),
		linkcalc.WithCommandModuleSeed(cfg.SeedCommandModule),
	)
	for _, s := range cfg.From {
		if err := runner.AddFrom(ctx, s); err != nil {
			return err
		}
	}
	for _, s := range cfg.To {
		if err := runner.AddTo(ctx, s); err != nil {
			return err
		}
	}

	out, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	if err := report.Write(stdout, cfg.Output, out); err != nil {
		return err
	}
	return metrics.WriteTextfile(cfg.MetricsFile)
}

func loadCatalog(path string) (*core.Catalog, error) {
	if path == "" {
		return core.DefaultCatalog(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open antenna catalog %q: %w", path, err)
	}
	defer f.Close()
	return core.LoadCatalog(f)
}

func loadDistances(path string) ([]model.DistanceBucket, error) {
	if path == "" {
		return core.DefaultDistances(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open distance table %q: %w", path, err)
	}
	defer f.Close()
	return core.LoadDistances(f)
}
