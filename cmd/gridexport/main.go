// Command gridexport converts a height grid into a point cloud file or a
// PostgreSQL dataset.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/UnknownOlympus/geoheight/internal/config"
	"github.com/UnknownOlympus/geoheight/internal/export"
	"github.com/UnknownOlympus/geoheight/internal/logging"
	"github.com/UnknownOlympus/geoheight/internal/mesh"
	"github.com/UnknownOlympus/geoheight/internal/metrics"
	"github.com/UnknownOlympus/geoheight/internal/models"
	"github.com/UnknownOlympus/geoheight/internal/repository"
	"github.com/UnknownOlympus/geoheight/internal/service"
	"github.com/peterbourgon/ff"
	"github.com/prometheus/client_golang/prometheus"
)

const formatPostgres = "postgres"

type options struct {
	env     string
	kind    string
	in      string
	format  string
	out     string
	dataset string
	pgDSN   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("gridexport: %v", err)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options

	fs := flag.NewFlagSet("gridexport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.env, "env", logging.EnvLocal, "logging environment: local, development, production")
	fs.StringVar(&o.kind, "kind", service.KindGeoid, "grid kind: geoid or mesh")
	fs.StringVar(&o.in, "in", "", "grid file to read")
	fs.StringVar(&o.format, "format", export.FormatCSV, "output format: csv, geojson, shp or postgres")
	fs.StringVar(&o.out, "out", "-", "output file, - for stdout (csv and geojson only)")
	fs.StringVar(&o.dataset, "dataset", "", "dataset name for postgres, defaults to the input file name")
	fs.StringVar(&o.pgDSN, "pg-dsn", "", "postgres connection URL, defaults to the GEOHEIGHT_POSTGRES_* settings")

	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("GRIDEXPORT")); err != nil {
		return options{}, err
	}

	if o.in == "" {
		return options{}, errors.New("-in is required")
	}
	switch o.format {
	case export.FormatCSV, export.FormatGeoJSON:
	case export.FormatShapefile:
		if o.out == "-" {
			return options{}, errors.New("shp output needs -out")
		}
	case formatPostgres:
		if o.pgDSN == "" {
			o.pgDSN = repository.DSN(config.MustLoad().Database)
		}
		if o.dataset == "" {
			o.dataset = strings.TrimSuffix(filepath.Base(o.in), filepath.Ext(o.in))
		}
	default:
		return options{}, fmt.Errorf("unsupported format: %s", o.format)
	}

	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	logger := logging.New(o.env, stderr)

	src, err := service.LoadSource(logger, metrics.NewMetrics(prometheus.NewRegistry()), o.kind, o.in)
	if err != nil {
		return err
	}
	svc := service.NewHeightService(logger, src, nil, metrics.NewMetrics(prometheus.NewRegistry()))

	switch o.format {
	case export.FormatCSV:
		// Mesh CSV keeps every record, NO-DATA included, with its category.
		points, withTag := svc.PointCloud(), false
		if m, ok := src.(*mesh.Mesh); ok {
			points, withTag = m.Records(), true
		}
		return writeTo(o.out, stdout, func(w io.Writer) error {
			return export.WriteCSV(w, points, withTag)
		})
	case export.FormatGeoJSON:
		return writeTo(o.out, stdout, func(w io.Writer) error {
			return export.WriteGeoJSON(w, svc.PointCloud())
		})
	case export.FormatShapefile:
		return export.WriteShapefile(o.out, svc.PointCloud())
	default:
		return saveToPostgres(ctx, logger, o, svc.PointCloud())
	}
}

func writeTo(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "-" {
		return write(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err = write(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func saveToPostgres(ctx context.Context, logger *slog.Logger, o options, points []models.Point) error {
	pool, err := repository.NewDatabase(ctx, o.pgDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	var repo repository.Interface = repository.NewRepository(pool, logger)

	return exportDataset(ctx, logger, repo, o.dataset, points)
}

// exportDataset replaces dataset with points and checks the stored count.
func exportDataset(
	ctx context.Context,
	logger *slog.Logger,
	repo repository.Interface,
	dataset string,
	points []models.Point,
) error {
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	n, err := repo.SavePointCloud(ctx, dataset, points)
	if err != nil {
		return err
	}

	stored, err := repo.CountPoints(ctx, dataset)
	if err != nil {
		return err
	}
	if stored != n {
		return fmt.Errorf("dataset %s holds %d points, %d were copied", dataset, stored, n)
	}
	logger.InfoContext(ctx, "Dataset exported", "dataset", dataset, "points", n, "stored", stored)

	return nil
}
