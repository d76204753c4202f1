// Package export writes menu and reservation snapshots as Parquet files,
// partitioned by export date, to local disk or object storage.
package export

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/chrisdamba/foodsite/internal/cloudwriter"
	"github.com/chrisdamba/foodsite/internal/models"
	"github.com/chrisdamba/foodsite/internal/repositories"
)

const parallelism = 4

type Exporter struct {
	basePath string
	folder   string

	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string

	logger zerolog.Logger
}

// New writes under basePath/folder, or to bucket through factory when factory
// is non-nil.
func New(cfg models.ExportConfig, factory cloudwriter.CloudWriterFactory, logger zerolog.Logger) *Exporter {
	return &Exporter{
		basePath:           cfg.OutputPath,
		folder:             cfg.OutputFolder,
		cloudWriterFactory: factory,
		cloudBucketName:    cfg.BucketName,
		logger:             logger.With().Str("component", "export").Logger(),
	}
}

// NewFromConfig picks the destination named by cfg.Destination.
func NewFromConfig(ctx context.Context, cfg models.ExportConfig, logger zerolog.Logger) (*Exporter, error) {
	switch cfg.Destination {
	case "", "local":
		return New(cfg, nil, logger), nil
	case "s3":
		if cfg.BucketName == "" {
			return nil, fmt.Errorf("export.bucket_name is required for s3")
		}
		factory, err := cloudwriter.NewS3Store(ctx, cfg.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}
		return New(cfg, factory, logger), nil
	default:
		return nil, fmt.Errorf("unsupported export destination: %s", cfg.Destination)
	}
}

// Summary reports what an Export call wrote.
type Summary struct {
	MenuItems        int
	Reservations     int
	MenuItemsPath    string
	ReservationsPath string
}

// Export snapshots every menu item and reservation in store.
func (e *Exporter) Export(ctx context.Context, store *repositories.Store, at time.Time) (Summary, error) {
	items, err := store.MenuItems.GetAll(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load menu items: %w", err)
	}
	list := make([]*models.MenuItem, 0, len(items))
	for _, mi := range items {
		list = append(list, mi)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].RestaurantID != list[j].RestaurantID {
			return list[i].RestaurantID < list[j].RestaurantID
		}
		return list[i].ID < list[j].ID
	})
	recs, err := store.Reservations.GetAll(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load reservations: %w", err)
	}

	var s Summary
	if s.MenuItemsPath, err = e.MenuItems(ctx, list, at); err != nil {
		return s, err
	}
	s.MenuItems = len(list)
	if s.ReservationsPath, err = e.Reservations(ctx, recs, at); err != nil {
		return s, err
	}
	s.Reservations = len(recs)
	return s, nil
}

func (e *Exporter) MenuItems(ctx context.Context, items []*models.MenuItem, at time.Time) (string, error) {
	rows := menuItemRows(items, at)
	return e.write(ctx, DatasetMenuItems, at, len(rows), func(pw *writer.ParquetWriter) error {
		for _, row := range rows {
			if err := pw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func (e *Exporter) Reservations(ctx context.Context, recs []*models.ReservationRecord, at time.Time) (string, error) {
	rows := reservationRows(recs, at)
	return e.write(ctx, DatasetReservations, at, len(rows), func(pw *writer.ParquetWriter) error {
		for _, row := range rows {
			if err := pw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func partitionPath(at time.Time) string {
	year, month, day := at.UTC().Date()
	return fmt.Sprintf("year=%d/month=%02d/day=%02d", year, month, day)
}

func (e *Exporter) write(ctx context.Context, dataset string, at time.Time, n int, fill func(*writer.ParquetWriter) error) (string, error) {
	proto, err := prototype(dataset)
	if err != nil {
		return "", err
	}

	fw, location, err := e.open(ctx, dataset, at)
	if err != nil {
		return "", err
	}

	pw, err := writer.NewParquetWriter(fw, proto, parallelism)
	if err != nil {
		fw.Close()
		return "", fmt.Errorf("failed to create ParquetWriter: %w", err)
	}
	if err := fill(pw); err != nil {
		fw.Close()
		return "", fmt.Errorf("failed to write %s: %w", dataset, err)
	}
	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return "", fmt.Errorf("failed to finish %s: %w", dataset, err)
	}
	if err := fw.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", location, err)
	}

	e.logger.Info().Str("dataset", dataset).Int("rows", n).Str("path", location).Msg("export written")
	return location, nil
}

func (e *Exporter) open(ctx context.Context, dataset string, at time.Time) (source.ParquetFile, string, error) {
	if e.cloudWriterFactory != nil {
		objectPath := path.Join(e.folder, dataset, partitionPath(at), "data.parquet")
		cloudWriter, err := e.cloudWriterFactory.NewWriter(ctx, e.cloudBucketName, objectPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		return NewCloudParquetFile(cloudWriter), e.cloudBucketName + "/" + objectPath, nil
	}

	dir := filepath.Join(e.basePath, e.folder, dataset, filepath.FromSlash(partitionPath(at)))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, "", err
	}
	filePath := filepath.Join(dir, "data.parquet")
	fw, err := local.NewLocalFileWriter(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create local file writer: %w", err)
	}
	return fw, filePath, nil
}
