package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/events"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/blob"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/geocoding"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/task"
)

// Import limits.
const (
	toponymImportBatchSize = 200
	maxArchiveEntrySize    = 64 << 20
)

// ErrInvalidArchive is returned for uploads that are not a ZIP archive
// holding exactly one CSV file.
var ErrInvalidArchive = fmt.Errorf("%w: archive must be a zip file containing one .csv file", domain.ErrValidation)

// Columns of the import CSV. Only oblast, community and street_name are
// required.
var toponymColumns = []string{
	"oblast", "admin_region_old", "admin_region_new", "gromada", "community",
	"street_type", "street_name", "latitude", "longitude",
}

func (s *toponymService) StartImport(ctx context.Context, archiveBase64 string) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	data, err := blob.Decode(archiveBase64)
	if err != nil {
		return uuid.Nil, domain.NewValidationError("archive", "must be valid base64 content", err)
	}
	if _, err := csvEntry(data); err != nil {
		return uuid.Nil, err
	}

	blobName, err := saveBlob(ctx, s.blobs, archiveBase64, "toponyms", "zip")
	if err != nil {
		return uuid.Nil, err
	}

	taskID := uuid.New()
	event, err := events.NewTaskRequestEvent(task.TaskTypeToponymImport,
		task.ToponymImportPayload{TaskID: taskID, BlobName: blobName})
	if err != nil {
		removeBlob(ctx, s.blobs, s.logger, blobName)
		return uuid.Nil, NewServiceError("toponym import", "start", "failed to build task event", err)
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		removeBlob(ctx, s.blobs, s.logger, blobName)
		log.Error("failed to queue toponym import", slog.String("error", err.Error()))
		return uuid.Nil, NewServiceError("toponym import", "start", "failed to queue import", err)
	}

	log.Info("toponym import queued",
		slog.String("task_id", taskID.String()),
		slog.String("blob_name", blobName))
	return taskID, nil
}

// csvEntry returns the single CSV file of a ZIP archive.
func csvEntry(data []byte) (*zip.File, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, ErrInvalidArchive
	}
	var found *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.EqualFold(path.Ext(f.Name), ".csv") {
			continue
		}
		if found != nil {
			return nil, ErrInvalidArchive
		}
		found = f
	}
	if found == nil {
		return nil, ErrInvalidArchive
	}
	if found.UncompressedSize64 > maxArchiveEntrySize {
		return nil, fmt.Errorf("%w: csv file is larger than %d bytes", domain.ErrValidation, maxArchiveEntrySize)
	}
	return found, nil
}

// ImportToponyms implements task.ToponymImporter. It reads the archive
// saved under blobName, skips rows already present, geocodes rows without
// coordinates and inserts the rest in batches. Row level problems are
// counted in the report; only infrastructure failures abort the import.
func (s *toponymService) ImportToponyms(ctx context.Context, blobName string) (*domain.ToponymImportReport, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("blob_name", blobName))
	report := &domain.ToponymImportReport{}

	content, err := s.blobs.Find(ctx, blobName)
	if err != nil {
		return report, fmt.Errorf("failed to load archive: %w", err)
	}
	data, err := blob.Decode(content)
	if err != nil {
		return report, err
	}
	entry, err := csvEntry(data)
	if err != nil {
		return report, err
	}
	rc, err := entry.Open()
	if err != nil {
		return report, fmt.Errorf("%w: %w", ErrInvalidArchive, err)
	}
	defer rc.Close()

	r := csv.NewReader(io.LimitReader(rc, maxArchiveEntrySize))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return report, fmt.Errorf("%w: missing header row", domain.ErrValidation)
	}
	columns, err := mapColumns(header)
	if err != nil {
		return report, err
	}

	seen := make(map[string]bool)
	batch := make([]*domain.Toponym, 0, toponymImportBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.w.Toponyms().CreateRange(ctx, batch); err != nil {
			return err
		}
		report.Imported += len(batch)
		batch = batch[:0]
		return nil
	}

	line := 1
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err != nil {
			report.Rows++
			report.Invalid++
			report.AddError(line, err)
			continue
		}
		report.Rows++

		toponym, err := parseToponymRow(record, columns)
		if err == nil {
			err = toponym.Validate()
		}
		if err != nil {
			report.Invalid++
			report.AddError(line, err)
			continue
		}

		key := toponym.Key()
		if seen[key] {
			report.Skipped++
			continue
		}
		seen[key] = true
		exists, err := s.w.Toponyms().Exists(ctx,
			store.Eq("community", toponym.Community),
			store.Eq("street_type", toponym.StreetType),
			store.Eq("street_name", toponym.StreetName))
		if err != nil {
			return report, err
		}
		if exists {
			report.Skipped++
			continue
		}

		if !toponym.HasCoordinates() && s.geocoder != nil {
			if err := s.geocode(ctx, toponym); err != nil {
				if ctx.Err() != nil {
					return report, ctx.Err()
				}
				report.AddError(line, err)
			} else {
				report.Geocoded++
			}
		}

		batch = append(batch, toponym)
		if len(batch) == toponymImportBatchSize {
			if err := flush(); err != nil {
				return report, err
			}
		}
	}
	if err := flush(); err != nil {
		return report, err
	}

	log.Info("toponym archive imported",
		slog.Int("rows", report.Rows),
		slog.Int("imported", report.Imported),
		slog.Int("skipped", report.Skipped),
		slog.Int("invalid", report.Invalid))
	removeBlob(ctx, s.blobs, s.logger, blobName)
	return report, nil
}

func (s *toponymService) geocode(ctx context.Context, t *domain.Toponym) error {
	coords, err := s.geocoder.Geocode(ctx, geocoding.Address{
		Oblast:     t.Oblast,
		Community:  t.Community,
		StreetType: t.StreetType,
		StreetName: t.StreetName,
	})
	if err != nil {
		return fmt.Errorf("geocoding %s %s: %w", t.StreetType, t.StreetName, err)
	}
	lat, lng := coords.Latitude, coords.Longitude
	if err := domain.ValidateLatLng(lat, lng); err != nil {
		return err
	}
	t.Latitude, t.Longitude = &lat, &lng
	return nil
}

// mapColumns returns the index of each known column in header.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		columns[name] = i
	}
	for _, required := range []string{"oblast", "community", "street_name"} {
		if _, ok := columns[required]; !ok {
			return nil, domain.NewValidationError("archive", "csv header lacks column "+required, nil)
		}
	}
	known := make(map[string]int, len(toponymColumns))
	for _, name := range toponymColumns {
		if i, ok := columns[name]; ok {
			known[name] = i
		}
	}
	return known, nil
}

func parseToponymRow(record []string, columns map[string]int) (*domain.Toponym, error) {
	get := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	t := &domain.Toponym{
		Oblast:         get("oblast"),
		AdminRegionOld: get("admin_region_old"),
		AdminRegionNew: get("admin_region_new"),
		Gromada:        get("gromada"),
		Community:      get("community"),
		StreetType:     get("street_type"),
		StreetName:     get("street_name"),
	}
	lat, lng := get("latitude"), get("longitude")
	if lat == "" && lng == "" {
		return t, nil
	}
	latV, err := parseDecimal(lat)
	if err != nil {
		return nil, domain.NewValidationError("latitude", "is not a number", domain.ErrInvalidFormat)
	}
	lngV, err := parseDecimal(lng)
	if err != nil {
		return nil, domain.NewValidationError("longitude", "is not a number", domain.ErrInvalidFormat)
	}
	t.Latitude, t.Longitude = &latV, &lngV
	return t, nil
}

// parseDecimal accepts both "50.45" and the comma decimal form "50,45".
func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}
