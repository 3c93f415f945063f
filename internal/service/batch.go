package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"github.com/gan-shmuel/weight-service/internal/metrics"
	"github.com/gan-shmuel/weight-service/internal/repository"
	"github.com/rs/zerolog"
)

// Supported batch file formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// BatchImporter loads container tare files from the input directory.
type BatchImporter interface {
	ImportBatch(ctx context.Context, file string) (int, error)
}

// BatchImporterImpl implements BatchImporter.
type BatchImporterImpl struct {
	tx          repository.TxRunner
	registry    ContainerRegistry
	inputDir    string
	maxFileSize int64
}

// NewBatchImporter creates an importer reading files from inputDir.
// A maxFileSize of 0 or less disables the size limit.
func NewBatchImporter(tx repository.TxRunner, registry ContainerRegistry, inputDir string, maxFileSize int64) *BatchImporterImpl {
	return &BatchImporterImpl{
		tx:          tx,
		registry:    registry,
		inputDir:    inputDir,
		maxFileSize: maxFileSize,
	}
}

// ImportBatch parses file and upserts every record in one transaction.
// It returns the number of distinct containers written.
func (b *BatchImporterImpl) ImportBatch(ctx context.Context, file string) (int, error) {
	const op = "import batch"

	if file == "" || filepath.Base(file) != file || file == "." || file == ".." {
		return 0, model.Validationf(op, "file must be a plain file name")
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(file)), ".")
	if format != FormatJSON && format != FormatCSV {
		return 0, model.Validationf(op, "unsupported file type %q, use .json or .csv", filepath.Ext(file))
	}

	data, err := b.readFile(op, file)
	if err != nil {
		return 0, err
	}

	var records []model.TareRecord
	switch format {
	case FormatJSON:
		records, err = parseJSONTares(data)
	case FormatCSV:
		records, err = parseCSVTares(data)
	}
	if err != nil {
		return 0, model.Validationf(op, "%s: %v", file, err)
	}
	records = dedupeTares(records)

	err = b.tx.RunInTx(ctx, func(ctx context.Context) error {
		return b.registry.Upsert(ctx, records)
	})
	if err != nil {
		return 0, model.StoreError(op, err)
	}

	metrics.RecordBatchImport(format, len(records))
	zerolog.Ctx(ctx).Info().
		Str("file", file).
		Str("format", format).
		Int("containers", len(records)).
		Msg("container batch imported")

	return len(records), nil
}

func (b *BatchImporterImpl) readFile(op, file string) ([]byte, error) {
	path := filepath.Join(b.inputDir, file)

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, model.NotFoundf(op, "file %s not found", file)
	}
	if err != nil {
		return nil, model.StoreError(op, err)
	}
	if info.IsDir() {
		return nil, model.Validationf(op, "%s is a directory", file)
	}
	if b.maxFileSize > 0 && info.Size() > b.maxFileSize {
		return nil, model.Validationf(op, "%s exceeds the maximum size of %d bytes", file, b.maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.StoreError(op, err)
	}
	return data, nil
}

func parseJSONTares(data []byte) ([]model.TareRecord, error) {
	var records []model.TareRecord
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&records); err != nil {
		return nil, err
	}
	for i := range records {
		records[i].ID = strings.TrimSpace(records[i].ID)
	}
	return records, nil
}

// parseCSVTares reads an "id,kg" or "id,lbs" file. The second header cell
// names the unit of every row.
func parseCSVTares(data []byte) ([]model.TareRecord, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = 2

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(header[0]), "id") {
		return nil, errors.New(`first header must be "id"`)
	}
	unit, err := model.ParseUnit(header[1])
	if err != nil || strings.TrimSpace(header[1]) == "" {
		return nil, errors.New(`second header must be "kg" or "lbs"`)
	}

	var records []model.TareRecord
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rec := model.TareRecord{ID: strings.TrimSpace(row[0]), Unit: unit}
		if v := strings.TrimSpace(row[1]); v != "" {
			w, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, errors.New("container " + rec.ID + ": invalid weight " + strconv.Quote(v))
			}
			rec.Weight = &w
		}
		records = append(records, rec)
	}
	return records, nil
}

// dedupeTares keeps the last record of each id at the position of its
// first appearance.
func dedupeTares(records []model.TareRecord) []model.TareRecord {
	index := make(map[string]int, len(records))
	out := make([]model.TareRecord, 0, len(records))
	for _, rec := range records {
		if i, ok := index[rec.ID]; ok {
			out[i] = rec
			continue
		}
		index[rec.ID] = len(out)
		out = append(out, rec)
	}
	return out
}
