package data

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/statehealth/scatter/internal/column"
)

const (
	stateHeader        = "State"
	abbreviationHeader = "abbreviation"
)

// ErrEmpty is returned when a file has a header but no rows.
var ErrEmpty = errors.New("dataset has no rows")

// Options controls parsing.
type Options struct {
	// StrictNumeric rejects cells that do not parse as numbers. When false,
	// such cells become NaN.
	StrictNumeric bool
}

// Load reads a CSV dataset from path. Paths ending in ".zst" are
// zstd-compressed.
func Load(path string, opts Options) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	if strings.HasSuffix(path, ".zst") {
		raw, err = decompress(raw)
		if err != nil {
			return nil, err
		}
	}

	ds, err := Parse(bytes.NewReader(raw), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

func decompress(raw []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer decoder.Close()

	out, err := decoder.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress failed: %w", err)
	}
	return out, nil
}

// Parse reads CSV with a header row from r.
func Parse(r io.Reader, opts Options) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("missing header row")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	stateIdx, abbrIdx := -1, -1
	var numIdx [column.Count]int
	for i := range numIdx {
		numIdx[i] = -1
	}
	for i, name := range header {
		name = strings.TrimSpace(name)
		switch name {
		case stateHeader:
			stateIdx = i
			continue
		case abbreviationHeader:
			abbrIdx = i
			continue
		}
		if k, err := column.ParseKey(name); err == nil {
			numIdx[k] = i
		}
	}

	var missing []string
	if stateIdx < 0 {
		missing = append(missing, stateHeader)
	}
	if abbrIdx < 0 {
		missing = append(missing, abbreviationHeader)
	}
	for k, idx := range numIdx {
		if idx < 0 {
			missing = append(missing, column.Key(k).String())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	var rows []Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		row := Row{State: rec[stateIdx], Abbreviation: rec[abbrIdx]}
		for k, idx := range numIdx {
			v, err := parseNumber(rec[idx])
			if err != nil && opts.StrictNumeric {
				return nil, fmt.Errorf("line %d column %s: %w", line, column.Key(k), err)
			}
			row.values[k] = v
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	return NewDataset(rows), nil
}

// parseNumber returns NaN alongside the error for unparsable text.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), errors.New("empty cell")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}
