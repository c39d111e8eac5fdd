// Package source resolves and parses travel dataset CSV files into validated trips.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/theirongolddev/tripcost/internal/model"
)

// ParseResult holds the output of parsing a dataset.
type ParseResult struct {
	Trips    []model.Trip
	Rows     int
	Rejected []*RowError
	Err      error
}

// ProgressFunc is called while parsing with the number of rows read so far.
type ProgressFunc func(rows int)

// ParseFile reads the dataset at path. See ParseReader.
func ParseFile(path string, progressFn ProgressFunc) ParseResult {
	f, err := os.Open(path) //nolint:gosec // dataset path is chosen by the local user
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	return ParseReader(f, progressFn)
}

// ParseReader parses CSV rows into trips.
//
// The header row locates columns by exact name. Rows with malformed numeric
// fields, or with duration/companions below one, are quarantined in Rejected
// and parsing continues. Categorical fields are kept verbatim.
func ParseReader(r io.Reader, progressFn ProgressFunc) ParseResult {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ParseResult{Err: fmt.Errorf("%w: empty dataset", ErrDataQuality)}
		}
		return ParseResult{Err: fmt.Errorf("reading header: %w", err)}
	}

	idx, err := columnIndex(header)
	if err != nil {
		return ParseResult{Err: err}
	}

	var result ParseResult
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				result.Rows++
				result.Rejected = append(result.Rejected, &RowError{Line: perr.Line, Column: "*", Reason: perr.Err.Error()})
				continue
			}
			result.Err = fmt.Errorf("reading row %d: %w", result.Rows+1, err)
			return result
		}
		result.Rows++
		line, _ := cr.FieldPos(0)
		if progressFn != nil && result.Rows%1000 == 0 {
			progressFn(result.Rows)
		}

		trip, rowErr := parseRow(rec, idx, line)
		if rowErr != nil {
			result.Rejected = append(result.Rejected, rowErr)
			continue
		}
		result.Trips = append(result.Trips, trip)
	}

	if progressFn != nil {
		progressFn(result.Rows)
	}
	return result
}

// columnIndex maps required column names to their positions in header.
func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		// Strip a UTF-8 BOM from the first header cell.
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		idx[strings.TrimSpace(h)] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrDataQuality, strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRow(rec []string, idx map[string]int, line int) (model.Trip, *RowError) {
	field := func(col string) string {
		i := idx[col]
		if i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	days, rowErr := parseCount(field(ColDuration), ColDuration, line)
	if rowErr != nil {
		return model.Trip{}, rowErr
	}
	companions, rowErr := parseCount(field(ColCompanions), ColCompanions, line)
	if rowErr != nil {
		return model.Trip{}, rowErr
	}

	rawCost := field(ColTotalCost)
	cost, err := strconv.ParseFloat(strings.TrimSpace(rawCost), 64)
	switch {
	case err != nil:
		return model.Trip{}, &RowError{Line: line, Column: ColTotalCost, Value: rawCost, Reason: "not a number"}
	case math.IsNaN(cost) || math.IsInf(cost, 0):
		return model.Trip{}, &RowError{Line: line, Column: ColTotalCost, Value: rawCost, Reason: "not finite"}
	case cost < 0:
		return model.Trip{}, &RowError{Line: line, Column: ColTotalCost, Value: rawCost, Reason: "negative cost"}
	}

	trip := model.NewTrip(
		field(ColCountry),
		field(ColCity),
		field(ColAccommodation),
		field(ColTravelMode),
		field(ColSeason),
		days,
		companions,
		cost,
	)
	trip.Line = line
	return trip, nil
}

// parseCount parses a positive whole number. "7" and "7.0" are both accepted.
func parseCount(raw, col string, line int) (int, *RowError) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &RowError{Line: line, Column: col, Value: raw, Reason: "not a number"}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, &RowError{Line: line, Column: col, Value: raw, Reason: "not a whole number"}
	}
	if v < 1 {
		return 0, &RowError{Line: line, Column: col, Value: raw, Reason: "must be at least 1"}
	}
	if v > math.MaxInt32 {
		return 0, &RowError{Line: line, Column: col, Value: raw, Reason: "out of range"}
	}
	return int(v), nil
}
