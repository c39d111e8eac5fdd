package source

import (
	"errors"
	"fmt"
)

// Column headers of the travel dataset.
const (
	ColCountry       = "Country_Visited"
	ColCity          = "City_Visited"
	ColAccommodation = "Accommodation_Type"
	ColTravelMode    = "Mode_of_Travel"
	ColSeason        = "Season_of_Visit"
	ColDuration      = "Travel_Duration_Days"
	ColCompanions    = "Number_of_Companions"
	ColTotalCost     = "Total_Travel_Cost"
)

// RequiredColumns lists every header the parser needs. Extra columns are ignored.
var RequiredColumns = []string{
	ColCountry, ColCity, ColAccommodation, ColTravelMode, ColSeason,
	ColDuration, ColCompanions, ColTotalCost,
}

// ErrDataQuality marks problems with the content of the dataset itself.
var ErrDataQuality = errors.New("data quality")

// RowError describes one rejected dataset row.
type RowError struct {
	Line   int    `json:"line" yaml:"line"`
	Column string `json:"column" yaml:"column"`
	Value  string `json:"value" yaml:"value"`
	Reason string `json:"reason" yaml:"reason"`
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s %q: %s", e.Line, e.Column, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrDataQuality.
func (e *RowError) Unwrap() error {
	return ErrDataQuality
}

// DatasetFile is a resolved dataset location.
type DatasetFile struct {
	Path      string
	MtimeNs   int64
	SizeBytes int64
}
