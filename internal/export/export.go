// Package export renders assembled facilities as CSV or XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SezginYurdakul/catering-api/internal/model"
	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
)

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

const sheetName = "Facilities"

var facilityHeader = []string{
	"id", "name", "city", "address", "zip_code", "country_code", "tags", "creation_date",
}

// ParseFormat defaults to CSV when s is empty.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", CSV:
		return CSV, nil
	case XLSX:
		return XLSX, nil
	default:
		return "", apperrors.InvalidField("format", fmt.Sprintf("unsupported export format %q, must be csv or xlsx", s))
	}
}

func (f Format) ContentType() string {
	if f == XLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

func (f Format) Filename() string {
	return "facilities." + string(f)
}

// Facilities writes one header row and one row per facility.
func Facilities(w io.Writer, format Format, facilities []*model.Facility) error {
	records := make([][]string, 0, len(facilities)+1)
	records = append(records, facilityHeader)
	for _, f := range facilities {
		records = append(records, facilityRecord(f))
	}

	switch format {
	case CSV:
		return writeCSV(w, records)
	case XLSX:
		return writeXLSX(w, records)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func facilityRecord(f *model.Facility) []string {
	var city, address, zip, country string
	if f.Location != nil {
		city, address, zip, country = f.Location.City, f.Location.Address, f.Location.ZipCode, f.Location.CountryCode
	}

	tags := make([]string, 0, len(f.Tags))
	for _, t := range f.Tags {
		tags = append(tags, t.Name)
	}

	return []string{
		strconv.FormatInt(f.ID, 10),
		f.Name,
		city,
		address,
		zip,
		country,
		strings.Join(tags, ";"),
		f.CreationDate.UTC().Format(time.RFC3339),
	}
}

func writeCSV(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func writeXLSX(w io.Writer, records [][]string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(record))
		for j, v := range record {
			row[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write xlsx row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}
