package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SezginYurdakul/catering-api/internal/model"
	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
)

var facilities = []*model.Facility{
	{
		ID:           1,
		Name:         "Garden Hall",
		Location:     &model.Location{City: "Amsterdam", Address: "Damrak 1", ZipCode: "1012 LG", CountryCode: "NL"},
		CreationDate: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Tags:         []*model.Tag{{ID: 1, Name: "Wedding"}, {ID: 2, Name: "Outdoor"}},
	},
	{
		ID:           2,
		Name:         "Loft, \"North\"",
		CreationDate: time.Date(2024, 4, 2, 8, 30, 0, 0, time.UTC),
	},
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, CSV, f)

	f, err = ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, XLSX, f)

	_, err = ParseFormat("pdf")
	assert.True(t, apperrors.IsValidation(err))
}

func TestFacilitiesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Facilities(&buf, CSV, facilities))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, facilityHeader, records[0])
	assert.Equal(t, []string{"1", "Garden Hall", "Amsterdam", "Damrak 1", "1012 LG", "NL", "Wedding;Outdoor", "2024-03-01T12:00:00Z"}, records[1])
	assert.Equal(t, "Loft, \"North\"", records[2][1])
	assert.Equal(t, "", records[2][2])
}

func TestFacilitiesXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Facilities(&buf, XLSX, facilities))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, facilityHeader, rows[0])
	assert.Equal(t, "Garden Hall", rows[1][1])
	assert.Equal(t, "Wedding;Outdoor", rows[1][6])
}

func TestFormatMetadata(t *testing.T) {
	assert.Equal(t, "facilities.xlsx", XLSX.Filename())
	assert.Contains(t, CSV.ContentType(), "text/csv")
}
