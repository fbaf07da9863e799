package nutrition

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func fixturePath(t *testing.T, name string) string {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("..", "..", "testdata", name))
	require.NoError(t, err)
	return absPath
}

// writeSpreadsheet saves rows to a new xlsx file in a temporary directory.
func writeSpreadsheet(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &rows[i]))
	}

	path := filepath.Join(t.TempDir(), "foods.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadFoodTableFile_CSV(t *testing.T) {
	records, err := LoadFoodTableFile(fixturePath(t, "fineli_sample.csv"), DefaultColumns())
	require.NoError(t, err)

	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}
	assert.Equal(t, []string{
		"Chicken breast", "Rice, boiled", "Tuna in water", "Cheddar", "Mystery bar", "Egg white", "Water",
	}, names, "blank names are skipped and table order is kept")

	chicken := records[0]
	assert.InDelta(t, 690*KJToKcal, chicken.Calories, 1e-6)
	assert.Equal(t, 31.0, chicken.Protein)

	rice := records[1]
	assert.Equal(t, 2.7, rice.Protein, "comma decimal separator is accepted")

	mystery := records[4]
	assert.True(t, math.IsNaN(mystery.Calories), "non-numeric energy becomes a missing value")
	assert.True(t, mystery.HasMissingValue())
	assert.Equal(t, 10.0, mystery.Protein)
}

func TestLoadFoodTableFile_Spreadsheet(t *testing.T) {
	path := writeSpreadsheet(t, [][]any{
		{"id", "name", "energia, laskennallinen (kJ)", "proteiini (g)", "hiilihydraatti (g)"},
		{1, "Chicken breast", 690, 31, 0},
		{2, "Rye bread", 950, "n/a", 40},
		{3, "Cottage cheese", 410, 12.5},
	})

	records, err := LoadFoodTableFile(path, DefaultColumns())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Chicken breast", records[0].Name)
	assert.InDelta(t, 164.91414, records[0].Calories, 1e-6)
	assert.True(t, math.IsNaN(records[1].Protein))
	assert.Equal(t, 12.5, records[2].Protein)
}

func TestLoadFoodTable_CaloriesConversion(t *testing.T) {
	energies := []float64{0, 1, 99.5, 217, 690, 1680, 3700.25}

	var b strings.Builder
	b.WriteString("name,energia, laskennallinen (kJ),proteiini (g)\n")
	for i, e := range energies {
		b.WriteString("food")
		b.WriteString(strings.Repeat("x", i))
		b.WriteString(",")
		b.WriteString(strconv.FormatFloat(e, 'f', -1, 64))
		b.WriteString(",1\n")
	}

	// The header itself contains a comma, so it has to be quoted for a comma separated file.
	src := strings.Replace(b.String(), "energia, laskennallinen (kJ)", `"energia, laskennallinen (kJ)"`, 1)

	records, err := LoadFoodTable(strings.NewReader(src), FormatCSV, DefaultColumns())
	require.NoError(t, err)
	require.Len(t, records, len(energies))

	for i, e := range energies {
		assert.InDelta(t, e*0.239006, records[i].Calories, 1e-6)
	}
}

func TestLoadFoodTable_KilocalorieSource(t *testing.T) {
	cols := Columns{Name: "Food", Energy: "Energy (kcal)", Protein: "Protein (g)", EnergyUnit: Kilocalories}

	records, err := LoadFoodTableFile(fixturePath(t, "kcal_foods.csv"), cols)
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, FoodRecord{Name: "Chicken", Calories: 165, Protein: 31}, records[0])
}

func TestLoadFoodTable_Errors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		cols   Columns
		errMsg string
	}{
		{
			name:   "empty source",
			format: FormatCSV,
			input:  "",
			cols:   DefaultColumns(),
			errMsg: "no header row",
		},
		{
			name:   "missing protein column",
			format: FormatCSV,
			input:  "name;energia, laskennallinen (kJ);rasva (g)\nApple;200;0\n",
			cols:   DefaultColumns(),
			errMsg: `"proteiini (g)"`,
		},
		{
			name:   "unreadable spreadsheet",
			format: FormatXLSX,
			input:  "this is not a zip archive",
			cols:   DefaultColumns(),
			errMsg: "unreadable spreadsheet",
		},
		{
			name:   "unconfigured columns",
			format: FormatCSV,
			input:  "a,b,c\n",
			cols:   Columns{Name: "a"},
			errMsg: "must be configured",
		},
		{
			name:   "unknown format",
			format: Format(42),
			input:  "name\n",
			cols:   DefaultColumns(),
			errMsg: "unsupported table format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := LoadFoodTable(strings.NewReader(tt.input), tt.format, tt.cols)
			require.Error(t, err)
			assert.Nil(t, records)

			var formatErr *DataFormatError
			require.True(t, errors.As(err, &formatErr), "expected a DataFormatError, got %T", err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadFoodTableFile_MissingFile(t *testing.T) {
	_, err := LoadFoodTableFile(filepath.Join(t.TempDir(), "absent.csv"), DefaultColumns())

	var formatErr *DataFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"app/data/resultset.xlsx", FormatXLSX, false},
		{"FOODS.CSV", FormatCSV, false},
		{"export.tsv", FormatTSV, false},
		{"https://example.com/fineli/foods.xlsx", FormatXLSX, false},
		{"foods.json", 0, true},
		{"foods", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		missing bool
	}{
		{"12.5", 12.5, false},
		{" 31 ", 31, false},
		{"2,7", 2.7, false},
		{"-1", -1, false},
		{"", 0, true},
		{"N/A", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{"1,234.5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := parseNumber(tt.in)
			if tt.missing {
				assert.True(t, math.IsNaN(got))
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
