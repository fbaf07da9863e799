package nutrition

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

type EnergyUnit string

const (
	Kilojoules   EnergyUnit = "kJ"
	Kilocalories EnergyUnit = "kcal"
)

// Columns names the source headers that hold the three fields the loader keeps.
type Columns struct {
	Name       string
	Energy     string
	Protein    string
	EnergyUnit EnergyUnit
	// Sheet selects the worksheet of a spreadsheet source. Empty means the first sheet.
	Sheet string
}

// DefaultColumns matches the headers of the Fineli food composition export.
func DefaultColumns() Columns {
	return Columns{
		Name:       "name",
		Energy:     "energia, laskennallinen (kJ)",
		Protein:    "proteiini (g)",
		EnergyUnit: Kilojoules,
	}
}

type Format int

const (
	FormatXLSX Format = iota + 1
	FormatCSV
	FormatTSV
)

func (f Format) String() string {
	switch f {
	case FormatXLSX:
		return "xlsx"
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the table format from a file name or URL path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	default:
		return 0, &DataFormatError{Reason: fmt.Sprintf("unsupported table format %q", filepath.Ext(path))}
	}
}

// LoadFoodTableFile opens path and loads it with LoadFoodTable.
func LoadFoodTableFile(path string, cols Columns) ([]FoodRecord, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &DataFormatError{Reason: "cannot open " + path, Err: err}
	}
	defer f.Close() // nolint:errcheck

	return LoadFoodTable(f, format, cols)
}

// LoadFoodTable reads a nutrition table and normalizes every row into a FoodRecord.
// Energy is converted from kilojoules unless cols.EnergyUnit is Kilocalories. Cells that
// are not numbers become NaN; rows without a name are skipped.
func LoadFoodTable(r io.Reader, format Format, cols Columns) ([]FoodRecord, error) {
	if cols.Name == "" || cols.Energy == "" || cols.Protein == "" {
		return nil, &DataFormatError{Reason: "name, energy and protein columns must be configured"}
	}

	var rows [][]string
	var err error
	switch format {
	case FormatXLSX:
		rows, err = readSpreadsheet(r, cols.Sheet)
	case FormatCSV:
		rows, err = readDelimited(r, 0)
	case FormatTSV:
		rows, err = readDelimited(r, '\t')
	default:
		err = &DataFormatError{Reason: fmt.Sprintf("unsupported table format %d", format)}
	}
	if err != nil {
		return nil, err
	}

	return normalizeRows(rows, cols)
}

func readSpreadsheet(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &DataFormatError{Reason: "unreadable spreadsheet", Err: err}
	}
	defer f.Close() // nolint:errcheck

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, &DataFormatError{Reason: "spreadsheet has no worksheets"}
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &DataFormatError{Reason: fmt.Sprintf("cannot read worksheet %q", sheet), Err: err}
	}
	return rows, nil
}

// readDelimited reads CSV-like text. A zero delimiter is detected from the header line,
// choosing between comma and semicolon.
func readDelimited(r io.Reader, delimiter rune) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &DataFormatError{Reason: "unreadable table", Err: err}
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	if delimiter == 0 {
		delimiter = detectDelimiter(data)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &DataFormatError{Reason: "malformed delimited text", Err: err}
	}
	return rows, nil
}

func detectDelimiter(data []byte) rune {
	header := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}
	if bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
		return ';'
	}
	return ','
}

type columnIndex struct {
	name, energy, protein int
}

func normalizeRows(rows [][]string, cols Columns) ([]FoodRecord, error) {
	if len(rows) == 0 {
		return nil, &DataFormatError{Reason: "table has no header row"}
	}

	idx, err := locateColumns(rows[0], cols)
	if err != nil {
		return nil, err
	}

	records := make([]FoodRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := strings.TrimSpace(cell(row, idx.name))
		if name == "" {
			continue
		}

		calories := parseNumber(cell(row, idx.energy))
		if cols.EnergyUnit != Kilocalories {
			calories = KilojoulesToKilocalories(calories)
		}

		records = append(records, FoodRecord{
			Name:     name,
			Calories: calories,
			Protein:  parseNumber(cell(row, idx.protein)),
		})
	}

	return records, nil
}

func locateColumns(header []string, cols Columns) (columnIndex, error) {
	find := func(want string) int {
		want = strings.TrimSpace(want)
		for i, h := range header {
			if strings.TrimSpace(h) == want {
				return i
			}
		}
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), want) {
				return i
			}
		}
		return -1
	}

	idx := columnIndex{
		name:    find(cols.Name),
		energy:  find(cols.Energy),
		protein: find(cols.Protein),
	}

	var missing []string
	if idx.name < 0 {
		missing = append(missing, strconv.Quote(cols.Name))
	}
	if idx.energy < 0 {
		missing = append(missing, strconv.Quote(cols.Energy))
	}
	if idx.protein < 0 {
		missing = append(missing, strconv.Quote(cols.Protein))
	}
	if len(missing) > 0 {
		return idx, &DataFormatError{Reason: "missing required columns " + strings.Join(missing, ", ")}
	}

	return idx, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// parseNumber coerces a cell to float64, returning NaN for anything that is not a finite
// number. A comma is accepted as the decimal separator when no dot is present.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil && strings.Contains(s, ",") && !strings.Contains(s, ".") {
		v, err = strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	}
	if err != nil || !isFinite(v) {
		return math.NaN()
	}
	return v
}
