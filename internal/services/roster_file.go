package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/alimgiray/roster/internal/models"
	"github.com/xuri/excelize/v2"
)

// RosterFormat is the file format of an import or export
type RosterFormat string

const (
	FormatCSV  RosterFormat = "csv"
	FormatXLSX RosterFormat = "xlsx"
)

const rosterSheet = "People"

var rosterHeader = []string{"Name", "Email", "Address", "Signup Time"}

var ErrUnsupportedFormat = errors.New("unsupported roster format, use csv or xlsx")

// ParseRosterFormat parses a user supplied format name. Empty means CSV.
func ParseRosterFormat(value string) (RosterFormat, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// FormatFromFilename picks XLSX for .xlsx files and CSV for everything else
func FormatFromFilename(name string) RosterFormat {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// Filename is the download name used for exports
func (f RosterFormat) Filename() string {
	return "people_data." + string(f)
}

func (f RosterFormat) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// RosterRow is one data row of a roster file. Line is the 1-based line
// (CSV) or row number (XLSX) it came from.
type RosterRow struct {
	Line  int
	Input models.PersonInput
}

// ReadRoster parses a roster file whose first row is a header. Columns are
// matched by header name, so their order does not matter.
func ReadRoster(r io.Reader, format RosterFormat) ([]RosterRow, error) {
	switch format {
	case FormatCSV:
		return readRosterCSV(r)
	case FormatXLSX:
		return readRosterXLSX(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func readRosterCSV(r io.Reader) ([]RosterRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return []RosterRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	columns := mapColumns(header)

	rows := []RosterRow{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		if isBlank(record) {
			continue
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, RosterRow{Line: line, Input: columns.input(record)})
	}

	return rows, nil
}

func readRosterXLSX(r io.Reader) ([]RosterRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []RosterRow{}, nil
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading xlsx sheet %s: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return []RosterRow{}, nil
	}

	columns := mapColumns(records[0])
	rows := []RosterRow{}
	for i, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		rows = append(rows, RosterRow{Line: i + 2, Input: columns.input(record)})
	}

	return rows, nil
}

// WriteRoster writes people with the standard header
func WriteRoster(w io.Writer, format RosterFormat, people []*models.Person) error {
	switch format {
	case FormatCSV:
		return writeRosterCSV(w, people)
	case FormatXLSX:
		return writeRosterXLSX(w, people)
	default:
		return ErrUnsupportedFormat
	}
}

func writeRosterCSV(w io.Writer, people []*models.Person) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(rosterHeader); err != nil {
		return err
	}
	for _, person := range people {
		if err := writer.Write(rosterRecord(person)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeRosterXLSX(w io.Writer, people []*models.Person) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), rosterSheet); err != nil {
		return err
	}

	header := make([]interface{}, len(rosterHeader))
	for i, title := range rosterHeader {
		header[i] = title
	}
	if err := f.SetSheetRow(rosterSheet, "A1", &header); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(rosterSheet, "A1", "D1", bold); err != nil {
		return err
	}
	if err := f.SetColWidth(rosterSheet, "A", "D", 30); err != nil {
		return err
	}

	for i, person := range people {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		record := rosterRecord(person)
		row := []interface{}{record[0], record[1], record[2], record[3]}
		if err := f.SetSheetRow(rosterSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func rosterRecord(person *models.Person) []string {
	return []string{person.Name, person.Email, person.Address, person.SignupTime}
}

// rosterColumns maps the four roster fields to column indexes, -1 when absent
type rosterColumns struct {
	name, email, address, signupTime int
}

func mapColumns(header []string) rosterColumns {
	columns := rosterColumns{name: -1, email: -1, address: -1, signupTime: -1}
	for i, title := range header {
		switch headerKey(title) {
		case "name":
			columns.name = i
		case "email":
			columns.email = i
		case "address":
			columns.address = i
		case "signuptime", "signupdate":
			columns.signupTime = i
		}
	}
	return columns
}

func (c rosterColumns) input(record []string) models.PersonInput {
	return models.PersonInput{
		Name:       cell(record, c.name),
		Email:      cell(record, c.email),
		Address:    cell(record, c.address),
		SignupTime: cell(record, c.signupTime),
	}
}

func headerKey(title string) string {
	title = strings.TrimPrefix(title, "\ufeff")
	title = strings.ToLower(title)
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.TrimSpace(title))
}

func cell(record []string, index int) string {
	if index < 0 || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

func isBlank(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
