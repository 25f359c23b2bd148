package services

import (
	"io"

	"github.com/alimgiray/roster/internal/models"
	"github.com/alimgiray/roster/pkg/logger"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Upserter receives validated import rows. PersonService satisfies it on the
// server, the HTTP client does in rosterctl.
type Upserter interface {
	Upsert(input *models.PersonInput) (*models.Person, models.UpsertStatus, error)
}

// ImportRowError describes one rejected row
type ImportRowError struct {
	Row   int    `json:"row"`
	Email string `json:"email,omitempty"`
	Error string `json:"error"`
}

// ImportReport summarizes a bulk import
type ImportReport struct {
	BatchID string           `json:"batchId"`
	Total   int              `json:"total"`
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Failed  int              `json:"failed"`
	People  []*models.Person `json:"people"`
	Errors  []ImportRowError `json:"errors"`
}

type ImportService struct {
	target Upserter
}

func NewImportService(target Upserter) *ImportService {
	return &ImportService{target: target}
}

// ImportFile reads a roster file and imports its rows. Only an unreadable
// file is an error; bad rows are reported in the result.
func (s *ImportService) ImportFile(r io.Reader, format RosterFormat) (*ImportReport, error) {
	rows, err := ReadRoster(r, format)
	if err != nil {
		return nil, err
	}
	return s.Import(rows), nil
}

// Import submits rows one at a time in order. A failing row is logged and
// skipped; it never stops the batch.
func (s *ImportService) Import(rows []RosterRow) *ImportReport {
	report := &ImportReport{
		BatchID: uuid.New().String(),
		Total:   len(rows),
		People:  []*models.Person{},
		Errors:  []ImportRowError{},
	}
	log := logger.WithField(logger.FieldBatchID, report.BatchID)

	for _, row := range rows {
		input := row.Input
		input.Normalize()

		person, status, err := s.importRow(&input)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, ImportRowError{Row: row.Line, Email: input.Email, Error: err.Error()})
			logger.ForImportRow(report.BatchID, row.Line, input.Email).WithError(err).Warn("Skipping import row")
			continue
		}

		switch status {
		case models.StatusCreated:
			report.Created++
		case models.StatusUpdated:
			report.Updated++
		}
		report.People = append(report.People, person)
	}

	log.WithFields(logrus.Fields{
		"total":   report.Total,
		"created": report.Created,
		"updated": report.Updated,
		"failed":  report.Failed,
	}).Info("Import finished")

	return report
}

func (s *ImportService) importRow(input *models.PersonInput) (*models.Person, models.UpsertStatus, error) {
	if err := input.Validate(); err != nil {
		return nil, "", err
	}
	if err := models.ValidateEmailFormat(input.Email); err != nil {
		return nil, "", err
	}
	return s.target.Upsert(input)
}
