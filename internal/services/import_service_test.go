package services

import (
	"strings"
	"testing"

	"github.com/alimgiray/roster/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUpserter struct {
	*PersonService
	calls []string
}

func (r *recordingUpserter) Upsert(input *models.PersonInput) (*models.Person, models.UpsertStatus, error) {
	r.calls = append(r.calls, input.Email)
	return r.PersonService.Upsert(input)
}

func TestImportContinuesPastBadRows(t *testing.T) {
	personService, _ := newTestPersonService(t)
	_, _, err := personService.Upsert(&models.PersonInput{Name: "Jane Doe", Email: "jane.doe@example.com", Address: "456 Elm St", SignupTime: "2025-02-01"})
	require.NoError(t, err)

	target := &recordingUpserter{PersonService: personService}
	service := NewImportService(target)

	csvData := strings.Join([]string{
		"Name,Email,Address,Signup Time",
		"John Doe,john.doe@example.com,123 Main St,2025-02-09",
		",missing.name@example.com,1 St,2025-02-09",
		"Bad Email,not-an-email,1 St,2025-02-09",
		"Jane Smith,JANE.DOE@example.com,789 Oak St,2025-02-09",
		"Bad Date,bad.date@example.com,1 St,someday",
		"Ann Lee,ann.lee@example.com,5 Pine St,",
	}, "\n")

	report, err := service.ImportFile(strings.NewReader(csvData), FormatCSV)
	require.NoError(t, err)

	_, err = uuid.Parse(report.BatchID)
	assert.NoError(t, err)
	assert.Equal(t, 6, report.Total)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 3, report.Failed)
	assert.Len(t, report.People, 3)

	require.Len(t, report.Errors, 3)
	assert.Equal(t, 3, report.Errors[0].Row)
	assert.Equal(t, "Name, email, and address are required", report.Errors[0].Error)
	assert.Equal(t, 4, report.Errors[1].Row)
	assert.Equal(t, "Invalid email", report.Errors[1].Error)
	assert.Equal(t, 6, report.Errors[2].Row)

	// rows reach the target in file order; rows missing fields or with a
	// malformed email never do, a bad signup date is rejected by the target
	assert.Equal(t, []string{"john.doe@example.com", "jane.doe@example.com", "bad.date@example.com", "ann.lee@example.com"}, target.calls)
	assert.Contains(t, report.Errors[2].Error, "signupTime")

	jane, err := personService.Get("jane.doe@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", jane.Name)
	assert.Equal(t, "2025-02-01", jane.SignupTime)

	ann, err := personService.Get("ann.lee@example.com")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-10", ann.SignupTime)
}

func TestImportUpdatesExistingDespiteOddSignupTime(t *testing.T) {
	personService, _ := newTestPersonService(t)
	_, _, err := personService.Upsert(&models.PersonInput{Name: "John Doe", Email: "john.doe@example.com", Address: "123 Main St", SignupTime: "2025-02-09"})
	require.NoError(t, err)

	csvData := "Name,Email,Address,Signup Time\nJohn D.,john.doe@example.com,1 New St,Feb 9th\n"
	report, err := NewImportService(personService).ImportFile(strings.NewReader(csvData), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 0, report.Failed)

	john, err := personService.Get("john.doe@example.com")
	require.NoError(t, err)
	assert.Equal(t, "John D.", john.Name)
	assert.Equal(t, "2025-02-09", john.SignupTime)
}

func TestImportFileUnreadable(t *testing.T) {
	personService, _ := newTestPersonService(t)
	service := NewImportService(personService)

	_, err := service.ImportFile(strings.NewReader("not a workbook"), FormatXLSX)
	assert.Error(t, err)
}
