package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alimgiray/roster/internal/handlers"
	"github.com/alimgiray/roster/internal/models"
	"github.com/alimgiray/roster/internal/repositories"
	"github.com/alimgiray/roster/internal/services"
	"github.com/alimgiray/roster/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger.SetOutput(io.Discard)
	gin.SetMode(gin.TestMode)

	store := repositories.NewMemoryPersonRepository()
	personService := services.NewPersonService(store)
	router := gin.New()
	handlers.SetupRoutes(router,
		handlers.NewPersonHandler(personService, services.NewImportService(personService), services.NewExportService(personService)),
		handlers.NewHealthHandler(store),
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestImportExportListDelete(t *testing.T) {
	server := newTestServer(t)
	dir := t.TempDir()

	input := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(input, []byte(
		"Name,Email,Address,Signup Time\n"+
			"John Doe,john.doe@example.com,123 Main St,2025-02-09\n"+
			"Broken,broken@example.com,,2025-02-09\n"+
			"Jane Doe,jane.doe@example.com,456 Elm St,2025-02-08\n"), 0o644))

	out, err := run(t, "import", input, "--server", server.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 rows: 2 created, 0 updated, 1 failed")
	assert.Contains(t, out, "row 3 broken@example.com")

	_, err = run(t, "import", input, "--server", server.URL, "--strict")
	assert.Error(t, err)

	exported := filepath.Join(dir, "people.xlsx")
	out, err = run(t, "export", exported, "--server", server.URL, "--start-date", "2025-02-09")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 people")

	file, err := os.Open(exported)
	require.NoError(t, err)
	rows, err := services.ReadRoster(file, services.FormatXLSX)
	file.Close()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "john.doe@example.com", rows[0].Input.Email)

	out, err = run(t, "list", "--server", server.URL, "--json", "--start-date", "", "--end-date", "")
	require.NoError(t, err)
	var people []models.Person
	require.NoError(t, json.Unmarshal([]byte(out), &people))
	assert.Len(t, people, 2)

	out, err = run(t, "delete", "jane.doe@example.com", "--server", server.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted jane.doe@example.com")

	_, err = run(t, "delete", "jane.doe@example.com", "--server", server.URL)
	assert.Error(t, err)
}

func TestListTable(t *testing.T) {
	server := newTestServer(t)

	out, err := run(t, "list", "--server", server.URL, "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "SIGNUP")
}

func TestAddAndUpdate(t *testing.T) {
	server := newTestServer(t)

	out, err := run(t, "add", "--server", server.URL,
		"--name", "Jane Doe", "--email", "Jane.Doe@Example.com", "--address", "456 Elm St", "--signup-time", "2025-02-08")
	require.NoError(t, err)
	assert.Equal(t, "created jane.doe@example.com (Jane Doe, signed up 2025-02-08)\n", out)

	out, err = run(t, "add", "--server", server.URL,
		"--name", "Jane D.", "--email", "jane.doe@example.com", "--address", "1 New St", "--signup-time", "")
	require.NoError(t, err)
	assert.Equal(t, "updated jane.doe@example.com (Jane D., signed up 2025-02-08)\n", out)

	_, err = run(t, "add", "--server", server.URL, "--name", "", "--email", "ann@example.com", "--address", "1 St")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name, email, and address are required")

	out, err = run(t, "update", "jane.doe@example.com", "--server", server.URL,
		"--name", "Jane Smith", "--address", "789 Oak St", "--new-email", "jane.smith@example.com")
	require.NoError(t, err)
	assert.Equal(t, "updated jane.smith@example.com (Jane Smith, signed up 2025-02-08)\n", out)

	out, err = run(t, "update", "jane.smith@example.com", "--server", server.URL,
		"--name", "Jane Smith", "--address", "1 Pine St", "--new-email", "")
	require.NoError(t, err)
	assert.Contains(t, out, "updated jane.smith@example.com")

	_, err = run(t, "update", "jane.doe@example.com", "--server", server.URL,
		"--name", "Jane", "--address", "1 St", "--new-email", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Person not found")

	out, err = run(t, "list", "--server", server.URL, "--json", "--start-date", "", "--end-date", "")
	require.NoError(t, err)
	var people []models.Person
	require.NoError(t, json.Unmarshal([]byte(out), &people))
	require.Len(t, people, 1)
	assert.Equal(t, "jane.smith@example.com", people[0].Email)
	assert.Equal(t, "1 Pine St", people[0].Address)
	assert.Equal(t, "2025-02-08", people[0].SignupTime)
}
