package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/alimgiray/roster/internal/middleware"
	"github.com/alimgiray/roster/internal/models"
	"github.com/alimgiray/roster/internal/services"
	"github.com/alimgiray/roster/pkg/logger"
	"github.com/gin-gonic/gin"
)

type PersonHandler struct {
	personService *services.PersonService
	importService *services.ImportService
	exportService *services.ExportService
}

func NewPersonHandler(personService *services.PersonService, importService *services.ImportService, exportService *services.ExportService) *PersonHandler {
	return &PersonHandler{
		personService: personService,
		importService: importService,
		exportService: exportService,
	}
}

// ListPeople returns everyone, optionally limited to a signup date range
func (h *PersonHandler) ListPeople(c *gin.Context) {
	var filter models.PersonFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	people, err := h.personService.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, people)
}

// GetPerson returns a single person by email
func (h *PersonHandler) GetPerson(c *gin.Context) {
	person, err := h.personService.Get(c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, person)
}

// UpsertPerson adds a person or updates the one with the same email
func (h *PersonHandler) UpsertPerson(c *gin.Context) {
	var input models.PersonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	person, status, err := h.personService.Upsert(&input)
	if err != nil {
		respondError(c, err)
		return
	}

	if status == models.StatusCreated {
		c.JSON(http.StatusCreated, person)
		return
	}
	c.JSON(http.StatusOK, person)
}

// UpdatePerson edits name and address and moves the record when newEmail differs
func (h *PersonHandler) UpdatePerson(c *gin.Context) {
	var req models.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	person, err := h.personService.RenameOrUpdate(c.Param("email"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, person)
}

// DeletePerson removes a person
func (h *PersonHandler) DeletePerson(c *gin.Context) {
	if err := h.personService.Delete(c.Param("email")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ImportPeople upserts every row of an uploaded CSV or XLSX roster
func (h *PersonHandler) ImportPeople(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A roster file is required"})
		return
	}

	format := services.FormatFromFilename(fileHeader.Filename)
	if value := c.PostForm("format"); value != "" {
		if format, err = services.ParseRosterFormat(value); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not open roster file"})
		return
	}
	defer file.Close()

	report, err := h.importService.ImportFile(file, format)
	if err != nil {
		logger.ForRequest(middleware.GetRequestID(c)).WithError(err).Warn("Unreadable roster upload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read roster file: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportPeople downloads the roster as CSV or XLSX
func (h *PersonHandler) ExportPeople(c *gin.Context) {
	format, err := services.ParseRosterFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var filter models.PersonFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	var buf bytes.Buffer
	if _, err := h.exportService.Export(&buf, format, filter); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// respondError maps the error taxonomy onto HTTP statuses
func respondError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.Is(err, models.ErrPersonNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": models.ErrPersonNotFound.Error()})
	case errors.Is(err, models.ErrPersonConflict):
		c.JSON(http.StatusConflict, gin.H{"error": models.ErrPersonConflict.Error()})
	default:
		logger.ForRequest(middleware.GetRequestID(c)).WithError(err).Error("Store operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
	}
}
