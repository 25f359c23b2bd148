package services

import (
	"io"

	"github.com/alimgiray/roster/internal/models"
)

// Lister is the read side of the roster
type Lister interface {
	List(filter models.PersonFilter) ([]*models.Person, error)
}

type ExportService struct {
	source Lister
}

func NewExportService(source Lister) *ExportService {
	return &ExportService{source: source}
}

// Export writes the people matching filter to w
func (s *ExportService) Export(w io.Writer, format RosterFormat, filter models.PersonFilter) (int, error) {
	people, err := s.source.List(filter)
	if err != nil {
		return 0, err
	}
	if err := WriteRoster(w, format, people); err != nil {
		return 0, err
	}
	return len(people), nil
}
