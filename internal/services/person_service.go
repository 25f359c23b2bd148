package services

import (
	"errors"
	"time"

	"github.com/alimgiray/roster/internal/models"
	"github.com/alimgiray/roster/pkg/logger"
	"github.com/sirupsen/logrus"
)

// PersonStore is the persistence contract the reconciliation logic needs.
// Implementations return models.ErrPersonNotFound and models.ErrPersonConflict
// for missing and duplicate keys.
type PersonStore interface {
	List(filter models.PersonFilter) ([]*models.Person, error)
	GetByEmail(email string) (*models.Person, error)
	Create(person *models.Person) error
	Update(person *models.Person) error
	Rename(oldEmail string, person *models.Person) error
	Delete(email string) error
}

type PersonService struct {
	store PersonStore
	now   func() time.Time
}

func NewPersonService(store PersonStore) *PersonService {
	return &PersonService{
		store: store,
		now:   time.Now,
	}
}

// WithClock overrides the clock used for default signup dates
func (s *PersonService) WithClock(now func() time.Time) *PersonService {
	s.now = now
	return s
}

// Today returns the current calendar date
func (s *PersonService) Today() string {
	return s.now().Format(models.DateLayout)
}

// List returns all people whose signup date lies within the filter bounds
func (s *PersonService) List(filter models.PersonFilter) ([]*models.Person, error) {
	people, err := s.store.List(filter)
	if err != nil {
		return nil, storeError("list people", err)
	}
	return people, nil
}

// Get returns the person with the given email
func (s *PersonService) Get(email string) (*models.Person, error) {
	person, err := s.store.GetByEmail(models.NormalizeEmail(email))
	if err != nil {
		return nil, storeError("get person", err)
	}
	return person, nil
}

// Upsert creates the person when the email is unseen, otherwise updates name
// and address. The stored signup time always wins over an incoming one.
func (s *PersonService) Upsert(input *models.PersonInput) (*models.Person, models.UpsertStatus, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, "", err
	}

	existing, err := s.store.GetByEmail(input.Email)
	switch {
	case err == nil:
		existing.Name = input.Name
		existing.Address = input.Address
		if err := s.store.Update(existing); err != nil {
			return nil, "", storeError("update person", err)
		}
		s.log(existing.Email).Info("Person updated")
		return existing, models.StatusUpdated, nil

	case errors.Is(err, models.ErrPersonNotFound):
		signupTime, err := input.SignupDate(s.Today())
		if err != nil {
			return nil, "", err
		}
		person := models.NewPerson(input.Name, input.Email, input.Address, signupTime)
		if err := s.store.Create(person); err != nil {
			return nil, "", storeError("create person", err)
		}
		s.log(person.Email).Info("Person created")
		return person, models.StatusCreated, nil

	default:
		return nil, "", storeError("get person", err)
	}
}

// RenameOrUpdate edits the person at email. When newEmail differs the record
// moves to the new key in a single store operation, keeping its signup time.
func (s *PersonService) RenameOrUpdate(email string, req *models.RenameRequest) (*models.Person, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	email = models.NormalizeEmail(email)

	existing, err := s.store.GetByEmail(email)
	if err != nil {
		return nil, storeError("get person", err)
	}

	existing.Name = req.Name
	existing.Address = req.Address

	if req.NewEmail == email {
		if err := s.store.Update(existing); err != nil {
			return nil, storeError("update person", err)
		}
		s.log(email).Info("Person updated")
		return existing, nil
	}

	existing.Email = req.NewEmail
	if err := s.store.Rename(email, existing); err != nil {
		return nil, storeError("rename person", err)
	}
	s.log(existing.Email).WithField("previous_email", email).Info("Person renamed")
	return existing, nil
}

// Delete removes the person at email
func (s *PersonService) Delete(email string) error {
	email = models.NormalizeEmail(email)
	if err := s.store.Delete(email); err != nil {
		return storeError("delete person", err)
	}
	s.log(email).Info("Person deleted")
	return nil
}

func (s *PersonService) log(email string) *logrus.Entry {
	return logger.ForPerson(email)
}

// storeError passes the domain sentinels through and wraps everything else
func storeError(op string, err error) error {
	if errors.Is(err, models.ErrPersonNotFound) || errors.Is(err, models.ErrPersonConflict) {
		return err
	}
	return &models.StoreError{Op: op, Err: err}
}
