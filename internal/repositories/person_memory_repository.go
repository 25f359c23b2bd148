package repositories

import (
	"sort"
	"sync"
	"time"

	"github.com/alimgiray/roster/internal/models"
)

// MemoryPersonRepository keeps the roster in a map keyed by email.
// Data is lost when the process exits.
type MemoryPersonRepository struct {
	mu     sync.RWMutex
	people map[string]models.Person
}

func NewMemoryPersonRepository() *MemoryPersonRepository {
	return &MemoryPersonRepository{people: make(map[string]models.Person)}
}

func (r *MemoryPersonRepository) Create(person *models.Person) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.people[person.Email]; exists {
		return models.ErrPersonConflict
	}
	r.people[person.Email] = *person
	return nil
}

func (r *MemoryPersonRepository) CreateMany(people []*models.Person) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, person := range people {
		if _, exists := r.people[person.Email]; exists {
			return models.ErrPersonConflict
		}
	}
	for _, person := range people {
		r.people[person.Email] = *person
	}
	return nil
}

func (r *MemoryPersonRepository) GetByEmail(email string) (*models.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	person, ok := r.people[email]
	if !ok {
		return nil, models.ErrPersonNotFound
	}
	return &person, nil
}

func (r *MemoryPersonRepository) List(filter models.PersonFilter) ([]*models.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	people := []*models.Person{}
	for _, person := range r.people {
		if filter.Matches(person.SignupTime) {
			p := person
			people = append(people, &p)
		}
	}

	sort.Slice(people, func(i, j int) bool {
		if people[i].SignupTime != people[j].SignupTime {
			return people[i].SignupTime < people[j].SignupTime
		}
		return people[i].Email < people[j].Email
	})
	return people, nil
}

func (r *MemoryPersonRepository) Update(person *models.Person) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.people[person.Email]
	if !ok {
		return models.ErrPersonNotFound
	}
	stored.Name = person.Name
	stored.Address = person.Address
	stored.UpdatedAt = time.Now().UTC()
	r.people[person.Email] = stored

	person.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *MemoryPersonRepository) Rename(oldEmail string, person *models.Person) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.people[oldEmail]
	if !ok {
		return models.ErrPersonNotFound
	}
	if _, taken := r.people[person.Email]; taken && person.Email != oldEmail {
		return models.ErrPersonConflict
	}

	stored.Email = person.Email
	stored.Name = person.Name
	stored.Address = person.Address
	stored.UpdatedAt = time.Now().UTC()

	delete(r.people, oldEmail)
	r.people[stored.Email] = stored

	*person = stored
	return nil
}

func (r *MemoryPersonRepository) Delete(email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.people[email]; !ok {
		return models.ErrPersonNotFound
	}
	delete(r.people, email)
	return nil
}

func (r *MemoryPersonRepository) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.people), nil
}

func (r *MemoryPersonRepository) Ping() error {
	return nil
}
