package services

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/alimgiray/roster/internal/models"
	"github.com/alimgiray/roster/pkg/logger"
)

// PersonSeeder is implemented by both person repositories
type PersonSeeder interface {
	Count() (int, error)
	CreateMany(people []*models.Person) error
}

type SeedService struct {
	store PersonSeeder
	rng   *rand.Rand
	now   func() time.Time
}

func NewSeedService(store PersonSeeder) *SeedService {
	return &SeedService{
		store: store,
		rng:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
		now:   time.Now,
	}
}

var (
	seedFirstNames = []string{"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda", "David", "Elizabeth", "William", "Barbara", "Richard", "Susan", "Joseph", "Jessica", "Thomas", "Sarah", "Carlos", "Aisha", "Wei", "Priya", "Mateo", "Fatima"}
	seedLastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Nguyen", "Patel", "Kim"}
	seedStreets    = []string{"Main St", "Oak St", "Elm St", "Maple Ave", "Cedar Ln", "Pine St", "Washington Blvd", "Lake Dr", "Hill Rd", "Park Ave"}
	seedCities     = []string{"Springfield", "Riverside", "Fairview", "Madison", "Georgetown", "Salem", "Franklin", "Clinton", "Greenville", "Bristol"}
	seedStates     = []string{"CA", "NY", "TX", "FL", "IL", "PA", "OH", "GA", "NC", "MI"}
)

// SeedIfEmpty fills an empty roster with count synthetic people whose signup
// dates fall within the last three days. It returns how many were created.
func (s *SeedService) SeedIfEmpty(count int) (int, error) {
	if count <= 0 {
		return 0, nil
	}

	existing, err := s.store.Count()
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		logger.Debugf("Skipping seed, roster already has %d people", existing)
		return 0, nil
	}

	people := s.Generate(count)
	if err := s.store.CreateMany(people); err != nil {
		return 0, err
	}

	logger.Infof("Database has been seeded with %d people", len(people))
	return len(people), nil
}

// Generate builds count people with unique emails
func (s *SeedService) Generate(count int) []*models.Person {
	seen := make(map[string]bool, count)
	people := make([]*models.Person, 0, count)

	for len(people) < count {
		first := pick(s.rng, seedFirstNames)
		last := pick(s.rng, seedLastNames)

		email := fmt.Sprintf("%s.%s@example.com", strings.ToLower(first), strings.ToLower(last))
		if seen[email] {
			email = fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), s.rng.IntN(10000))
		}
		if seen[email] {
			continue
		}
		seen[email] = true

		address := fmt.Sprintf("%d %s, %s, %s", 1+s.rng.IntN(9999), pick(s.rng, seedStreets), pick(s.rng, seedCities), pick(s.rng, seedStates))
		signup := s.now().AddDate(0, 0, -s.rng.IntN(4)).Format(models.DateLayout)

		people = append(people, models.NewPerson(first+" "+last, email, address, signup))
	}

	return people
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}
