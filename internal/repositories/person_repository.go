package repositories

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/alimgiray/roster/internal/models"
	"github.com/mattn/go-sqlite3"
)

type PersonRepository struct {
	db *sql.DB
}

func NewPersonRepository(db *sql.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

const personColumns = `name, email, address, signup_time, created_at, updated_at`

// Create inserts a new person. A duplicate email yields models.ErrPersonConflict.
func (r *PersonRepository) Create(person *models.Person) error {
	query := `
		INSERT INTO people (` + personColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		person.Name, person.Email, person.Address, person.SignupTime,
		person.CreatedAt, person.UpdatedAt,
	)
	return translateError(err)
}

// CreateMany inserts people in a single transaction
func (r *PersonRepository) CreateMany(people []*models.Person) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO people (` + personColumns + `) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, person := range people {
		if _, err := stmt.Exec(
			person.Name, person.Email, person.Address, person.SignupTime,
			person.CreatedAt, person.UpdatedAt,
		); err != nil {
			return translateError(err)
		}
	}

	return tx.Commit()
}

// GetByEmail retrieves a person by email
func (r *PersonRepository) GetByEmail(email string) (*models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM people WHERE email = ?`
	return scanPerson(r.db.QueryRow(query, email))
}

// List returns people whose signup date lies within the filter bounds
func (r *PersonRepository) List(filter models.PersonFilter) ([]*models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM people`

	var conditions []string
	var args []interface{}
	if filter.StartDate != "" {
		conditions = append(conditions, "signup_time >= ?")
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		conditions = append(conditions, "signup_time <= ?")
		args = append(args, filter.EndDate)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY signup_time ASC, email ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	people := []*models.Person{}
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, person)
	}

	return people, rows.Err()
}

// Update writes name and address of an existing person. Signup time is never touched.
func (r *PersonRepository) Update(person *models.Person) error {
	person.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE people SET
			name = ?, address = ?, updated_at = ?
		WHERE email = ?
	`

	result, err := r.db.Exec(query, person.Name, person.Address, person.UpdatedAt, person.Email)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Rename moves the record at oldEmail to person.Email and applies person's
// name and address, all inside one transaction. On success person is
// refreshed from the stored row so it carries the original signup time.
func (r *PersonRepository) Rename(oldEmail string, person *models.Person) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	person.UpdatedAt = time.Now().UTC()
	result, err := tx.Exec(`
		UPDATE people SET
			email = ?, name = ?, address = ?, updated_at = ?
		WHERE email = ?
	`, person.Email, person.Name, person.Address, person.UpdatedAt, oldEmail)
	if err != nil {
		return translateError(err)
	}
	if err := requireAffected(result); err != nil {
		return err
	}

	stored, err := scanPerson(tx.QueryRow(`SELECT `+personColumns+` FROM people WHERE email = ?`, person.Email))
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	*person = *stored
	return nil
}

// Delete deletes a person by email
func (r *PersonRepository) Delete(email string) error {
	result, err := r.db.Exec(`DELETE FROM people WHERE email = ?`, email)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Count returns the number of people on the roster
func (r *PersonRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM people`).Scan(&count)
	return count, err
}

// Ping checks that the database is reachable
func (r *PersonRepository) Ping() error {
	return r.db.Ping()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPerson(row rowScanner) (*models.Person, error) {
	person := &models.Person{}
	err := row.Scan(
		&person.Name, &person.Email, &person.Address, &person.SignupTime,
		&person.CreatedAt, &person.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrPersonNotFound
	}
	if err != nil {
		return nil, err
	}
	return person, nil
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrPersonNotFound
	}
	return nil
}

// translateError maps SQLite key violations to models.ErrPersonConflict
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey || sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique) {
		return models.ErrPersonConflict
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return models.ErrPersonConflict
	}
	return err
}
