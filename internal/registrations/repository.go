package registrations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sdc-club/backend/internal/models"
)

// ErrInvalidValue is wrapped by ConstraintError when a check constraint rejects a value.
var ErrInvalidValue = errors.New("invalid value")

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
	pgNotNull         = "23502"
)

// constraintFields maps database constraint names to JSON field names.
var constraintFields = map[string]string{
	"registrations_email_key":          "email",
	"registrations_student_id_key":     "studentId",
	"registrations_email_check":        "email",
	"registrations_full_name_check":    "fullName",
	"registrations_student_id_check":   "studentId",
	"registrations_branch_check":       "branch",
	"registrations_semester_check":     "semester",
	"registrations_phone_number_check": "phoneNumber",
	"registrations_why_join_sdc_check": "whyJoinSDC",
	"registrations_status_check":       "status",
}

const selectColumns = `id, full_name, email, student_id, branch, semester, phone_number, skills,
	areas_of_interest, previous_projects, why_join_sdc, registration_date, status`

// Repository is the PostgreSQL Store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a registrations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create implements Store. The unique constraints on email and student_id reject duplicates.
func (r *Repository) Create(ctx context.Context, reg *models.Registration) error {
	const q = `INSERT INTO registrations (full_name, email, student_id, branch, semester, phone_number,
			skills, areas_of_interest, previous_projects, why_join_sdc)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, registration_date, status`
	var id uuid.UUID
	var status string
	err := r.pool.QueryRow(ctx, q,
		reg.FullName, reg.Email, reg.StudentID, reg.Branch, reg.Semester, reg.PhoneNumber,
		nonNil(reg.Skills), nonNil(reg.AreasOfInterest), reg.PreviousProjects, reg.WhyJoinSDC,
	).Scan(&id, &reg.RegistrationDate, &status)
	if err != nil {
		return mapPgError(err)
	}
	reg.ID = id.String()
	reg.Status = models.Status(status)
	return nil
}

// List implements Store, oldest first.
func (r *Repository) List(ctx context.Context) ([]models.Registration, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+selectColumns+` FROM registrations ORDER BY registration_date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query registrations: %w", err)
	}
	defer rows.Close()
	list := []models.Registration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *reg)
	}
	return list, rows.Err()
}

// UpdateStatus implements Store.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Registration, error) {
	if err := checkStatus(status); err != nil {
		return nil, err
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `UPDATE registrations SET status = $2 WHERE id = $1 RETURNING `+selectColumns, uid, string(status))
	reg, err := scanRegistration(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, mapPgError(err)
	}
	return reg, nil
}

func scanRegistration(row pgx.Row) (*models.Registration, error) {
	var reg models.Registration
	var id uuid.UUID
	var status string
	err := row.Scan(&id, &reg.FullName, &reg.Email, &reg.StudentID, &reg.Branch, &reg.Semester, &reg.PhoneNumber,
		&reg.Skills, &reg.AreasOfInterest, &reg.PreviousProjects, &reg.WhyJoinSDC, &reg.RegistrationDate, &status)
	if err != nil {
		return nil, err
	}
	reg.ID = id.String()
	reg.Status = models.Status(status)
	return &reg, nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	field := constraintFields[pgErr.ConstraintName]
	switch pgErr.Code {
	case pgUniqueViolation:
		if field == "" {
			field = "registration"
		}
		return &ConstraintError{Field: field, Err: ErrDuplicate}
	case pgCheckViolation, pgNotNull:
		if field == "" {
			field = pgErr.ColumnName
		}
		return &ConstraintError{Field: field, Err: ErrInvalidValue}
	}
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
