package registrations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sdc-club/backend/internal/models"
	"github.com/sdc-club/backend/internal/validation"
)

var (
	// ErrDuplicate is wrapped by ConstraintError when a unique field is already taken.
	ErrDuplicate = errors.New("duplicate key")
	// ErrNotFound is returned when no registration has the given id.
	ErrNotFound = errors.New("registration not found")
	// ErrInvalidStatus is returned for a status outside pending|approved|rejected.
	ErrInvalidStatus = errors.New("invalid status")
)

// ConstraintError reports a rejected write and the field that caused it.
type ConstraintError struct {
	Field string
	Err   error
}

func (e *ConstraintError) Error() string {
	if errors.Is(e.Err, ErrDuplicate) {
		return fmt.Sprintf("%s already registered", e.Field)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// FormError carries the field errors of a form that failed validation.
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Store persists registrations. Implementations enforce email and studentId
// uniqueness atomically.
type Store interface {
	// Create assigns id, registrationDate and pending status, then inserts reg.
	Create(ctx context.Context, reg *models.Registration) error
	// List returns every registration in creation order.
	List(ctx context.Context) ([]models.Registration, error)
	// UpdateStatus overwrites only the status of the registration with id.
	UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Registration, error)
}

// FromForm validates form and converts it into a registration ready for Create.
func FromForm(form models.RegistrationForm) (*models.Registration, error) {
	if errs := validation.Validate(form); len(errs) > 0 {
		return nil, &FormError{Fields: errs}
	}
	semester, _ := validation.ParseSemester(string(form.Semester))
	skills := form.Skills
	if skills == nil {
		skills = []string{}
	}
	interests := form.AreasOfInterest
	if interests == nil {
		interests = []string{}
	}
	return &models.Registration{
		FullName:         strings.TrimSpace(form.FullName),
		Email:            strings.TrimSpace(form.Email),
		StudentID:        strings.TrimSpace(form.StudentID),
		Branch:           form.Branch,
		Semester:         semester,
		PhoneNumber:      form.PhoneNumber,
		Skills:           skills,
		AreasOfInterest:  interests,
		PreviousProjects: form.PreviousProjects,
		WhyJoinSDC:       form.WhyJoinSDC,
	}, nil
}

func checkStatus(status models.Status) error {
	if !status.Valid() {
		return &ConstraintError{Field: "status", Err: fmt.Errorf("%w %q", ErrInvalidStatus, status)}
	}
	return nil
}
