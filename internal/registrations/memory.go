package registrations

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sdc-club/backend/internal/models"
)

// MemoryStore keeps registrations in process memory. Uniqueness checks and the
// insert happen under one lock.
type MemoryStore struct {
	mu          sync.RWMutex
	byID        map[string]*models.Registration
	order       []string
	byEmail     map[string]string
	byStudentID map[string]string
	now         func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:        make(map[string]*models.Registration),
		byEmail:     make(map[string]string),
		byStudentID: make(map[string]string),
		now:         time.Now,
	}
}

// Create implements Store.
func (s *MemoryStore) Create(ctx context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[reg.Email]; taken {
		return &ConstraintError{Field: "email", Err: ErrDuplicate}
	}
	if _, taken := s.byStudentID[reg.StudentID]; taken {
		return &ConstraintError{Field: "studentId", Err: ErrDuplicate}
	}
	reg.ID = uuid.NewString()
	reg.RegistrationDate = s.now().UTC()
	reg.Status = models.StatusPending

	stored := cloneRegistration(*reg)
	s.byID[reg.ID] = &stored
	s.order = append(s.order, reg.ID)
	s.byEmail[reg.Email] = reg.ID
	s.byStudentID[reg.StudentID] = reg.ID
	return nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context) ([]models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]models.Registration, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, cloneRegistration(*s.byID[id]))
	}
	return list, nil
}

// UpdateStatus implements Store.
func (s *MemoryStore) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Registration, error) {
	if err := checkStatus(status); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	reg.Status = status
	out := cloneRegistration(*reg)
	return &out, nil
}

func cloneRegistration(r models.Registration) models.Registration {
	r.Skills = append([]string{}, r.Skills...)
	r.AreasOfInterest = append([]string{}, r.AreasOfInterest...)
	return r
}
