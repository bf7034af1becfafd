package registrations

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdc-club/backend/internal/models"
)

func validForm() models.RegistrationForm {
	f := models.NewRegistrationForm()
	f.FullName = "  Asha Rao "
	f.Email = "asha@mvjce.edu.in"
	f.StudentID = "1MJ21CS001"
	f.Branch = "Computer Science"
	f.Semester = "5"
	f.PhoneNumber = "9876543210"
	f.WhyJoinSDC = "To build real projects"
	f.AddSkill("Go")
	f.AddInterest("Web Development")
	return f
}

func mustReg(t *testing.T, mutate func(*models.RegistrationForm)) *models.Registration {
	t.Helper()
	f := validForm()
	if mutate != nil {
		mutate(&f)
	}
	reg, err := FromForm(f)
	require.NoError(t, err)
	return reg
}

func TestFromForm(t *testing.T) {
	reg := mustReg(t, nil)
	assert.Equal(t, "Asha Rao", reg.FullName)
	assert.Equal(t, 5, reg.Semester)
	assert.Equal(t, []string{"Go"}, reg.Skills)

	f := validForm()
	f.Skills = nil
	f.AreasOfInterest = nil
	reg, err := FromForm(f)
	require.NoError(t, err)
	assert.NotNil(t, reg.Skills)
	assert.NotNil(t, reg.AreasOfInterest)
}

func TestFromForm_Invalid(t *testing.T) {
	f := validForm()
	f.Semester = "9"
	f.Email = "nope"
	_, err := FromForm(f)

	var ferr *FormError
	require.ErrorAs(t, err, &ferr)
	assert.Len(t, ferr.Fields, 2)
	assert.Equal(t, "validation failed: email: Invalid email address; semester: Semester must be between 1 and 8", err.Error())
}

func TestMemoryStore_CreateAssignsDefaults(t *testing.T) {
	s := NewMemoryStore()
	fixed := time.Date(2024, 7, 1, 10, 0, 0, 0, time.FixedZone("IST", 19800))
	s.now = func() time.Time { return fixed }

	reg := mustReg(t, nil)
	reg.Status = models.StatusApproved
	require.NoError(t, s.Create(context.Background(), reg))

	assert.NotEmpty(t, reg.ID)
	assert.Equal(t, models.StatusPending, reg.Status)
	assert.True(t, reg.RegistrationDate.Equal(fixed))
	assert.Equal(t, time.UTC, reg.RegistrationDate.Location())
}

func TestMemoryStore_DuplicateLeavesFirstUnchanged(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	first := mustReg(t, nil)
	require.NoError(t, s.Create(ctx, first))

	dupEmail := mustReg(t, func(f *models.RegistrationForm) {
		f.StudentID = "1MJ21CS002"
		f.FullName = "Someone Else"
	})
	err := s.Create(ctx, dupEmail)
	var ce *ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "email", ce.Field)
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.Equal(t, "email already registered", err.Error())

	dupStudent := mustReg(t, func(f *models.RegistrationForm) { f.Email = "other@mvjce.edu.in" })
	err = s.Create(ctx, dupStudent)
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "studentId", ce.Field)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Asha Rao", list[0].FullName)
}

func TestMemoryStore_ConcurrentDuplicates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Create(ctx, mustReg(t, nil))
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, ErrDuplicate)
		}
	}
	assert.Equal(t, 1, ok)
}

func TestMemoryStore_ListOrderAndCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	a := mustReg(t, nil)
	b := mustReg(t, func(f *models.RegistrationForm) {
		f.Email = "b@mvjce.edu.in"
		f.StudentID = "1MJ21CS002"
	})
	require.NoError(t, s.Create(ctx, a))
	require.NoError(t, s.Create(ctx, b))

	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)

	list[0].Skills[0] = "mutated"
	again, _ := s.List(ctx)
	assert.Equal(t, "Go", again[0].Skills[0])
}

func TestMemoryStore_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	reg := mustReg(t, nil)
	require.NoError(t, s.Create(ctx, reg))

	updated, err := s.UpdateStatus(ctx, reg.ID, models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)

	list, _ := s.List(ctx)
	require.Len(t, list, 1)
	got := list[0]
	assert.Equal(t, models.StatusApproved, got.Status)
	got.Status = reg.Status
	assert.Equal(t, *reg, got)

	_, err = s.UpdateStatus(ctx, reg.ID, "maybe")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = s.UpdateStatus(ctx, "missing", models.StatusRejected)
	assert.ErrorIs(t, err, ErrNotFound)
}
