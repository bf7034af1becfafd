package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Status is the review state of a registration.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Registration is a persisted club membership application.
type Registration struct {
	ID               string    `json:"id" bson:"_id"`
	FullName         string    `json:"fullName" bson:"fullName"`
	Email            string    `json:"email" bson:"email"`
	StudentID        string    `json:"studentId" bson:"studentId"`
	Branch           string    `json:"branch" bson:"branch"`
	Semester         int       `json:"semester" bson:"semester"`
	PhoneNumber      string    `json:"phoneNumber" bson:"phoneNumber"`
	Skills           []string  `json:"skills" bson:"skills"`
	AreasOfInterest  []string  `json:"areasOfInterest" bson:"areasOfInterest"`
	PreviousProjects string    `json:"previousProjects,omitempty" bson:"previousProjects,omitempty"`
	WhyJoinSDC       string    `json:"whyJoinSDC" bson:"whyJoinSDC"`
	RegistrationDate time.Time `json:"registrationDate" bson:"registrationDate"`
	Status           Status    `json:"status" bson:"status"`
}

// RegistrationForm is the editable form state a prospective member fills in.
// Semester is kept as text because the form edits it as a string.
type RegistrationForm struct {
	FullName         string        `json:"fullName" validate:"notblank"`
	Email            string        `json:"email" validate:"notblank,sdcemail"`
	StudentID        string        `json:"studentId" validate:"notblank"`
	Branch           string        `json:"branch" validate:"notblank,branch"`
	Semester         NumericString `json:"semester" validate:"notblank,semester"`
	PhoneNumber      string        `json:"phoneNumber" validate:"notblank,phone10"`
	Skills           []string      `json:"skills"`
	AreasOfInterest  []string      `json:"areasOfInterest"`
	PreviousProjects string        `json:"previousProjects"`
	WhyJoinSDC       string        `json:"whyJoinSDC" validate:"notblank"`
}

// NumericString is a string that also accepts a bare JSON number when decoding,
// so {"semester":"3"}, {"semester":3} and {"semester":3.0} all decode to "3".
// A fractional number keeps its literal text and fails integer validation.
type NumericString string

// UnmarshalJSON implements json.Unmarshaler.
func (n *NumericString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericString(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	if f, err := num.Float64(); err == nil && f == math.Trunc(f) && math.Abs(f) <= math.MaxInt32 {
		*n = NumericString(strconv.Itoa(int(f)))
		return nil
	}
	*n = NumericString(num.String())
	return nil
}

// NewRegistrationForm returns the initial, empty form.
func NewRegistrationForm() RegistrationForm {
	return RegistrationForm{Skills: []string{}, AreasOfInterest: []string{}}
}

// AddSkill appends skill unless it is empty or already listed.
func (f *RegistrationForm) AddSkill(skill string) bool {
	return addUnique(&f.Skills, skill)
}

// AddInterest appends an area of interest unless it is empty or already listed.
func (f *RegistrationForm) AddInterest(interest string) bool {
	return addUnique(&f.AreasOfInterest, interest)
}

func addUnique(list *[]string, v string) bool {
	if v == "" {
		return false
	}
	for _, existing := range *list {
		if existing == v {
			return false
		}
	}
	*list = append(*list, v)
	return true
}

// Reset clears the form back to its initial state.
func (f *RegistrationForm) Reset() {
	*f = NewRegistrationForm()
}
