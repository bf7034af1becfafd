// Package exports renders registrations as CSV for the review committee.
package exports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sdc-club/backend/internal/models"
)

// Header is the first CSV row.
var Header = []string{
	"id", "fullName", "email", "studentId", "branch", "semester", "phoneNumber",
	"skills", "areasOfInterest", "previousProjects", "whyJoinSDC", "registrationDate", "status",
}

// WriteCSV writes regs with a header row. List fields are joined with "; ".
func WriteCSV(w io.Writer, regs []models.Registration) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range regs {
		row := []string{
			r.ID,
			r.FullName,
			r.Email,
			r.StudentID,
			r.Branch,
			strconv.Itoa(r.Semester),
			r.PhoneNumber,
			strings.Join(r.Skills, "; "),
			strings.Join(r.AreasOfInterest, "; "),
			r.PreviousProjects,
			r.WhyJoinSDC,
			r.RegistrationDate.UTC().Format(time.RFC3339),
			string(r.Status),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write registration %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
