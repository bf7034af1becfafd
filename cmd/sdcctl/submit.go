package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sdc-club/backend/internal/models"
	"github.com/sdc-club/backend/pkg/client"
)

func newSubmitCmd(c *cli) *cobra.Command {
	form := models.NewRegistrationForm()
	var semester string
	var skills, interests []string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a registration",
		Long: `Validate a registration form and submit it once.

Examples:
  sdcctl submit --name "Asha Rao" --email asha@mvjce.edu.in --student-id 1MJ21CS001 \
    --branch "Computer Science" --semester 5 --phone 9876543210 \
    --skill Go --skill React --interest "Web Development" --why "To build real projects"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form.Semester = models.NumericString(semester)
			for _, s := range skills {
				form.AddSkill(s)
			}
			for _, i := range interests {
				form.AddInterest(i)
			}

			reg, err := c.client().Submit(cmd.Context(), form)
			var verr *client.ValidationError
			if errors.As(err, &verr) {
				fields := make([]string, 0, len(verr.Fields))
				for f := range verr.Fields {
					fields = append(fields, f)
				}
				sort.Strings(fields)
				for _, f := range fields {
					fmt.Fprintf(c.out, "%s: %s\n", f, verr.Fields[f])
				}
				return errors.New("form has errors; nothing was submitted")
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Registration submitted successfully")
			return c.printJSON(reg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.FullName, "name", "", "full name")
	f.StringVar(&form.Email, "email", "", "email address")
	f.StringVar(&form.StudentID, "student-id", "", "student ID (USN)")
	f.StringVar(&form.Branch, "branch", "", "branch (e.g. \"Computer Science\")")
	f.StringVar(&semester, "semester", "", "semester, 1 to 8")
	f.StringVar(&form.PhoneNumber, "phone", "", "10 digit phone number")
	f.StringArrayVar(&skills, "skill", nil, "technical skill (repeatable)")
	f.StringArrayVar(&interests, "interest", nil, "area of interest (repeatable)")
	f.StringVar(&form.PreviousProjects, "projects", "", "previous projects")
	f.StringVar(&form.WhyJoinSDC, "why", "", "why you want to join SDC")
	return cmd
}
