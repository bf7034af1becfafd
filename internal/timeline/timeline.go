// Package timeline serves the fixed steps of the SDC registration process.
package timeline

import (
	"github.com/gin-gonic/gin"

	"github.com/sdc-club/backend/pkg/response"
)

// Step is one stage of the registration process.
type Step struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Step        string `json:"step"`
	Details     string `json:"details"`
}

var steps = []Step{
	{
		Title:       "Submit Application",
		Description: "Fill out the registration form with your details and background information.",
		Step:        "Step 1",
		Details:     "Provide your personal information, academic details, skills, and motivation to join SDC.",
	},
	{
		Title:       "Application Review",
		Description: "Our team carefully evaluates your application based on various criteria.",
		Step:        "Step 2",
		Details:     "Applications are reviewed for technical skills, project experience, and enthusiasm.",
	},
	{
		Title:       "Technical Interview",
		Description: "Selected candidates will be invited for a technical discussion.",
		Step:        "Step 3",
		Details:     "A friendly chat about your technical knowledge, projects, and interests in software development.",
	},
	{
		Title:       "SDC Orientation",
		Description: "Welcome to the Software Development Club!",
		Step:        "Step 4",
		Details:     "Learn about club activities, meet fellow members, and get started with your journey.",
	},
	{
		Title:       "Active Membership",
		Description: "Begin your journey as an active SDC member.",
		Step:        "Final Step",
		Details:     "Participate in projects, workshops, and contribute to the SDC community.",
	},
}

// Steps returns a copy of the registration timeline in order.
func Steps() []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// List handles GET /api/timeline.
func List(c *gin.Context) {
	response.OK(c, Steps())
}
