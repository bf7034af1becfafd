package notify

import (
	"fmt"

	"github.com/sdc-club/backend/internal/models"
)

// StatusEmail renders the subject and body sent when a registration changes status.
func StatusEmail(fullName string, status models.Status) (subject, body string) {
	switch status {
	case models.StatusApproved:
		subject = "Your SDC application has been approved"
		body = fmt.Sprintf("Hi %s,\n\nGreat news! Your application to the Software Development Club has been approved. "+
			"We will reach out shortly to schedule your technical interview.\n\nSee you soon,\nSDC Team\n", fullName)
	case models.StatusRejected:
		subject = "Update on your SDC application"
		body = fmt.Sprintf("Hi %s,\n\nThank you for applying to the Software Development Club. "+
			"We are unable to offer you a place this round, but we hope to see you at our open workshops.\n\nRegards,\nSDC Team\n", fullName)
	default:
		subject = "Your SDC application is under review"
		body = fmt.Sprintf("Hi %s,\n\nYour application to the Software Development Club is pending review. "+
			"Reviews usually take 3-5 days.\n\nRegards,\nSDC Team\n", fullName)
	}
	return subject, body
}
