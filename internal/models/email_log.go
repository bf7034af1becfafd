package models

import "time"

// EmailTypeStatusUpdate is the email sent when a registration's review status changes.
const EmailTypeStatusUpdate = "status_update"

// EmailLog delivery outcomes.
const (
	EmailLogStatusSent   = "sent"
	EmailLogStatusFailed = "failed"
)

// EmailLog records one attempt to email an applicant.
type EmailLog struct {
	ID             string     `json:"id"`
	RegistrationID string     `json:"registrationId"`
	EmailType      string     `json:"emailType"`
	RecipientEmail string     `json:"recipientEmail"`
	Subject        string     `json:"subject,omitempty"`
	Status         string     `json:"status"`
	Attempt        int        `json:"attempt"`
	SentAt         *time.Time `json:"sentAt,omitempty"`
	ErrorMessage   string     `json:"errorMessage,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}
