package domain

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for Job.Date
const DateLayout = "2006-01-02"

type Job struct {
	ID          string
	ClientID    string
	Description string
	Date        string // YYYY-MM-DD
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Related data (populated by services for display)
	Client *Client
	Items  []*JobItem
}

// NewJob creates a new job draft for a client, dated today
func NewJob(clientID string) *Job {
	now := time.Now()
	return &Job{
		ClientID:  clientID,
		Date:      now.Format(DateLayout),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate returns an error if the job is invalid
func (j *Job) Validate() error {
	if strings.TrimSpace(j.ClientID) == "" {
		return errors.New("client is required")
	}
	if strings.TrimSpace(j.Description) == "" {
		return errors.New("description is required")
	}
	if strings.TrimSpace(j.Date) == "" {
		return errors.New("date is required")
	}
	return nil
}
