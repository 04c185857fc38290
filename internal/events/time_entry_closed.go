package events

import "time"

const TimeEntryClosedTopic = "timeclock.entry.closed.v1"

type TimeEntryClosedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	EntryID     string    `json:"entry_id"`
	CompanyID   string    `json:"company_id"`
	UserID      string    `json:"user_id"`
	WorkDate    string    `json:"work_date"`
	HoursWorked float64   `json:"hours_worked"`
	OccurredAt  time.Time `json:"occurred_at"`
}
