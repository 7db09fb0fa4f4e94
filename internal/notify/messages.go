package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"masarif/internal/core"
)

// ReminderMessage is the reminder-request event handed to the messaging
// collaborator. The core never delivers anything itself; a worker consumes
// these and performs the actual send.
type ReminderMessage struct {
	EntryID      int64     `json:"entry_id"`
	Name         string    `json:"name"`
	Recipient    string    `json:"recipient"`
	Message      string    `json:"message"`
	ScheduleDate string    `json:"schedule_date,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewReminderMessage builds the templated reminder for an entry.
func NewReminderMessage(e core.Entry, recipient string) *ReminderMessage {
	return &ReminderMessage{
		EntryID:      e.ID,
		Name:         e.Name,
		Recipient:    recipient,
		Message:      fmt.Sprintf("Reminder: Your %s payment is due today.", e.Name),
		ScheduleDate: e.ScheduleDate.String(),
		Timestamp:    time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReminderMessageFromJSON decodes a message from JSON bytes.
func ReminderMessageFromJSON(data []byte) (*ReminderMessage, error) {
	var msg ReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
