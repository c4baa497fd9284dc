package notify

import (
	"encoding/json"
	"time"
)

// ReminderMessage is the payload published to the reminder queue. The
// delivery worker on the other side owns transport-specific formatting;
// this side only carries the address and the plain subject/body.
type ReminderMessage struct {
	Address   string    `json:"address"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReminderMessage(address, subject, body string) *ReminderMessage {
	return &ReminderMessage{
		Address:   address,
		Subject:   subject,
		Body:      body,
		Timestamp: time.Now(),
	}
}

func (m *ReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReminderMessageFromJSON(data []byte) (*ReminderMessage, error) {
	var msg ReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
