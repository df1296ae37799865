package mq

import (
	"log"

	"github.com/google/uuid"
)

// Event describes a completed domain write for downstream consumers.
type Event struct {
	ID         string `json:"id"`
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityID   string `json:"entity_id"`
	UserID     string `json:"user_id,omitempty"`
}

// Emit publishes a domain event. Currently the only consumer is the log;
// the envelope is stable so a broker can be slotted in behind it.
func Emit(eventName string, ev Event) error {
	ev.ID = uuid.New().String()
	log.Printf("event %s [%s]: %s %s %s", eventName, ev.ID, ev.Method, ev.EntityType, ev.EntityID)
	return nil
}
