package amqp

import (
	"encoding/json"
	"time"
)

// EntityEvent notifies downstream consumers that a category or expense
// changed. It carries only the entity identity; consumers fetch current state
// themselves.
type EntityEvent struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntityEvent creates an event stamped with the current time.
func NewEntityEvent(entity, action string, id int64) *EntityEvent {
	return &EntityEvent{
		Entity:    entity,
		Action:    action,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *EntityEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EntityEventFromJSON creates an event from JSON bytes.
func EntityEventFromJSON(data []byte) (*EntityEvent, error) {
	var event EntityEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
