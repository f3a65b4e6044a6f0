package amqp

import (
	"testing"
	"time"
)

func TestEntityEventRoundTrip(t *testing.T) {
	event := NewEntityEvent("expense", "create", 42)
	if event.Timestamp.IsZero() {
		t.Error("event timestamp not set")
	}

	body, err := event.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := EntityEventFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Entity != "expense" || decoded.Action != "create" || decoded.ID != 42 {
		t.Errorf("decoded = %+v, want expense/create/42", decoded)
	}
	if !decoded.Timestamp.Truncate(time.Millisecond).Equal(event.Timestamp.Truncate(time.Millisecond)) {
		t.Errorf("timestamp changed: %v vs %v", decoded.Timestamp, event.Timestamp)
	}
}

func TestEntityEventFromJSONInvalid(t *testing.T) {
	if _, err := EntityEventFromJSON([]byte("{not json")); err == nil {
		t.Error("invalid JSON accepted")
	}
}
