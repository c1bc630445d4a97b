package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// MeasurementEvents is the measurement every platform event is written to.
const MeasurementEvents = "platform_events"

// Event is one lifecycle change on the platform, such as a device being
// assigned or a build being deployed.
type Event struct {
	// Action is a short verb: created, assigned, renamed, deployed, online.
	Action     string
	EntityType string
	EntityID   string
	// ActorID is the account that caused the event, if known.
	ActorID string
	// Details is free text such as the new name or the build sha.
	Details string
	Time    time.Time
}

// WriteEvent queues an event for the next batch. Events written after
// Close are dropped.
func (c *Client) WriteEvent(e Event) {
	if !c.isOpen() {
		return
	}
	c.writeAPI.WritePoint(eventPoint(e))
}

// eventPoint tags a point by action and entity type. Ids and details are
// fields, not tags.
func eventPoint(e Event) *write.Point {
	ts := e.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	fields := map[string]any{
		"entity_id": e.EntityID,
		"count":     int64(1),
	}
	if e.ActorID != "" {
		fields["actor_id"] = e.ActorID
	}
	if e.Details != "" {
		fields["details"] = e.Details
	}

	tags := map[string]string{
		"action":      e.Action,
		"entity_type": e.EntityType,
	}
	return write.NewPoint(MeasurementEvents, tags, fields, ts)
}
