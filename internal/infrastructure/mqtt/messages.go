package mqtt

import (
	"encoding/json"
	"fmt"
	"time"
)

// CommandRestart asks a device to restart.
const CommandRestart = "restart"

// Sandbox status values and offline reasons.
const (
	StatusOnline     = "online"
	StatusOffline    = "offline"
	ReasonShutdown   = "graceful_shutdown"
	ReasonUnexpected = "unexpected_disconnect"
)

// DeviceCommand is the payload published on a device command topic.
type DeviceCommand struct {
	Command     string    `json:"command"`
	Conditional bool      `json:"conditional,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	IssuedAt    time.Time `json:"issued_at"`
}

// DeviceStatus is the payload a device publishes on its status topic.
type DeviceStatus struct {
	Online bool `json:"online"`
}

// ParseDeviceStatus decodes a status payload. The bare strings "online"
// and "offline" are accepted as well as the JSON form.
func ParseDeviceStatus(payload []byte) (DeviceStatus, error) {
	switch string(payload) {
	case StatusOnline:
		return DeviceStatus{Online: true}, nil
	case StatusOffline:
		return DeviceStatus{Online: false}, nil
	}
	var s DeviceStatus
	if err := json.Unmarshal(payload, &s); err != nil {
		return DeviceStatus{}, fmt.Errorf("decoding device status: %w", err)
	}
	return s, nil
}

// SandboxStatus is the retained payload on the sandbox status topic.
type SandboxStatus struct {
	Status    string    `json:"status"`
	ClientID  string    `json:"client_id"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func statusPayload(clientID, status, reason string) []byte {
	// Marshalling a struct of strings and a time cannot fail.
	payload, _ := json.Marshal(SandboxStatus{
		Status:    status,
		ClientID:  clientID,
		Reason:    reason,
		Timestamp: time.Now().UTC().Truncate(time.Second),
	})
	return payload
}
