package mqtt

import (
	"fmt"
	"strings"
)

// DefaultTopicPrefix is used when the configured prefix is empty.
const DefaultTopicPrefix = "impt"

// Topic segments below the prefix.
const (
	segmentDevice  = "device"
	segmentSandbox = "sandbox"

	// KindCommand is the leaf of a device command topic.
	KindCommand = "command"
	// KindStatus is the leaf of a device status topic.
	KindStatus = "status"
)

// Topics builds the sandbox's MQTT topics under a common prefix.
//
//	topics := mqtt.Topics{Prefix: "impt"}
//	topics.DeviceCommand("4f1c")
//	// Returns: "impt/device/4f1c/command"
type Topics struct {
	Prefix string
}

func (t Topics) prefix() string {
	if t.Prefix == "" {
		return DefaultTopicPrefix
	}
	return strings.TrimSuffix(t.Prefix, "/")
}

// DeviceCommand returns the topic a device listens on for commands.
//
// Example: impt/device/4f1c/command
func (t Topics) DeviceCommand(deviceID string) string {
	return fmt.Sprintf("%s/%s/%s/%s", t.prefix(), segmentDevice, deviceID, KindCommand)
}

// DeviceStatus returns the topic a device reports connectivity on.
//
// Example: impt/device/4f1c/status
func (t Topics) DeviceStatus(deviceID string) string {
	return fmt.Sprintf("%s/%s/%s/%s", t.prefix(), segmentDevice, deviceID, KindStatus)
}

// AllDeviceStatus returns a pattern matching every device status topic.
//
// Pattern: impt/device/+/status
func (t Topics) AllDeviceStatus() string {
	return t.DeviceStatus("+")
}

// SandboxStatus returns the sandbox's own retained status topic.
//
// Example: impt/sandbox/status
func (t Topics) SandboxStatus() string {
	return fmt.Sprintf("%s/%s/%s", t.prefix(), segmentSandbox, KindStatus)
}

// ParseDeviceTopic splits a device topic into its device id and kind
// (KindCommand or KindStatus). ok is false for any other topic.
func (t Topics) ParseDeviceTopic(topic string) (deviceID, kind string, ok bool) {
	rest, found := strings.CutPrefix(topic, t.prefix()+"/"+segmentDevice+"/")
	if !found {
		return "", "", false
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		return "", "", false
	}
	switch parts[1] {
	case KindCommand, KindStatus:
		return parts[0], parts[1], true
	}
	return "", "", false
}
