package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/impt/internal/infrastructure/config"
)

// These tests need no broker; see integration_test.go for the ones that do.

func TestTopicBuilders(t *testing.T) {
	topics := Topics{Prefix: "impt"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"DeviceCommand", topics.DeviceCommand("dev-1"), "impt/device/dev-1/command"},
		{"DeviceStatus", topics.DeviceStatus("dev-1"), "impt/device/dev-1/status"},
		{"AllDeviceStatus", topics.AllDeviceStatus(), "impt/device/+/status"},
		{"SandboxStatus", topics.SandboxStatus(), "impt/sandbox/status"},
		{"custom prefix", Topics{Prefix: "lab/fleet/"}.DeviceCommand("x"), "lab/fleet/device/x/command"},
		{"empty prefix", Topics{}.SandboxStatus(), "impt/sandbox/status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("topic = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestParseDeviceTopic(t *testing.T) {
	topics := Topics{Prefix: "impt"}

	tests := []struct {
		topic    string
		wantID   string
		wantKind string
		wantOK   bool
	}{
		{"impt/device/dev-1/status", "dev-1", KindStatus, true},
		{"impt/device/dev-1/command", "dev-1", KindCommand, true},
		{"impt/device/dev-1/logs", "", "", false},
		{"impt/device//status", "", "", false},
		{"impt/device/dev-1/status/extra", "", "", false},
		{"other/device/dev-1/status", "", "", false},
		{"impt/sandbox/status", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			id, kind, ok := topics.ParseDeviceTopic(tt.topic)
			if ok != tt.wantOK || id != tt.wantID || kind != tt.wantKind {
				t.Errorf("ParseDeviceTopic(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.topic, id, kind, ok, tt.wantID, tt.wantKind, tt.wantOK)
			}
		})
	}
}

func TestParseDeviceStatus(t *testing.T) {
	tests := []struct {
		payload string
		want    bool
		wantErr bool
	}{
		{`{"online":true}`, true, false},
		{`{"online":false}`, false, false},
		{"online", true, false},
		{"offline", false, false},
		{"maybe", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			got, err := ParseDeviceStatus([]byte(tt.payload))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDeviceStatus() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got.Online != tt.want {
				t.Errorf("Online = %v, want %v", got.Online, tt.want)
			}
		})
	}
}

func TestStatusPayload(t *testing.T) {
	tests := []struct {
		status, reason string
	}{
		{StatusOnline, ""},
		{StatusOffline, ReasonShutdown},
		{StatusOffline, ReasonUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.status+"/"+tt.reason, func(t *testing.T) {
			var got SandboxStatus
			if err := json.Unmarshal(statusPayload("impt-sandbox", tt.status, tt.reason), &got); err != nil {
				t.Fatalf("payload is not JSON: %v", err)
			}
			if got.Status != tt.status || got.Reason != tt.reason || got.ClientID != "impt-sandbox" {
				t.Errorf("status = %+v, want %s/%s from impt-sandbox", got, tt.status, tt.reason)
			}
			if got.Timestamp.IsZero() {
				t.Error("timestamp is zero")
			}
		})
	}
}

func TestClientOptions(t *testing.T) {
	cfg := config.MQTTConfig{
		Broker:    config.MQTTBrokerConfig{Host: "broker.local", Port: 8883, TLS: true, ClientID: "impt-test"},
		Auth:      config.MQTTAuthConfig{Username: "sandbox", Password: "secret"},
		Reconnect: config.MQTTReconnectConfig{InitialDelay: 1, MaxDelay: 30},
	}

	opts := clientOptions(cfg)
	if len(opts.Servers) != 1 || opts.Servers[0].String() != "ssl://broker.local:8883" {
		t.Errorf("Servers = %v, want ssl://broker.local:8883", opts.Servers)
	}
	if opts.ClientID != "impt-test" {
		t.Errorf("ClientID = %q, want %q", opts.ClientID, "impt-test")
	}
	if opts.Username != "sandbox" {
		t.Errorf("Username = %q, want %q", opts.Username, "sandbox")
	}
	if opts.TLSConfig == nil {
		t.Error("TLSConfig is nil with TLS enabled")
	}
	if opts.MaxReconnectInterval != 30*time.Second {
		t.Errorf("MaxReconnectInterval = %v, want 30s", opts.MaxReconnectInterval)
	}
	if opts.KeepAlive != int64(keepAlive/time.Second) {
		t.Errorf("KeepAlive = %d, want %d", opts.KeepAlive, int64(keepAlive/time.Second))
	}
}

func TestDisconnectedClient(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}
	handler := func(string, []byte) error { return nil }

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"publish empty topic", c.publish("", nil, 1, false), ErrInvalidTopic},
		{"publish bad qos", c.publish("impt/x", nil, 3, false), ErrInvalidQoS},
		{"publish oversized", c.publish("impt/x", make([]byte, maxPayloadSize+1), 1, false), ErrPublishFailed},
		{"publish disconnected", c.publish("impt/x", []byte("{}"), 1, false), ErrNotConnected},
		{"command without device", c.PublishCommand("", DeviceCommand{Command: CommandRestart}), ErrInvalidTopic},
		{"command disconnected", c.PublishCommand("dev-1", DeviceCommand{Command: CommandRestart}), ErrNotConnected},
		{"subscribe empty topic", c.Subscribe("", 1, handler), ErrInvalidTopic},
		{"subscribe nil handler", c.Subscribe("impt/x", 1, nil), ErrSubscribeFailed},
		{"subscribe disconnected", c.Subscribe("impt/x", 1, handler), ErrNotConnected},
		{"health disconnected", c.HealthCheck(context.Background()), ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("error = %v, want %v", tt.err, tt.want)
			}
		})
	}

	if len(c.subscriptions) != 0 {
		t.Errorf("subscriptions = %v, want none after rejected calls", c.subscriptions)
	}
	if err := (&Client{}).Close(); err != nil {
		t.Errorf("Close() on unconnected client error = %v", err)
	}
}
