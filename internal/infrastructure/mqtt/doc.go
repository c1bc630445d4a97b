// Package mqtt connects the platform sandbox to an MQTT broker.
//
// The sandbox uses MQTT as the channel to physical (or simulated) devices:
//
//	impt-sandbox -> impt/device/{id}/command   restart requests
//	device       -> impt/device/{id}/status    online / offline
//
// The client auto-reconnects with backoff, restores subscriptions after a
// reconnect and keeps a retained status on impt/sandbox/status, with a Last
// Will so subscribers notice a crashed sandbox.
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.PublishCommand(deviceID, mqtt.DeviceCommand{Command: mqtt.CommandRestart})
//
// Use TLS (cfg.Broker.TLS) for anything but a local broker.
package mqtt
