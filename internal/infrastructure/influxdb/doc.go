// Package influxdb writes the sandbox's platform events to InfluxDB.
//
// Every mutation the sandbox performs (device assigned, build deployed,
// restart requested, device went offline) becomes one point in the
// platform_events measurement, tagged by action and entity type. The sink
// is optional: Connect returns ErrDisabled when it is switched off and the
// sandbox runs without it.
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteEvent(influxdb.Event{Action: "deployed", EntityType: "devicegroup", EntityID: id})
//
// Writes are batched (batch_size, flush_interval) and failures are
// delivered asynchronously to the SetOnError callback.
package influxdb
