// Package influxdb records tasktrack activity metrics in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library: token auth, a ping
// on connect, and the non-blocking batched write API.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WritePointWithTime("task_activity",
//	    map[string]string{"action": "created", "actor_role": "user"},
//	    map[string]any{"task_id": int64(10), "is_closed": false},
//	    time.Now())
//
// Writes never block the caller. Batch failures are delivered to the
// callback registered with SetOnError.
package influxdb
