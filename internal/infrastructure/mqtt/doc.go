// Package mqtt publishes tasktrack events to an MQTT broker.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Publishing with QoS guarantees
//   - A retained online/offline status with Last Will and Testament
//
// Topics:
//
//	tasktrack/events/task/{id}   task mutation events (not retained)
//	tasktrack/system/status      service status (retained, LWT)
//
// The core only publishes. Consumers (dashboards, notifiers) subscribe to
// tasktrack/events/task/+ on their own.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Publish(mqtt.Topics{}.TaskEvent(10), payload, client.QoS(), false)
//
// # Security Considerations
//
//   - Enable TLS (cfg.Broker.TLS) outside local development
//   - Credentials come from config or TASKTRACK_MQTT_USERNAME/PASSWORD
//   - Event payloads never contain credentials
package mqtt
