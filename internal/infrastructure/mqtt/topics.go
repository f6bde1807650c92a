package mqtt

import "fmt"

// TopicPrefix is the root of every tasktrack topic.
const TopicPrefix = "tasktrack"

// Topics provides builders for tasktrack MQTT topics.
//
//	topic := mqtt.Topics{}.TaskEvent(10)
//	// Returns: "tasktrack/events/task/10"
type Topics struct{}

// TaskEvent returns the topic for mutation events on one task.
func (Topics) TaskEvent(taskID int64) string {
	return fmt.Sprintf("%s/events/task/%d", TopicPrefix, taskID)
}

// SystemStatus returns the retained service status topic (online/offline, LWT).
func (Topics) SystemStatus() string {
	return TopicPrefix + "/system/status"
}
