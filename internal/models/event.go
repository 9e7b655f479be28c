package models

// Event carries the event service's metadata for one event. It exists
// only on the wire and in responses, never in this service's store.
type Event struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Details   string `json:"details"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}
