package types

import "time"

// LogEntry represents a request log entry queued for the async logger.
type LogEntry struct {
	ID           uint
	Source       string
	Method       string
	URL          string
	RequestBody  string
	ResponseBody string
	StatusCode   int
	CreatedAt    time.Time
}
