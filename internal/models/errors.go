package models

import "fmt"

// UpstreamStatusError is returned when Keepa answers with a non-200 status
type UpstreamStatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("keepa %s returned status %d", e.Endpoint, e.StatusCode)
}
