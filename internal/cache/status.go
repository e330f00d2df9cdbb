package cache

// UpdateStatus represents the outcome of the most recent refresh
type UpdateStatus int

const (
	// StatusSuccess means the last refresh published a snapshot. A cache that
	// has not refreshed yet also reports success.
	StatusSuccess UpdateStatus = iota
	// StatusError means the last refresh failed
	StatusError
)

func (s UpdateStatus) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
