package port

import "time"

// Metrics records request outcomes. Implementations must be safe for
// concurrent use.
type Metrics interface {
	ObserveRequest(outcome string)
	ObserveFetch(d time.Duration, err error)
	ObserveBlocks(n int)
}
