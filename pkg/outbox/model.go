package outbox

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusSent       Status = "sent"
	StatusFailed     Status = "failed"
)

// Event is a booking fact waiting in the outbox table until a relay has
// published it. AggregateID doubles as the Kafka partition key, so all
// events of one booking stay ordered.
type Event struct {
	ID            int64
	AggregateType string
	AggregateID   string
	Type          string
	Payload       []byte
	Headers       map[string]string
	Traceparent   string
	CreatedAt     time.Time
	Status        Status
	RetryCount    int
	// Lease is set on events handed out by LockBatch.
	Lease *Lease
}

// Lease is one relay's claim on an in-progress event. Once it lapses the
// event is eligible for LockBatch again.
type Lease struct {
	RelayID string
	Until   time.Time
}

func (l *Lease) Expired(now time.Time) bool {
	return l != nil && !now.Before(l.Until)
}

// FinalAttempt reports whether a failed dispatch parks the event in status
// failed instead of returning it to pending.
func (e Event) FinalAttempt() bool {
	return e.RetryCount+1 >= maxAttempts
}
