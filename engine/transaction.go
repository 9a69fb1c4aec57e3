package engine

// TransactionStatus represents the lifecycle state of a payment transaction.
type TransactionStatus int

const (
	TransactionUnknown TransactionStatus = iota
	TransactionCreated
	TransactionApproved
	TransactionFailed
)

func (s TransactionStatus) String() string {
	switch s {
	case TransactionCreated:
		return "created"
	case TransactionApproved:
		return "approved"
	case TransactionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Transaction is a host-owned payment transaction. The adapter stamps its
// status and the provider-side session reference; storing it is the host's
// responsibility.
type Transaction struct {
	ID       int64
	Status   TransactionStatus
	RemoteID string
}
