package domain

import "errors"

var (
	// ErrMalformedEvent is returned when an envelope cannot be mapped to a
	// canonical event shape. The event is rejected whole, never partially applied.
	ErrMalformedEvent = errors.New("malformed event")

	// ErrDuplicateEvent is returned when a (tx_hash, log_index) pair has already
	// been applied to a ledger. Indicates a replay or source-ordering bug.
	ErrDuplicateEvent = errors.New("duplicate event")

	// ErrNegativeBalance is returned when a delta would drive a cumulative
	// balance or voting power below zero
	ErrNegativeBalance = errors.New("negative balance")

	// ErrLedgerInconsistent wraps fatal consistency violations that must halt
	// ingestion for the affected stream
	ErrLedgerInconsistent = errors.New("ledger inconsistent")

	// ErrProposalNotFound is returned when a lifecycle or vote event references
	// an unknown proposal
	ErrProposalNotFound = errors.New("proposal not found")

	// ErrUnknownGovernor is returned when no governor implementation is
	// registered for a DAO
	ErrUnknownGovernor = errors.New("unknown governor")

	// ErrInvalidDateRange is returned when a query's startDate is after its endDate
	ErrInvalidDateRange = errors.New("invalid date range")
)
