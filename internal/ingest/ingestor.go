// Package ingest consumes decoded chain events from JetStream and applies
// them to the ledgers in delivery order.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"

	"github.com/daotrack/governance-indexer/internal/domain"
	"github.com/daotrack/governance-indexer/internal/governor"
	"github.com/daotrack/governance-indexer/internal/ledger"
)

// CursorStore persists per-DAO stream progress
type CursorStore interface {
	// SetBlockCursor stores the last processed block number for a DAO stream
	SetBlockCursor(ctx context.Context, daoID domain.DaoID, blockNumber uint64) error
}

// Disposition classifies an apply error into the bridge's ack decision
type Disposition int

const (
	// DispositionApplied acknowledges the message
	DispositionApplied Disposition = iota
	// DispositionSkip terminates the message; the event can never be applied
	DispositionSkip
	// DispositionRetry negatively acknowledges the message for redelivery
	DispositionRetry
	// DispositionHalt stops the DAO stream; the ledger would diverge if
	// processing continued
	DispositionHalt
)

// Dispose classifies an apply error. Malformed events are skippable, ledger
// consistency violations halt the stream, everything else is presumed
// transient and retried.
func Dispose(err error) Disposition {
	switch {
	case err == nil:
		return DispositionApplied
	case errors.Is(err, domain.ErrMalformedEvent), errors.Is(err, domain.ErrUnknownGovernor):
		return DispositionSkip
	case errors.Is(err, domain.ErrNegativeBalance),
		errors.Is(err, domain.ErrLedgerInconsistent),
		errors.Is(err, domain.ErrDuplicateEvent),
		errors.Is(err, domain.ErrProposalNotFound):
		return DispositionHalt
	default:
		return DispositionRetry
	}
}

type handlerFunc func(ctx context.Context, event domain.CanonicalEvent, raw datatypes.JSON) error

// Ingestor normalizes envelopes through the DAO's governor and dispatches the
// canonical event to its ledger handler. Handlers run synchronously so per-DAO
// delivery order is the apply order.
type Ingestor struct {
	registry    *governor.Registry
	balances    *ledger.BalanceLedger
	votingPower *ledger.VotingPowerLedger
	proposals   *ledger.ProposalStateMachine
	cursors     CursorStore
	handlers    map[domain.EventType]handlerFunc
}

// NewIngestor creates an ingestor over the given governor registry and ledgers
func NewIngestor(
	registry *governor.Registry,
	balances *ledger.BalanceLedger,
	votingPower *ledger.VotingPowerLedger,
	proposals *ledger.ProposalStateMachine,
	cursors CursorStore,
) *Ingestor {
	ing := &Ingestor{
		registry:    registry,
		balances:    balances,
		votingPower: votingPower,
		proposals:   proposals,
		cursors:     cursors,
	}
	ing.handlers = map[domain.EventType]handlerFunc{
		domain.EventTypeTokenTransfer:         ing.handleTokenTransfer,
		domain.EventTypeDelegateChanged:       ing.handleDelegateChanged,
		domain.EventTypeDelegateVotesChanged:  ing.handleDelegateVotesChanged,
		domain.EventTypeVoteCast:              ing.handleVoteCast,
		domain.EventTypeProposalCreated:       ing.handleProposalCreated,
		domain.EventTypeProposalStatusChanged: ing.handleProposalStatusChanged,
	}
	return ing
}

// Apply normalizes one envelope and applies it to the ledgers. On success the
// DAO's block cursor advances to the envelope's block.
func (i *Ingestor) Apply(ctx context.Context, env *domain.EventEnvelope) error {
	gov, err := i.registry.Lookup(env.DaoID)
	if err != nil {
		return err
	}

	event, err := gov.NormalizeEvent(env)
	if err != nil {
		return err
	}

	handler, ok := i.handlers[event.Type()]
	if !ok {
		return fmt.Errorf("%w: no handler for event type %s", domain.ErrMalformedEvent, event.Type())
	}

	if err := handler(ctx, event, datatypes.JSON(env.Args)); err != nil {
		return err
	}

	if err := i.cursors.SetBlockCursor(ctx, env.DaoID, env.Block.Number); err != nil {
		return fmt.Errorf("failed to advance block cursor for %s: %w", env.DaoID, err)
	}
	return nil
}

func (i *Ingestor) handleTokenTransfer(ctx context.Context, event domain.CanonicalEvent, raw datatypes.JSON) error {
	ev, ok := event.(*domain.TokenTransfer)
	if !ok {
		return unexpectedPayload(event)
	}
	return i.balances.ApplyTransfer(ctx, ev, raw)
}

func (i *Ingestor) handleDelegateChanged(ctx context.Context, event domain.CanonicalEvent, _ datatypes.JSON) error {
	ev, ok := event.(*domain.DelegateChanged)
	if !ok {
		return unexpectedPayload(event)
	}
	return i.votingPower.ApplyDelegateChanged(ctx, ev)
}

func (i *Ingestor) handleDelegateVotesChanged(ctx context.Context, event domain.CanonicalEvent, _ datatypes.JSON) error {
	ev, ok := event.(*domain.DelegateVotesChanged)
	if !ok {
		return unexpectedPayload(event)
	}
	return i.votingPower.ApplyDelegateVotesChanged(ctx, ev)
}

func (i *Ingestor) handleVoteCast(ctx context.Context, event domain.CanonicalEvent, _ datatypes.JSON) error {
	ev, ok := event.(*domain.VoteCast)
	if !ok {
		return unexpectedPayload(event)
	}
	gov, err := i.registry.Lookup(ev.DaoID)
	if err != nil {
		return err
	}
	return i.proposals.ApplyVoteCast(ctx, ev, gov.AllowsVoteChange())
}

func (i *Ingestor) handleProposalCreated(ctx context.Context, event domain.CanonicalEvent, _ datatypes.JSON) error {
	ev, ok := event.(*domain.ProposalCreated)
	if !ok {
		return unexpectedPayload(event)
	}
	return i.proposals.ApplyProposalCreated(ctx, ev)
}

func (i *Ingestor) handleProposalStatusChanged(ctx context.Context, event domain.CanonicalEvent, _ datatypes.JSON) error {
	ev, ok := event.(*domain.ProposalStatusChanged)
	if !ok {
		return unexpectedPayload(event)
	}
	return i.proposals.ApplyStatusChanged(ctx, ev)
}

func unexpectedPayload(event domain.CanonicalEvent) error {
	return fmt.Errorf("%w: unexpected payload %T for event type %s", domain.ErrMalformedEvent, event, event.Type())
}
