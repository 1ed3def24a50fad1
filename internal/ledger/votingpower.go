package ledger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/daotrack/governance-indexer/internal/domain"
	"github.com/daotrack/governance-indexer/internal/store/schema"
)

// VotingPowerStore is the persistence surface the voting-power ledger needs
type VotingPowerStore interface {
	// GetLatestVotingPower returns the running voting power of a delegate, or
	// nil when the delegate has no history yet
	GetLatestVotingPower(ctx context.Context, daoID domain.DaoID, delegate domain.Address) (*big.Int, error)

	// AppendVotingPowerChanges persists delta rows in one transaction.
	// A (dao_id, tx_hash, log_index, delegate_id) collision fails with
	// domain.ErrDuplicateEvent.
	AppendVotingPowerChanges(ctx context.Context, changes []*schema.VotingPowerChange) error

	// UpsertDelegation records the delegator's current delegate
	UpsertDelegation(ctx context.Context, delegation *schema.Delegation) error
}

// VotingPowerLedger maintains per-delegate voting power from delegation events
type VotingPowerLedger struct {
	store VotingPowerStore
}

// NewVotingPowerLedger creates a voting-power ledger backed by the given store
func NewVotingPowerLedger(store VotingPowerStore) *VotingPowerLedger {
	return &VotingPowerLedger{store: store}
}

// ApplyDelegateVotesChanged appends the token contract's own voting-power
// accounting. The event's previous value must match the ledger's running
// total; a mismatch means history diverged and the DAO stream must halt.
func (l *VotingPowerLedger) ApplyDelegateVotesChanged(ctx context.Context, ev *domain.DelegateVotesChanged) error {
	if ev.Previous == nil || ev.New == nil {
		return fmt.Errorf("%w: delegate votes changed without previous/new values", domain.ErrMalformedEvent)
	}

	prior, err := l.store.GetLatestVotingPower(ctx, ev.DaoID, ev.Delegate)
	if err != nil {
		return fmt.Errorf("failed to get latest voting power for %s: %w", ev.Delegate, err)
	}
	// First event for a delegate seeds the ledger at the contract's previous
	// value; only existing history is checked for divergence.
	if prior != nil && prior.Cmp(ev.Previous) != 0 {
		return fmt.Errorf("%w: delegate %s has running power %s but event expects %s at %s/%d",
			domain.ErrLedgerInconsistent, ev.Delegate, prior, ev.Previous, ev.TxHash, ev.LogIndex)
	}

	delta := new(big.Int).Sub(ev.New, ev.Previous)
	change := &schema.VotingPowerChange{
		DaoID:       ev.DaoID,
		DelegateID:  string(ev.Delegate),
		Delta:       delta.String(),
		VotingPower: ev.New.String(),
		TxHash:      ev.TxHash,
		LogIndex:    ev.LogIndex,
		BlockNumber: ev.BlockNumber,
		Timestamp:   ev.Timestamp,
	}

	if err := l.store.AppendVotingPowerChanges(ctx, []*schema.VotingPowerChange{change}); err != nil {
		return fmt.Errorf("failed to append voting power change %s/%d: %w", ev.TxHash, ev.LogIndex, err)
	}
	return nil
}

// ApplyDelegateChanged records the delegator's new delegate and, when the
// event carries the delegated value, moves that power between the old and new
// delegates as two delta rows sharing the event's (tx_hash, log_index).
func (l *VotingPowerLedger) ApplyDelegateChanged(ctx context.Context, ev *domain.DelegateChanged) error {
	delegation := &schema.Delegation{
		DaoID:          ev.DaoID,
		Delegator:      string(ev.Delegator),
		Delegate:       string(ev.ToDelegate),
		DelegatedValue: "0",
		TxHash:         ev.TxHash,
		LogIndex:       ev.LogIndex,
		Timestamp:      ev.Timestamp,
	}
	if ev.DelegatedValue != nil {
		delegation.DelegatedValue = ev.DelegatedValue.String()
	}
	if err := l.store.UpsertDelegation(ctx, delegation); err != nil {
		return fmt.Errorf("failed to upsert delegation for %s: %w", ev.Delegator, err)
	}

	// Without an explicit delegated value the power movement arrives separately
	// as DelegateVotesChanged events.
	if ev.DelegatedValue == nil || ev.DelegatedValue.Sign() == 0 || ev.FromDelegate == ev.ToDelegate {
		return nil
	}

	var changes []*schema.VotingPowerChange
	if !ev.FromDelegate.IsZero() {
		change, err := l.buildChange(ctx, ev, ev.FromDelegate, new(big.Int).Neg(ev.DelegatedValue))
		if err != nil {
			return err
		}
		changes = append(changes, change)
	}
	if !ev.ToDelegate.IsZero() {
		change, err := l.buildChange(ctx, ev, ev.ToDelegate, ev.DelegatedValue)
		if err != nil {
			return err
		}
		changes = append(changes, change)
	}
	if len(changes) == 0 {
		return nil
	}

	if err := l.store.AppendVotingPowerChanges(ctx, changes); err != nil {
		return fmt.Errorf("failed to append voting power changes %s/%d: %w", ev.TxHash, ev.LogIndex, err)
	}
	return nil
}

func (l *VotingPowerLedger) buildChange(ctx context.Context, ev *domain.DelegateChanged, delegate domain.Address, delta *big.Int) (*schema.VotingPowerChange, error) {
	prior, err := l.store.GetLatestVotingPower(ctx, ev.DaoID, delegate)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest voting power for %s: %w", delegate, err)
	}
	if prior == nil {
		prior = new(big.Int)
	}

	power := new(big.Int).Add(prior, delta)
	if power.Sign() < 0 {
		return nil, fmt.Errorf("%w: delegate %s would go to %s at %s/%d",
			domain.ErrNegativeBalance, delegate, power, ev.TxHash, ev.LogIndex)
	}

	return &schema.VotingPowerChange{
		DaoID:              ev.DaoID,
		DelegateID:         string(delegate),
		Delta:              delta.String(),
		VotingPower:        power.String(),
		CounterpartAddress: string(ev.Delegator),
		TxHash:             ev.TxHash,
		LogIndex:           ev.LogIndex,
		BlockNumber:        ev.BlockNumber,
		Timestamp:          ev.Timestamp,
	}, nil
}
