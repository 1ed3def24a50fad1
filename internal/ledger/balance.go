// Package ledger applies canonical governance events to the event-sourced
// ledgers. Each apply derives signed delta rows plus the running total, so the
// full history can be replayed into identical state.
package ledger

import (
	"context"
	"fmt"
	"math/big"

	"gorm.io/datatypes"

	"github.com/daotrack/governance-indexer/internal/domain"
	"github.com/daotrack/governance-indexer/internal/store/schema"
)

// BalanceStore is the persistence surface the balance ledger needs
type BalanceStore interface {
	// GetLatestBalance returns the running balance of an account, or nil when
	// the account has no history yet
	GetLatestBalance(ctx context.Context, daoID domain.DaoID, account domain.Address) (*big.Int, error)

	// AppendTransfer persists the transfer record and its balance deltas in one
	// transaction. A (dao_id, tx_hash, log_index) collision fails with
	// domain.ErrDuplicateEvent.
	AppendTransfer(ctx context.Context, transfer *schema.Transfer, changes []*schema.BalanceChange) error
}

// BalanceLedger maintains per-account token balances from transfer events
type BalanceLedger struct {
	store BalanceStore
}

// NewBalanceLedger creates a balance ledger backed by the given store
func NewBalanceLedger(store BalanceStore) *BalanceLedger {
	return &BalanceLedger{store: store}
}

// ApplyTransfer appends a transfer to the balance ledger. A regular transfer
// produces two delta rows sharing the event's (tx_hash, log_index); a mint or
// burn produces one, the zero-address side carries no balance.
func (l *BalanceLedger) ApplyTransfer(ctx context.Context, ev *domain.TokenTransfer, raw datatypes.JSON) error {
	if ev.Amount == nil || ev.Amount.Sign() < 0 {
		return fmt.Errorf("%w: transfer amount missing or negative", domain.ErrMalformedEvent)
	}

	transfer := &schema.Transfer{
		DaoID:       ev.DaoID,
		TokenID:     string(ev.TokenID),
		FromAddress: string(ev.From),
		ToAddress:   string(ev.To),
		Amount:      ev.Amount.String(),
		TxHash:      ev.TxHash,
		LogIndex:    ev.LogIndex,
		BlockNumber: ev.BlockNumber,
		Timestamp:   ev.Timestamp,
		Raw:         raw,
	}

	var changes []*schema.BalanceChange

	// Self-transfers net to zero; record the transfer without delta rows so the
	// per-event uniqueness key stays intact.
	if ev.From != ev.To {
		if !ev.From.IsZero() {
			change, err := l.buildChange(ctx, ev, ev.From, ev.To, new(big.Int).Neg(ev.Amount))
			if err != nil {
				return err
			}
			changes = append(changes, change)
		}
		if !ev.To.IsZero() {
			change, err := l.buildChange(ctx, ev, ev.To, ev.From, ev.Amount)
			if err != nil {
				return err
			}
			changes = append(changes, change)
		}
	}

	if err := l.store.AppendTransfer(ctx, transfer, changes); err != nil {
		return fmt.Errorf("failed to append transfer %s/%d: %w", ev.TxHash, ev.LogIndex, err)
	}
	return nil
}

func (l *BalanceLedger) buildChange(ctx context.Context, ev *domain.TokenTransfer, account, counterpart domain.Address, delta *big.Int) (*schema.BalanceChange, error) {
	prior, err := l.store.GetLatestBalance(ctx, ev.DaoID, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest balance for %s: %w", account, err)
	}
	if prior == nil {
		prior = new(big.Int)
	}

	balance := new(big.Int).Add(prior, delta)
	if balance.Sign() < 0 {
		return nil, fmt.Errorf("%w: account %s would go to %s at %s/%d",
			domain.ErrNegativeBalance, account, balance, ev.TxHash, ev.LogIndex)
	}

	counterpartAddr := ""
	if !counterpart.IsZero() {
		counterpartAddr = string(counterpart)
	}

	return &schema.BalanceChange{
		DaoID:              ev.DaoID,
		AccountID:          string(account),
		Delta:              delta.String(),
		Balance:            balance.String(),
		CounterpartAddress: counterpartAddr,
		TxHash:             ev.TxHash,
		LogIndex:           ev.LogIndex,
		BlockNumber:        ev.BlockNumber,
		Timestamp:          ev.Timestamp,
	}, nil
}
