package schema

import (
	"time"

	"github.com/daotrack/governance-indexer/internal/domain"
)

// BalanceChange represents the balance_history table - one signed delta per
// affected account per transfer, with the running balance after the delta.
// A regular transfer produces two rows sharing (tx_hash, log_index); a mint or
// burn produces one.
type BalanceChange struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// DaoID identifies the DAO ledger this change belongs to
	DaoID domain.DaoID `gorm:"column:dao_id;not null;type:text;uniqueIndex:idx_balance_history_event,priority:1;index:idx_balance_history_account,priority:1"`
	// AccountID is the lowercase address whose balance changed
	AccountID string `gorm:"column:account_id;not null;type:text;uniqueIndex:idx_balance_history_event,priority:4;index:idx_balance_history_account,priority:2"`
	// Delta is the signed balance change (negative for the sending side)
	Delta string `gorm:"column:delta;not null;type:numeric(78,0)"`
	// Balance is the running balance after applying the delta
	Balance string `gorm:"column:balance;not null;type:numeric(78,0)"`
	// CounterpartAddress is the other side of the transfer (empty for mint/burn)
	CounterpartAddress string `gorm:"column:counterpart_address;type:text"`
	// TxHash is the transaction hash of the originating transfer
	TxHash string `gorm:"column:tx_hash;not null;type:text;uniqueIndex:idx_balance_history_event,priority:2"`
	// LogIndex is the log position of the originating transfer
	LogIndex uint64 `gorm:"column:log_index;not null;type:bigint;uniqueIndex:idx_balance_history_event,priority:3"`
	// BlockNumber is the block where the originating transfer was recorded
	BlockNumber uint64 `gorm:"column:block_number;not null;type:bigint"`
	// Timestamp is the block timestamp; replay order is (timestamp, log_index)
	Timestamp time.Time `gorm:"column:timestamp;not null;type:timestamptz;index:idx_balance_history_account,priority:3"`
	// CreatedAt is the timestamp when this record was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the BalanceChange model
func (BalanceChange) TableName() string {
	return "balance_history"
}
