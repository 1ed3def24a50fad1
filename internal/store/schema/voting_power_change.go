package schema

import (
	"time"

	"github.com/daotrack/governance-indexer/internal/domain"
)

// VotingPowerChange represents the voting_power_history table - one signed
// delta per affected delegate, with the running voting power after the delta.
// A re-delegation produces two rows sharing (tx_hash, log_index).
type VotingPowerChange struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// DaoID identifies the DAO ledger this change belongs to
	DaoID domain.DaoID `gorm:"column:dao_id;not null;type:text;uniqueIndex:idx_voting_power_history_event,priority:1;index:idx_voting_power_history_delegate,priority:1"`
	// DelegateID is the lowercase address whose voting power changed
	DelegateID string `gorm:"column:delegate_id;not null;type:text;uniqueIndex:idx_voting_power_history_event,priority:4;index:idx_voting_power_history_delegate,priority:2"`
	// Delta is the signed voting-power change
	Delta string `gorm:"column:delta;not null;type:numeric(78,0)"`
	// VotingPower is the running voting power after applying the delta
	VotingPower string `gorm:"column:voting_power;not null;type:numeric(78,0)"`
	// CounterpartAddress is the delegator that caused the change, when known
	CounterpartAddress string `gorm:"column:counterpart_address;type:text"`
	// TxHash is the transaction hash of the originating event
	TxHash string `gorm:"column:tx_hash;not null;type:text;uniqueIndex:idx_voting_power_history_event,priority:2"`
	// LogIndex is the log position of the originating event
	LogIndex uint64 `gorm:"column:log_index;not null;type:bigint;uniqueIndex:idx_voting_power_history_event,priority:3"`
	// BlockNumber is the block where the originating event was recorded
	BlockNumber uint64 `gorm:"column:block_number;not null;type:bigint"`
	// Timestamp is the block timestamp; replay order is (timestamp, log_index)
	Timestamp time.Time `gorm:"column:timestamp;not null;type:timestamptz;index:idx_voting_power_history_delegate,priority:3"`
	// CreatedAt is the timestamp when this record was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the VotingPowerChange model
func (VotingPowerChange) TableName() string {
	return "voting_power_history"
}
