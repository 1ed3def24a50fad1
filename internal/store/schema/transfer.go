package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/daotrack/governance-indexer/internal/domain"
)

// Transfer represents the transfers table - the append-only record of
// governance-token transfers as observed on chain
type Transfer struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// DaoID identifies the DAO whose token emitted the transfer
	DaoID domain.DaoID `gorm:"column:dao_id;not null;type:text;uniqueIndex:idx_transfers_event,priority:1;index:idx_transfers_dao_time,priority:1"`
	// TokenID is the lowercase token contract address
	TokenID string `gorm:"column:token_id;not null;type:text"`
	// FromAddress is the lowercase sender address (zero address for mints)
	FromAddress string `gorm:"column:from_address;not null;type:text;index:idx_transfers_from"`
	// ToAddress is the lowercase recipient address (zero address for burns)
	ToAddress string `gorm:"column:to_address;not null;type:text;index:idx_transfers_to"`
	// Amount is the transferred quantity in the token's smallest unit
	// (stored as string to support up to 78 digits)
	Amount string `gorm:"column:amount;not null;type:numeric(78,0)"`
	// TxHash is the transaction hash that carried the transfer
	TxHash string `gorm:"column:tx_hash;not null;type:text;uniqueIndex:idx_transfers_event,priority:2"`
	// LogIndex is the log position within the transaction's receipt
	LogIndex uint64 `gorm:"column:log_index;not null;type:bigint;uniqueIndex:idx_transfers_event,priority:3"`
	// BlockNumber is the block where the transfer was recorded
	BlockNumber uint64 `gorm:"column:block_number;not null;type:bigint"`
	// Timestamp is the block timestamp of the transfer
	Timestamp time.Time `gorm:"column:timestamp;not null;type:timestamptz;index:idx_transfers_dao_time,priority:2"`
	// Raw contains the decoded event arguments as delivered by the subscription
	Raw datatypes.JSON `gorm:"column:raw;type:jsonb"`
	// CreatedAt is the timestamp when this record was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Transfer model
func (Transfer) TableName() string {
	return "transfers"
}
