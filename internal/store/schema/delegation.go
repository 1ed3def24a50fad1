package schema

import (
	"time"

	"github.com/daotrack/governance-indexer/internal/domain"
)

// Delegation represents the delegations table - the current delegate of each
// delegator, upserted on every DelegateChanged event
type Delegation struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// DaoID identifies the DAO this delegation belongs to
	DaoID domain.DaoID `gorm:"column:dao_id;not null;type:text;uniqueIndex:idx_delegations_delegator,priority:1"`
	// Delegator is the lowercase address that delegated its voting power
	Delegator string `gorm:"column:delegator;not null;type:text;uniqueIndex:idx_delegations_delegator,priority:2"`
	// Delegate is the lowercase address receiving the voting power
	// (zero address when the delegator undelegated)
	Delegate string `gorm:"column:delegate;not null;type:text;index:idx_delegations_delegate"`
	// DelegatedValue is the delegated token quantity when the event carried it
	DelegatedValue string `gorm:"column:delegated_value;not null;default:0;type:numeric(78,0)"`
	// TxHash is the transaction hash of the latest DelegateChanged event
	TxHash string `gorm:"column:tx_hash;not null;type:text"`
	// LogIndex is the log position of the latest DelegateChanged event
	LogIndex uint64 `gorm:"column:log_index;not null;type:bigint"`
	// Timestamp is the block timestamp of the latest DelegateChanged event
	Timestamp time.Time `gorm:"column:timestamp;not null;type:timestamptz"`
	// CreatedAt is the timestamp when this record was first indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Delegation model
func (Delegation) TableName() string {
	return "delegations"
}
