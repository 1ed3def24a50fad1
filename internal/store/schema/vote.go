package schema

import (
	"time"

	"github.com/daotrack/governance-indexer/internal/domain"
)

// Vote represents the votes_onchain table - the latest vote of each voter per
// proposal. A changed vote overwrites the previous row; tallies on the
// proposal are adjusted by the ledger in the same transaction.
type Vote struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// DaoID identifies the DAO the vote belongs to
	DaoID domain.DaoID `gorm:"column:dao_id;not null;type:text;uniqueIndex:idx_votes_voter_proposal,priority:1;uniqueIndex:idx_votes_event,priority:1"`
	// ProposalID is the governor-assigned proposal identifier
	ProposalID string `gorm:"column:proposal_id;not null;type:text;uniqueIndex:idx_votes_voter_proposal,priority:2"`
	// Voter is the lowercase address that cast the vote
	Voter string `gorm:"column:voter;not null;type:text;uniqueIndex:idx_votes_voter_proposal,priority:3"`
	// Support is the normalized vote choice (0=against, 1=for, 2=abstain)
	Support domain.VoteSupport `gorm:"column:support;not null;type:smallint"`
	// VotingPower is the weight the vote was cast with
	VotingPower string `gorm:"column:voting_power;not null;type:numeric(78,0)"`
	// Reason is the optional vote reason text
	Reason string `gorm:"column:reason;type:text"`
	// TxHash is the transaction hash of the vote event
	TxHash string `gorm:"column:tx_hash;not null;type:text;uniqueIndex:idx_votes_event,priority:2"`
	// LogIndex is the log position of the vote event
	LogIndex uint64 `gorm:"column:log_index;not null;type:bigint;uniqueIndex:idx_votes_event,priority:3"`
	// BlockNumber is the block where the vote was recorded
	BlockNumber uint64 `gorm:"column:block_number;not null;type:bigint"`
	// Timestamp is the block timestamp of the vote
	Timestamp time.Time `gorm:"column:timestamp;not null;type:timestamptz"`
	// CreatedAt is the timestamp when this record was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Vote model
func (Vote) TableName() string {
	return "votes_onchain"
}
