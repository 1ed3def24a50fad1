package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/daotrack/governance-indexer/internal/domain"
)

// Proposal represents the proposals table - one row per governance proposal
// with its lifecycle status and running vote tallies
type Proposal struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// DaoID identifies the DAO the proposal belongs to
	DaoID domain.DaoID `gorm:"column:dao_id;not null;type:text;uniqueIndex:idx_proposals_dao_proposal,priority:1"`
	// ProposalID is the governor-assigned proposal identifier (uint256 decimal
	// string on chain, opaque hash for offchain governors)
	ProposalID string `gorm:"column:proposal_id;not null;type:text;uniqueIndex:idx_proposals_dao_proposal,priority:2"`
	// Proposer is the lowercase address that created the proposal
	Proposer string `gorm:"column:proposer;not null;type:text"`
	// Status is the current lifecycle status, last event wins
	Status domain.ProposalStatus `gorm:"column:status;not null;type:text;index:idx_proposals_status"`
	// Targets are the call targets of the proposal actions
	Targets datatypes.JSON `gorm:"column:targets;type:jsonb"`
	// Values are the native-token values of the proposal actions
	Values datatypes.JSON `gorm:"column:values;type:jsonb"`
	// Calldatas are the encoded calldata of the proposal actions
	Calldatas datatypes.JSON `gorm:"column:calldatas;type:jsonb"`
	// StartBlock is the voting window start (block number, or unix timestamp
	// for offchain governors)
	StartBlock uint64 `gorm:"column:start_block;not null;type:bigint"`
	// EndBlock is the voting window end; deadline extensions move it forward
	EndBlock uint64 `gorm:"column:end_block;not null;type:bigint"`
	// Description is the proposal description or metadata text
	Description string `gorm:"column:description;type:text"`
	// ForVotes is the running tally of for votes
	ForVotes string `gorm:"column:for_votes;not null;default:0;type:numeric(78,0)"`
	// AgainstVotes is the running tally of against votes
	AgainstVotes string `gorm:"column:against_votes;not null;default:0;type:numeric(78,0)"`
	// AbstainVotes is the running tally of abstain votes
	AbstainVotes string `gorm:"column:abstain_votes;not null;default:0;type:numeric(78,0)"`
	// TxHash is the transaction hash of the creation event
	TxHash string `gorm:"column:tx_hash;not null;type:text"`
	// LogIndex is the log position of the creation event
	LogIndex uint64 `gorm:"column:log_index;not null;type:bigint"`
	// Timestamp is the block timestamp of the creation event
	Timestamp time.Time `gorm:"column:timestamp;not null;type:timestamptz"`
	// CreatedAt is the timestamp when this record was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Proposal model
func (Proposal) TableName() string {
	return "proposals"
}
