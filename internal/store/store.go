package store

import (
	"context"
	"math/big"
	"time"

	"github.com/daotrack/governance-indexer/internal/domain"
	"github.com/daotrack/governance-indexer/internal/store/schema"
)

// OrderDirection is the sort direction of list queries
type OrderDirection string

const (
	OrderAsc  OrderDirection = "asc"
	OrderDesc OrderDirection = "desc"
)

// BalanceHistoryFilter narrows the historical balance query
type BalanceHistoryFilter struct {
	DaoID     domain.DaoID
	Account   domain.Address
	FromValue *string // inclusive lower bound on the running balance
	ToValue   *string // inclusive upper bound on the running balance
	FromDate  *time.Time
	ToDate    *time.Time
	OrderBy   string // timestamp | delta
	OrderDir  OrderDirection
	Skip      uint64
	Limit     int
}

// VotingPowerHistoryFilter narrows the historical voting-power query
type VotingPowerHistoryFilter struct {
	DaoID         domain.DaoID
	Account       domain.Address
	MinDelta      *string
	MaxDelta      *string
	FromAddresses []string // counterparts the power was received from
	ToAddresses   []string // counterparts the power was released to
	OrderBy       string   // timestamp | delta
	OrderDir      OrderDirection
	Skip          uint64
	Limit         int
}

// InteractionsFilter narrows the account-interaction query
type InteractionsFilter struct {
	DaoID    domain.DaoID
	Account  domain.Address
	Days     int
	OrderDir OrderDirection
	Skip     uint64
	Limit    int
}

// Interaction is one counterpart's net transfer position against the queried
// account. Positive net amount means net outflow from the account.
type Interaction struct {
	CounterpartAddress string `gorm:"column:counterpart_address"`
	NetAmount          string `gorm:"column:net_amount"`
	TransferCount      uint64 `gorm:"column:transfer_count"`
}

// DayBucketFilter narrows a date-keyed day-bucket query with cursor pagination
type DayBucketFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	After     *time.Time // exclusive cursor, dates strictly after
	Before    *time.Time // exclusive cursor, dates strictly before
	OrderDir  OrderDirection
	Limit     int
}

// ProposalFilter narrows the proposal list query
type ProposalFilter struct {
	DaoID    domain.DaoID
	Statuses []domain.ProposalStatus
	OrderDir OrderDirection
	Skip     uint64
	Limit    int
}

// ValuePoint is one ledger delta in replay order, used by the day-bucket rebuild
type ValuePoint struct {
	Timestamp time.Time `gorm:"column:timestamp"`
	LogIndex  uint64    `gorm:"column:log_index"`
	Delta     string    `gorm:"column:delta"`
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetLatestBalance returns the running balance of an account, or nil when
	// the account has no history yet
	GetLatestBalance(ctx context.Context, daoID domain.DaoID, account domain.Address) (*big.Int, error)
	// AppendTransfer persists a transfer and its balance deltas in one
	// transaction; replays fail with domain.ErrDuplicateEvent
	AppendTransfer(ctx context.Context, transfer *schema.Transfer, changes []*schema.BalanceChange) error

	// GetLatestVotingPower returns the running voting power of a delegate, or
	// nil when the delegate has no history yet
	GetLatestVotingPower(ctx context.Context, daoID domain.DaoID, delegate domain.Address) (*big.Int, error)
	// AppendVotingPowerChanges persists voting-power deltas in one transaction;
	// replays fail with domain.ErrDuplicateEvent
	AppendVotingPowerChanges(ctx context.Context, changes []*schema.VotingPowerChange) error
	// UpsertDelegation records the delegator's current delegate
	UpsertDelegation(ctx context.Context, delegation *schema.Delegation) error

	// GetProposal retrieves a proposal, or nil when it does not exist
	GetProposal(ctx context.Context, daoID domain.DaoID, proposalID string) (*schema.Proposal, error)
	// CreateProposal inserts a new proposal; replays fail with domain.ErrDuplicateEvent
	CreateProposal(ctx context.Context, proposal *schema.Proposal) error
	// UpdateProposalStatus sets the proposal status; endBlock moves the voting
	// deadline when non-zero
	UpdateProposalStatus(ctx context.Context, daoID domain.DaoID, proposalID string, status domain.ProposalStatus, endBlock uint64) error
	// GetVote retrieves the voter's current vote on a proposal, or nil
	GetVote(ctx context.Context, daoID domain.DaoID, proposalID string, voter domain.Address) (*schema.Vote, error)
	// SaveVote upserts the vote and writes the adjusted proposal tallies in the
	// same transaction
	SaveVote(ctx context.Context, vote *schema.Vote, forVotes, againstVotes, abstainVotes string) error

	// GetBalanceHistory retrieves historical balance rows with the total match count
	GetBalanceHistory(ctx context.Context, filter BalanceHistoryFilter) ([]schema.BalanceChange, uint64, error)
	// GetVotingPowerHistory retrieves historical voting-power rows with the total match count
	GetVotingPowerHistory(ctx context.Context, filter VotingPowerHistoryFilter) ([]schema.VotingPowerChange, uint64, error)
	// GetAccountInteractions aggregates net transfer amounts between the
	// account and each counterpart over the trailing window
	GetAccountInteractions(ctx context.Context, filter InteractionsFilter) ([]Interaction, uint64, error)
	// GetProposals retrieves proposals with the total match count
	GetProposals(ctx context.Context, filter ProposalFilter) ([]schema.Proposal, uint64, error)
	// GetProposalVotes retrieves the votes on a proposal with the total match count
	GetProposalVotes(ctx context.Context, daoID domain.DaoID, proposalID string, limit int, offset uint64) ([]schema.Vote, uint64, error)

	// GetSupplyChanges returns mint/burn deltas of a DAO's token in replay order
	GetSupplyChanges(ctx context.Context, daoID domain.DaoID) ([]ValuePoint, error)
	// GetVotingPowerDeltas returns all voting-power deltas of a DAO in replay order
	GetVotingPowerDeltas(ctx context.Context, daoID domain.DaoID) ([]ValuePoint, error)
	// UpsertDayBuckets idempotently writes rebuilt day buckets
	UpsertDayBuckets(ctx context.Context, buckets []*schema.DayBucket) error
	// GetDayBuckets retrieves a DAO's day buckets for one metric, cursor-paginated
	// by date; the second result reports whether more pages follow
	GetDayBuckets(ctx context.Context, daoID domain.DaoID, metricType domain.MetricType, filter DayBucketFilter) ([]schema.DayBucket, bool, error)

	// GetBlockCursor retrieves the last processed block number for a DAO stream
	GetBlockCursor(ctx context.Context, daoID domain.DaoID) (uint64, error)
	// SetBlockCursor stores the last processed block number for a DAO stream
	SetBlockCursor(ctx context.Context, daoID domain.DaoID, blockNumber uint64) error
}
