package domain

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DaoID identifies one governed protocol tracked by the indexer
type DaoID string

// GovernorFamily identifies the on-chain governance contract family of a DAO
type GovernorFamily string

const (
	GovernorFamilyStandard GovernorFamily = "standard"
	GovernorFamilyNouns    GovernorFamily = "nouns"
	GovernorFamilyAzorius  GovernorFamily = "azorius"
	GovernorFamilyOffchain GovernorFamily = "offchain"
)

// IsValidGovernorFamily checks if a governor family is known
func IsValidGovernorFamily(f GovernorFamily) bool {
	return f == GovernorFamilyStandard ||
		f == GovernorFamilyNouns ||
		f == GovernorFamilyAzorius ||
		f == GovernorFamilyOffchain
}

// Address is a lowercase hex account address. Implicitly created on first
// event referencing it; checksummed only on display.
type Address string

// NormalizeAddress lowercases an address for storage and comparison
func NormalizeAddress(addr string) Address {
	return Address(strings.ToLower(strings.TrimSpace(addr)))
}

// Valid reports whether the address is a well-formed 20-byte hex address
func (a Address) Valid() bool {
	return common.IsHexAddress(string(a))
}

// IsZero reports whether the address is the zero address (mint/burn side)
func (a Address) IsZero() bool {
	return string(a) == ZERO_ADDRESS || a == ""
}

// Checksum returns the EIP-55 checksummed form for display
func (a Address) Checksum() string {
	return common.HexToAddress(string(a)).Hex()
}

// Amount parses a decimal token amount (smallest unit, up to 78 digits).
// Balances and voting power never use floating point.
func ParseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: invalid amount %q", ErrMalformedEvent, s)
	}
	return v, nil
}

// EventType is the canonical event set produced by the normalizer
type EventType string

const (
	EventTypeTokenTransfer         EventType = "token_transfer"
	EventTypeDelegateChanged       EventType = "delegate_changed"
	EventTypeDelegateVotesChanged  EventType = "delegate_votes_changed"
	EventTypeVoteCast              EventType = "vote_cast"
	EventTypeProposalCreated       EventType = "proposal_created"
	EventTypeProposalStatusChanged EventType = "proposal_status_changed"
)

// ProposalStatus is the proposal lifecycle state
type ProposalStatus string

const (
	ProposalStatusPending   ProposalStatus = "pending"
	ProposalStatusActive    ProposalStatus = "active"
	ProposalStatusDefeated  ProposalStatus = "defeated"
	ProposalStatusSucceeded ProposalStatus = "succeeded"
	ProposalStatusQueued    ProposalStatus = "queued"
	ProposalStatusExecuted  ProposalStatus = "executed"
	ProposalStatusCanceled  ProposalStatus = "canceled"
)

// Terminal reports whether the status admits no further transitions
func (s ProposalStatus) Terminal() bool {
	return s == ProposalStatusExecuted || s == ProposalStatusCanceled || s == ProposalStatusDefeated
}

// VoteSupport is a normalized vote choice
type VoteSupport uint8

const (
	VoteSupportAgainst VoteSupport = 0
	VoteSupportFor     VoteSupport = 1
	VoteSupportAbstain VoteSupport = 2
)

// MetricType identifies a day-bucket metric series
type MetricType string

const (
	MetricTypeTotalSupply          MetricType = "total_supply"
	MetricTypeDelegatedSupply      MetricType = "delegated_supply"
	MetricTypeDelegationPercentage MetricType = "delegation_percentage"
	MetricTypeTreasury             MetricType = "treasury"
	MetricTypeVotingPower          MetricType = "voting_power"
)

// EventRef locates an event on chain. (TxHash, LogIndex) is the uniqueness key
// for every ledger row derived from the event.
type EventRef struct {
	TxHash      string    `json:"tx_hash"`
	LogIndex    uint64    `json:"log_index"`
	BlockNumber uint64    `json:"block_number"`
	Timestamp   time.Time `json:"timestamp"`
}

// EventEnvelope is the wire shape delivered by the chain-event subscription,
// one per decoded log, in increasing (block_number, log_index) order.
type EventEnvelope struct {
	DaoID     DaoID           `json:"dao_id"`
	EventName string          `json:"event_name"`
	Args      json.RawMessage `json:"args"`
	Block     EnvelopeBlock   `json:"block"`
	Tx        EnvelopeTx      `json:"transaction"`
	Log       EnvelopeLog     `json:"log"`
}

// EnvelopeBlock carries block fields of an envelope
type EnvelopeBlock struct {
	Number    uint64 `json:"number"`
	Timestamp int64  `json:"timestamp"`
}

// EnvelopeTx carries transaction fields of an envelope
type EnvelopeTx struct {
	Hash string `json:"hash"`
}

// EnvelopeLog carries log fields of an envelope
type EnvelopeLog struct {
	LogIndex uint64 `json:"log_index"`
	Address  string `json:"address"`
}

// Ref builds the canonical event reference for the envelope
func (e *EventEnvelope) Ref() EventRef {
	return EventRef{
		TxHash:      strings.ToLower(e.Tx.Hash),
		LogIndex:    e.Log.LogIndex,
		BlockNumber: e.Block.Number,
		Timestamp:   time.Unix(e.Block.Timestamp, 0).UTC(),
	}
}

// TokenTransfer is the canonical ERC20-style transfer event
type TokenTransfer struct {
	EventRef
	DaoID   DaoID
	TokenID Address
	From    Address
	To      Address
	Amount  *big.Int
}

// DelegateChanged is the canonical delegation reassignment event
type DelegateChanged struct {
	EventRef
	DaoID          DaoID
	Delegator      Address
	FromDelegate   Address
	ToDelegate     Address
	DelegatedValue *big.Int
}

// DelegateVotesChanged is the canonical voting-power update event
type DelegateVotesChanged struct {
	EventRef
	DaoID    DaoID
	Delegate Address
	Previous *big.Int
	New      *big.Int
}

// VoteCast is the canonical vote event
type VoteCast struct {
	EventRef
	DaoID       DaoID
	Voter       Address
	ProposalID  string
	Support     VoteSupport
	VotingPower *big.Int
	Reason      string
}

// ProposalCreated is the canonical proposal creation event
type ProposalCreated struct {
	EventRef
	DaoID       DaoID
	ProposalID  string
	Proposer    Address
	Targets     []string
	Values      []string
	Calldatas   []string
	StartBlock  uint64
	EndBlock    uint64
	Description string
}

// ProposalStatusChanged is the canonical proposal lifecycle event.
// For deadline extensions Status stays active and EndBlock carries the new
// voting deadline.
type ProposalStatusChanged struct {
	EventRef
	DaoID      DaoID
	ProposalID string
	Status     ProposalStatus
	EndBlock   uint64
}

// CanonicalEvent is implemented by all normalized event shapes
type CanonicalEvent interface {
	Type() EventType
	Dao() DaoID
	EventReference() EventRef
}

func (e *TokenTransfer) Type() EventType         { return EventTypeTokenTransfer }
func (e *DelegateChanged) Type() EventType       { return EventTypeDelegateChanged }
func (e *DelegateVotesChanged) Type() EventType  { return EventTypeDelegateVotesChanged }
func (e *VoteCast) Type() EventType              { return EventTypeVoteCast }
func (e *ProposalCreated) Type() EventType       { return EventTypeProposalCreated }
func (e *ProposalStatusChanged) Type() EventType { return EventTypeProposalStatusChanged }

func (e *TokenTransfer) Dao() DaoID         { return e.DaoID }
func (e *DelegateChanged) Dao() DaoID       { return e.DaoID }
func (e *DelegateVotesChanged) Dao() DaoID  { return e.DaoID }
func (e *VoteCast) Dao() DaoID              { return e.DaoID }
func (e *ProposalCreated) Dao() DaoID       { return e.DaoID }
func (e *ProposalStatusChanged) Dao() DaoID { return e.DaoID }

func (e *TokenTransfer) EventReference() EventRef         { return e.EventRef }
func (e *DelegateChanged) EventReference() EventRef       { return e.EventRef }
func (e *DelegateVotesChanged) EventReference() EventRef  { return e.EventRef }
func (e *VoteCast) EventReference() EventRef              { return e.EventRef }
func (e *ProposalCreated) EventReference() EventRef       { return e.EventRef }
func (e *ProposalStatusChanged) EventReference() EventRef { return e.EventRef }

// DayKey truncates a timestamp to its UTC day bucket
func DayKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
