// Package dto holds the REST response shapes and their mappers from schema
// rows. Addresses are EIP-55 checksummed on the way out; storage stays
// lowercase.
package dto

import (
	"time"

	"github.com/daotrack/governance-indexer/internal/domain"
	"github.com/daotrack/governance-indexer/internal/store"
	"github.com/daotrack/governance-indexer/internal/store/schema"
)

// HistoricalBalance is one balance-history row
type HistoricalBalance struct {
	DaoID              string    `json:"daoId"`
	Account            string    `json:"account"`
	Delta              string    `json:"delta"`
	Balance            string    `json:"balance"`
	CounterpartAddress string    `json:"counterpartAddress,omitempty"`
	TxHash             string    `json:"txHash"`
	LogIndex           uint64    `json:"logIndex"`
	BlockNumber        uint64    `json:"blockNumber"`
	Timestamp          time.Time `json:"timestamp"`
}

// HistoricalBalancesResponse is the balances/historical page
type HistoricalBalancesResponse struct {
	Items      []HistoricalBalance `json:"items"`
	TotalCount uint64              `json:"totalCount"`
}

// FromBalanceChanges maps schema rows to the response page
func FromBalanceChanges(rows []schema.BalanceChange, totalCount uint64) HistoricalBalancesResponse {
	items := make([]HistoricalBalance, 0, len(rows))
	for _, row := range rows {
		items = append(items, HistoricalBalance{
			DaoID:              string(row.DaoID),
			Account:            checksum(row.AccountID),
			Delta:              row.Delta,
			Balance:            row.Balance,
			CounterpartAddress: checksum(row.CounterpartAddress),
			TxHash:             row.TxHash,
			LogIndex:           row.LogIndex,
			BlockNumber:        row.BlockNumber,
			Timestamp:          row.Timestamp,
		})
	}
	return HistoricalBalancesResponse{Items: items, TotalCount: totalCount}
}

// HistoricalVotingPower is one voting-power-history row
type HistoricalVotingPower struct {
	DaoID              string    `json:"daoId"`
	Delegate           string    `json:"delegate"`
	Delta              string    `json:"delta"`
	VotingPower        string    `json:"votingPower"`
	CounterpartAddress string    `json:"counterpartAddress,omitempty"`
	TxHash             string    `json:"txHash"`
	LogIndex           uint64    `json:"logIndex"`
	BlockNumber        uint64    `json:"blockNumber"`
	Timestamp          time.Time `json:"timestamp"`
}

// HistoricalVotingPowerResponse is the voting-power/historical page
type HistoricalVotingPowerResponse struct {
	Items      []HistoricalVotingPower `json:"items"`
	TotalCount uint64                  `json:"totalCount"`
}

// FromVotingPowerChanges maps schema rows to the response page
func FromVotingPowerChanges(rows []schema.VotingPowerChange, totalCount uint64) HistoricalVotingPowerResponse {
	items := make([]HistoricalVotingPower, 0, len(rows))
	for _, row := range rows {
		items = append(items, HistoricalVotingPower{
			DaoID:              string(row.DaoID),
			Delegate:           checksum(row.DelegateID),
			Delta:              row.Delta,
			VotingPower:        row.VotingPower,
			CounterpartAddress: checksum(row.CounterpartAddress),
			TxHash:             row.TxHash,
			LogIndex:           row.LogIndex,
			BlockNumber:        row.BlockNumber,
			Timestamp:          row.Timestamp,
		})
	}
	return HistoricalVotingPowerResponse{Items: items, TotalCount: totalCount}
}

// Interaction is one counterpart's net transfer position against the queried
// account; positive net amount means net outflow from the account
type Interaction struct {
	CounterpartAddress string `json:"counterpartAddress"`
	NetAmount          string `json:"netAmount"`
	TransferCount      uint64 `json:"transferCount"`
}

// InteractionsResponse is the account-balance/interactions page
type InteractionsResponse struct {
	Items      []Interaction `json:"items"`
	TotalCount uint64        `json:"totalCount"`
}

// FromInteractions maps store aggregates to the response page
func FromInteractions(rows []store.Interaction, totalCount uint64) InteractionsResponse {
	items := make([]Interaction, 0, len(rows))
	for _, row := range rows {
		items = append(items, Interaction{
			CounterpartAddress: checksum(row.CounterpartAddress),
			NetAmount:          row.NetAmount,
			TransferCount:      row.TransferCount,
		})
	}
	return InteractionsResponse{Items: items, TotalCount: totalCount}
}

// SeriesItem is one date-keyed value of a day series
type SeriesItem struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// PageInfo carries cursor pagination metadata
type PageInfo struct {
	HasNextPage bool `json:"hasNextPage"`
}

// SeriesResponse is a date-keyed series page
type SeriesResponse struct {
	Items    []SeriesItem `json:"items"`
	PageInfo PageInfo     `json:"pageInfo"`
}

// FromDayBuckets maps day buckets to a close-value series
func FromDayBuckets(buckets []schema.DayBucket, hasNextPage bool) SeriesResponse {
	items := make([]SeriesItem, 0, len(buckets))
	for _, bucket := range buckets {
		items = append(items, SeriesItem{
			Date:  bucket.Day.Format(domain.DayBucketLayout),
			Value: bucket.Close,
		})
	}
	return SeriesResponse{Items: items, PageInfo: PageInfo{HasNextPage: hasNextPage}}
}

// Proposal is one governance proposal with its running tallies
type Proposal struct {
	DaoID        string    `json:"daoId"`
	ProposalID   string    `json:"proposalId"`
	Proposer     string    `json:"proposer"`
	Status       string    `json:"status"`
	StartBlock   uint64    `json:"startBlock"`
	EndBlock     uint64    `json:"endBlock"`
	Description  string    `json:"description,omitempty"`
	ForVotes     string    `json:"forVotes"`
	AgainstVotes string    `json:"againstVotes"`
	AbstainVotes string    `json:"abstainVotes"`
	TxHash       string    `json:"txHash"`
	Timestamp    time.Time `json:"timestamp"`
}

// ProposalsResponse is the proposals list page
type ProposalsResponse struct {
	Items      []Proposal `json:"items"`
	TotalCount uint64     `json:"totalCount"`
}

// FromProposal maps a schema row to the response shape
func FromProposal(row *schema.Proposal) Proposal {
	return Proposal{
		DaoID:        string(row.DaoID),
		ProposalID:   row.ProposalID,
		Proposer:     checksum(row.Proposer),
		Status:       string(row.Status),
		StartBlock:   row.StartBlock,
		EndBlock:     row.EndBlock,
		Description:  row.Description,
		ForVotes:     row.ForVotes,
		AgainstVotes: row.AgainstVotes,
		AbstainVotes: row.AbstainVotes,
		TxHash:       row.TxHash,
		Timestamp:    row.Timestamp,
	}
}

// FromProposals maps schema rows to the response page
func FromProposals(rows []schema.Proposal, totalCount uint64) ProposalsResponse {
	items := make([]Proposal, 0, len(rows))
	for i := range rows {
		items = append(items, FromProposal(&rows[i]))
	}
	return ProposalsResponse{Items: items, TotalCount: totalCount}
}

// Vote is one voter's current vote on a proposal
type Vote struct {
	Voter       string    `json:"voter"`
	Support     uint8     `json:"support"`
	VotingPower string    `json:"votingPower"`
	Reason      string    `json:"reason,omitempty"`
	TxHash      string    `json:"txHash"`
	Timestamp   time.Time `json:"timestamp"`
}

// VotesResponse is the proposal votes page
type VotesResponse struct {
	Items      []Vote `json:"items"`
	TotalCount uint64 `json:"totalCount"`
}

// FromVotes maps schema rows to the response page
func FromVotes(rows []schema.Vote, totalCount uint64) VotesResponse {
	items := make([]Vote, 0, len(rows))
	for _, row := range rows {
		items = append(items, Vote{
			Voter:       checksum(row.Voter),
			Support:     uint8(row.Support),
			VotingPower: row.VotingPower,
			Reason:      row.Reason,
			TxHash:      row.TxHash,
			Timestamp:   row.Timestamp,
		})
	}
	return VotesResponse{Items: items, TotalCount: totalCount}
}

// ProposalDetailResponse is one proposal with its votes
type ProposalDetailResponse struct {
	Proposal Proposal      `json:"proposal"`
	Votes    VotesResponse `json:"votes"`
}

// DaoParameters are the static governance parameters of a DAO
type DaoParameters struct {
	DaoID             string `json:"daoId"`
	Family            string `json:"family"`
	Quorum            string `json:"quorum"`
	ProposalThreshold string `json:"proposalThreshold"`
	VotingDelay       uint64 `json:"votingDelay"`
	VotingPeriod      uint64 `json:"votingPeriod"`
	TimelockDelay     uint64 `json:"timelockDelay"`
}

func checksum(address string) string {
	if address == "" {
		return ""
	}
	return domain.Address(address).Checksum()
}
