package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"gorm.io/datatypes"

	"github.com/daotrack/governance-indexer/internal/domain"
	"github.com/daotrack/governance-indexer/internal/store/schema"
)

// ProposalStore is the persistence surface the proposal state machine needs
type ProposalStore interface {
	// GetProposal returns a proposal, or nil when it does not exist
	GetProposal(ctx context.Context, daoID domain.DaoID, proposalID string) (*schema.Proposal, error)

	// CreateProposal inserts a new proposal. A (dao_id, proposal_id) collision
	// fails with domain.ErrDuplicateEvent.
	CreateProposal(ctx context.Context, proposal *schema.Proposal) error

	// UpdateProposalStatus sets the proposal status; endBlock moves the voting
	// deadline when non-zero
	UpdateProposalStatus(ctx context.Context, daoID domain.DaoID, proposalID string, status domain.ProposalStatus, endBlock uint64) error

	// GetVote returns the voter's current vote on a proposal, or nil
	GetVote(ctx context.Context, daoID domain.DaoID, proposalID string, voter domain.Address) (*schema.Vote, error)

	// SaveVote upserts the vote keyed (dao_id, proposal_id, voter) and writes
	// the adjusted proposal tallies in the same transaction
	SaveVote(ctx context.Context, vote *schema.Vote, forVotes, againstVotes, abstainVotes string) error
}

// ProposalStateMachine maintains proposal lifecycle state and vote tallies
type ProposalStateMachine struct {
	store ProposalStore
}

// NewProposalStateMachine creates a proposal state machine backed by the given store
func NewProposalStateMachine(store ProposalStore) *ProposalStateMachine {
	return &ProposalStateMachine{store: store}
}

// ApplyProposalCreated inserts the proposal in active status
func (m *ProposalStateMachine) ApplyProposalCreated(ctx context.Context, ev *domain.ProposalCreated) error {
	targets, err := jsonColumn(ev.Targets)
	if err != nil {
		return err
	}
	values, err := jsonColumn(ev.Values)
	if err != nil {
		return err
	}
	calldatas, err := jsonColumn(ev.Calldatas)
	if err != nil {
		return err
	}

	proposal := &schema.Proposal{
		DaoID:        ev.DaoID,
		ProposalID:   ev.ProposalID,
		Proposer:     string(ev.Proposer),
		Status:       domain.ProposalStatusActive,
		Targets:      targets,
		Values:       values,
		Calldatas:    calldatas,
		StartBlock:   ev.StartBlock,
		EndBlock:     ev.EndBlock,
		Description:  ev.Description,
		ForVotes:     "0",
		AgainstVotes: "0",
		AbstainVotes: "0",
		TxHash:       ev.TxHash,
		LogIndex:     ev.LogIndex,
		Timestamp:    ev.Timestamp,
	}

	if err := m.store.CreateProposal(ctx, proposal); err != nil {
		return fmt.Errorf("failed to create proposal %s/%s: %w", ev.DaoID, ev.ProposalID, err)
	}
	return nil
}

// ApplyStatusChanged sets the proposal status, last event wins. A deadline
// extension arrives as active status with the new end block.
func (m *ProposalStateMachine) ApplyStatusChanged(ctx context.Context, ev *domain.ProposalStatusChanged) error {
	proposal, err := m.store.GetProposal(ctx, ev.DaoID, ev.ProposalID)
	if err != nil {
		return fmt.Errorf("failed to get proposal %s/%s: %w", ev.DaoID, ev.ProposalID, err)
	}
	if proposal == nil {
		return fmt.Errorf("%w: lifecycle event %s for unknown proposal %s/%s at %s/%d",
			domain.ErrProposalNotFound, ev.Status, ev.DaoID, ev.ProposalID, ev.TxHash, ev.LogIndex)
	}

	if err := m.store.UpdateProposalStatus(ctx, ev.DaoID, ev.ProposalID, ev.Status, ev.EndBlock); err != nil {
		return fmt.Errorf("failed to update proposal %s/%s status: %w", ev.DaoID, ev.ProposalID, err)
	}
	return nil
}

// ApplyVoteCast upserts the voter's vote and adjusts the proposal tallies.
// When allowChange is set a later vote replaces the voter's prior tally
// contribution; otherwise any second vote from the same voter fails with
// domain.ErrDuplicateEvent, as does replaying the exact same event.
func (m *ProposalStateMachine) ApplyVoteCast(ctx context.Context, ev *domain.VoteCast, allowChange bool) error {
	if ev.VotingPower == nil {
		return fmt.Errorf("%w: vote without voting power", domain.ErrMalformedEvent)
	}

	proposal, err := m.store.GetProposal(ctx, ev.DaoID, ev.ProposalID)
	if err != nil {
		return fmt.Errorf("failed to get proposal %s/%s: %w", ev.DaoID, ev.ProposalID, err)
	}
	if proposal == nil {
		return fmt.Errorf("%w: vote for unknown proposal %s/%s at %s/%d",
			domain.ErrProposalNotFound, ev.DaoID, ev.ProposalID, ev.TxHash, ev.LogIndex)
	}

	existing, err := m.store.GetVote(ctx, ev.DaoID, ev.ProposalID, ev.Voter)
	if err != nil {
		return fmt.Errorf("failed to get vote of %s on %s/%s: %w", ev.Voter, ev.DaoID, ev.ProposalID, err)
	}
	if existing != nil {
		if existing.TxHash == ev.TxHash && existing.LogIndex == ev.LogIndex {
			return fmt.Errorf("%w: vote %s/%d already applied", domain.ErrDuplicateEvent, ev.TxHash, ev.LogIndex)
		}
		if !allowChange {
			return fmt.Errorf("%w: %s already voted on %s/%s", domain.ErrDuplicateEvent, ev.Voter, ev.DaoID, ev.ProposalID)
		}
	}

	tallies, err := loadTallies(proposal)
	if err != nil {
		return err
	}
	if existing != nil {
		power, err := domain.ParseAmount(existing.VotingPower)
		if err != nil {
			return fmt.Errorf("failed to parse stored voting power: %w", err)
		}
		tallies.add(existing.Support, new(big.Int).Neg(power))
	}
	tallies.add(ev.Support, ev.VotingPower)

	vote := &schema.Vote{
		DaoID:       ev.DaoID,
		ProposalID:  ev.ProposalID,
		Voter:       string(ev.Voter),
		Support:     ev.Support,
		VotingPower: ev.VotingPower.String(),
		Reason:      ev.Reason,
		TxHash:      ev.TxHash,
		LogIndex:    ev.LogIndex,
		BlockNumber: ev.BlockNumber,
		Timestamp:   ev.Timestamp,
	}

	if err := m.store.SaveVote(ctx, vote, tallies.forVotes.String(), tallies.againstVotes.String(), tallies.abstainVotes.String()); err != nil {
		return fmt.Errorf("failed to save vote of %s on %s/%s: %w", ev.Voter, ev.DaoID, ev.ProposalID, err)
	}
	return nil
}

type voteTallies struct {
	forVotes     *big.Int
	againstVotes *big.Int
	abstainVotes *big.Int
}

func loadTallies(p *schema.Proposal) (*voteTallies, error) {
	forVotes, err := domain.ParseAmount(p.ForVotes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse for tally: %w", err)
	}
	againstVotes, err := domain.ParseAmount(p.AgainstVotes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse against tally: %w", err)
	}
	abstainVotes, err := domain.ParseAmount(p.AbstainVotes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse abstain tally: %w", err)
	}
	return &voteTallies{forVotes: forVotes, againstVotes: againstVotes, abstainVotes: abstainVotes}, nil
}

func (t *voteTallies) add(support domain.VoteSupport, power *big.Int) {
	switch support {
	case domain.VoteSupportFor:
		t.forVotes.Add(t.forVotes, power)
	case domain.VoteSupportAgainst:
		t.againstVotes.Add(t.againstVotes, power)
	case domain.VoteSupportAbstain:
		t.abstainVotes.Add(t.abstainVotes, power)
	}
}

func jsonColumn(values []string) (datatypes.JSON, error) {
	if values == nil {
		return nil, nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal proposal actions: %w", err)
	}
	return datatypes.JSON(raw), nil
}
