package governor

import (
	"fmt"
	"math/big"

	"github.com/daotrack/governance-indexer/internal/domain"
)

// OffchainGovernor normalizes snapshot-style offchain voting events: proposal
// and vote identifiers are opaque strings, support is a string choice, and
// there is no timelock. Token transfers still arrive from the on-chain token
// contract in the standard shape.
type OffchainGovernor struct {
	params Params
}

func (g *OffchainGovernor) Family() domain.GovernorFamily { return domain.GovernorFamilyOffchain }

func (g *OffchainGovernor) GetQuorum() *big.Int            { return g.params.Quorum }
func (g *OffchainGovernor) GetVotingDelay() uint64         { return g.params.VotingDelay }
func (g *OffchainGovernor) GetVotingPeriod() uint64        { return g.params.VotingPeriod }
func (g *OffchainGovernor) GetProposalThreshold() *big.Int { return g.params.ProposalThreshold }
func (g *OffchainGovernor) GetTimelockDelay() uint64       { return 0 }

// AllowsVoteChange is true; snapshot voters may recast while the proposal is open
func (g *OffchainGovernor) AllowsVoteChange() bool { return true }

func (g *OffchainGovernor) NormalizeEvent(env *domain.EventEnvelope) (domain.CanonicalEvent, error) {
	args, err := decodeArgs(env.Args)
	if err != nil {
		return nil, err
	}

	switch env.EventName {
	case "Transfer":
		return normalizeTransfer(env, args)
	case "DelegateChanged":
		return normalizeDelegateChanged(env, args)
	case "DelegateVotesChanged":
		return normalizeDelegateVotesChanged(env, args)
	case "proposal/created":
		return g.normalizeProposalCreated(env, args)
	case "proposal/closed":
		return g.normalizeProposalClosed(env, args)
	case "vote/created":
		return g.normalizeVoteCreated(env, args)
	default:
		return nil, unknownEvent(g.Family(), env.EventName)
	}
}

func (g *OffchainGovernor) normalizeProposalCreated(env *domain.EventEnvelope, args eventArgs) (domain.CanonicalEvent, error) {
	id, err := args.str("id")
	if err != nil {
		return nil, err
	}
	author, err := args.address("author")
	if err != nil {
		return nil, err
	}
	// Offchain windows are unix timestamps, not blocks; they map onto the same
	// start/end fields since both gate the voting window externally.
	start, err := args.uint64Arg("start")
	if err != nil {
		return nil, err
	}
	end, err := args.uint64Arg("end")
	if err != nil {
		return nil, err
	}
	return &domain.ProposalCreated{
		EventRef:    env.Ref(),
		DaoID:       env.DaoID,
		ProposalID:  id,
		Proposer:    author,
		StartBlock:  start,
		EndBlock:    end,
		Description: args.optStr("body", "title"),
	}, nil
}

func (g *OffchainGovernor) normalizeProposalClosed(env *domain.EventEnvelope, args eventArgs) (domain.CanonicalEvent, error) {
	id, err := args.str("id")
	if err != nil {
		return nil, err
	}
	state, err := args.str("state")
	if err != nil {
		return nil, err
	}

	var status domain.ProposalStatus
	switch state {
	case "passed", "succeeded":
		status = domain.ProposalStatusSucceeded
	case "rejected", "defeated":
		status = domain.ProposalStatusDefeated
	case "canceled", "deleted":
		status = domain.ProposalStatusCanceled
	case "executed":
		status = domain.ProposalStatusExecuted
	default:
		return nil, fmt.Errorf("%w: unexpected proposal state %q", domain.ErrMalformedEvent, state)
	}

	return &domain.ProposalStatusChanged{
		EventRef:   env.Ref(),
		DaoID:      env.DaoID,
		ProposalID: id,
		Status:     status,
	}, nil
}

func (g *OffchainGovernor) normalizeVoteCreated(env *domain.EventEnvelope, args eventArgs) (domain.CanonicalEvent, error) {
	voter, err := args.address("voter")
	if err != nil {
		return nil, err
	}
	proposalID, err := args.str("proposal")
	if err != nil {
		return nil, err
	}
	choice, err := args.str("choice")
	if err != nil {
		return nil, err
	}

	var support domain.VoteSupport
	switch choice {
	case "for", "yes":
		support = domain.VoteSupportFor
	case "against", "no":
		support = domain.VoteSupportAgainst
	case "abstain":
		support = domain.VoteSupportAbstain
	default:
		return nil, fmt.Errorf("%w: unexpected vote choice %q", domain.ErrMalformedEvent, choice)
	}

	vp, err := args.bigInt("vp", "votingPower")
	if err != nil {
		return nil, err
	}

	return &domain.VoteCast{
		EventRef:    env.Ref(),
		DaoID:       env.DaoID,
		Voter:       voter,
		ProposalID:  proposalID,
		Support:     support,
		VotingPower: vp,
		Reason:      args.optStr("reason"),
	}, nil
}
