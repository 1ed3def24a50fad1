package governor

import (
	"fmt"
	"math/big"

	"github.com/daotrack/governance-indexer/internal/domain"
)

// StandardGovernor normalizes OpenZeppelin Governor + ERC20Votes event shapes.
// Vote support is an integer (0=against, 1=for, 2=abstain).
type StandardGovernor struct {
	params Params
}

func (g *StandardGovernor) Family() domain.GovernorFamily { return domain.GovernorFamilyStandard }

func (g *StandardGovernor) GetQuorum() *big.Int            { return g.params.Quorum }
func (g *StandardGovernor) GetVotingDelay() uint64         { return g.params.VotingDelay }
func (g *StandardGovernor) GetVotingPeriod() uint64        { return g.params.VotingPeriod }
func (g *StandardGovernor) GetProposalThreshold() *big.Int { return g.params.ProposalThreshold }
func (g *StandardGovernor) GetTimelockDelay() uint64       { return g.params.TimelockDelay }

// AllowsVoteChange is false; the OZ Governor counting module reverts on a second castVote
func (g *StandardGovernor) AllowsVoteChange() bool { return false }

func (g *StandardGovernor) NormalizeEvent(env *domain.EventEnvelope) (domain.CanonicalEvent, error) {
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
	case "VoteCast", "VoteCastWithParams":
		return g.normalizeVoteCast(env, args)
	case "ProposalCreated":
		return g.normalizeProposalCreated(env, args)
	case "ProposalQueued":
		return statusChanged(env, args, domain.ProposalStatusQueued, "proposalId")
	case "ProposalExecuted":
		return statusChanged(env, args, domain.ProposalStatusExecuted, "proposalId")
	case "ProposalCanceled":
		return statusChanged(env, args, domain.ProposalStatusCanceled, "proposalId")
	case "ProposalExtended":
		return g.normalizeProposalExtended(env, args)
	default:
		return nil, unknownEvent(g.Family(), env.EventName)
	}
}

func (g *StandardGovernor) normalizeVoteCast(env *domain.EventEnvelope, args eventArgs) (domain.CanonicalEvent, error) {
	voter, err := args.address("voter")
	if err != nil {
		return nil, err
	}
	proposalID, err := args.bigInt("proposalId")
	if err != nil {
		return nil, err
	}
	support, err := args.uint64Arg("support")
	if err != nil {
		return nil, err
	}
	if support > uint64(domain.VoteSupportAbstain) {
		return nil, fmt.Errorf("%w: unexpected support value %d", domain.ErrMalformedEvent, support)
	}
	weight, err := args.bigInt("weight", "votes")
	if err != nil {
		return nil, err
	}
	return &domain.VoteCast{
		EventRef:    env.Ref(),
		DaoID:       env.DaoID,
		Voter:       voter,
		ProposalID:  proposalID.String(),
		Support:     domain.VoteSupport(support),
		VotingPower: weight,
		Reason:      args.optStr("reason"),
	}, nil
}

func (g *StandardGovernor) normalizeProposalCreated(env *domain.EventEnvelope, args eventArgs) (domain.CanonicalEvent, error) {
	proposalID, err := args.bigInt("proposalId")
	if err != nil {
		return nil, err
	}
	proposer, err := args.address("proposer")
	if err != nil {
		return nil, err
	}
	targets, err := args.strSlice("targets")
	if err != nil {
		return nil, err
	}
	values, err := args.strSlice("values")
	if err != nil {
		return nil, err
	}
	calldatas, err := args.strSlice("calldatas")
	if err != nil {
		return nil, err
	}
	startBlock, err := args.uint64Arg("voteStart", "startBlock")
	if err != nil {
		return nil, err
	}
	endBlock, err := args.uint64Arg("voteEnd", "endBlock")
	if err != nil {
		return nil, err
	}
	return &domain.ProposalCreated{
		EventRef:    env.Ref(),
		DaoID:       env.DaoID,
		ProposalID:  proposalID.String(),
		Proposer:    proposer,
		Targets:     targets,
		Values:      values,
		Calldatas:   calldatas,
		StartBlock:  startBlock,
		EndBlock:    endBlock,
		Description: args.optStr("description"),
	}, nil
}

// normalizeProposalExtended keeps the proposal active with a pushed-out deadline
func (g *StandardGovernor) normalizeProposalExtended(env *domain.EventEnvelope, args eventArgs) (domain.CanonicalEvent, error) {
	id, err := args.bigInt("proposalId")
	if err != nil {
		return nil, err
	}
	deadline, err := args.uint64Arg("extendedDeadline")
	if err != nil {
		return nil, err
	}
	return &domain.ProposalStatusChanged{
		EventRef:   env.Ref(),
		DaoID:      env.DaoID,
		ProposalID: id.String(),
		Status:     domain.ProposalStatusActive,
		EndBlock:   deadline,
	}, nil
}
