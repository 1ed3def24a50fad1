package governor

import (
	"fmt"
	"math/big"

	"github.com/daotrack/governance-indexer/internal/domain"
)

// AzoriusGovernor normalizes Safe/Azorius module event shapes: voting windows
// are votingStartBlock/votingEndBlock, vote support is a boolean, and there is
// no separate queued state (the timelock lives in the Safe).
type AzoriusGovernor struct {
	params Params
}

func (g *AzoriusGovernor) Family() domain.GovernorFamily { return domain.GovernorFamilyAzorius }

func (g *AzoriusGovernor) GetQuorum() *big.Int            { return g.params.Quorum }
func (g *AzoriusGovernor) GetVotingDelay() uint64         { return g.params.VotingDelay }
func (g *AzoriusGovernor) GetVotingPeriod() uint64        { return g.params.VotingPeriod }
func (g *AzoriusGovernor) GetProposalThreshold() *big.Int { return g.params.ProposalThreshold }
func (g *AzoriusGovernor) GetTimelockDelay() uint64       { return g.params.TimelockDelay }

// AllowsVoteChange is false; the Azorius voting strategy marks the voter as having voted
func (g *AzoriusGovernor) AllowsVoteChange() bool { return false }

func (g *AzoriusGovernor) NormalizeEvent(env *domain.EventEnvelope) (domain.CanonicalEvent, error) {
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
	case "Voted":
		return g.normalizeVoted(env, args)
	case "ProposalCreated":
		return g.normalizeProposalCreated(env, args)
	case "ProposalExecuted":
		return statusChanged(env, args, domain.ProposalStatusExecuted, "proposalId")
	case "ProposalCanceled":
		return statusChanged(env, args, domain.ProposalStatusCanceled, "proposalId")
	default:
		return nil, unknownEvent(g.Family(), env.EventName)
	}
}

// normalizeVoted maps the boolean support variant: support=true is a for vote,
// support=false against. An explicit abstain flag wins over support.
func (g *AzoriusGovernor) normalizeVoted(env *domain.EventEnvelope, args eventArgs) (domain.CanonicalEvent, error) {
	voter, err := args.address("voter")
	if err != nil {
		return nil, err
	}
	proposalID, err := args.bigInt("proposalId")
	if err != nil {
		return nil, err
	}
	weight, err := args.bigInt("weight", "votes")
	if err != nil {
		return nil, err
	}

	support := domain.VoteSupportAgainst
	if abstain, ok := args["abstain"].(bool); ok && abstain {
		support = domain.VoteSupportAbstain
	} else {
		raw, ok := args["support"]
		if !ok {
			return nil, fmt.Errorf("%w: missing field support", domain.ErrMalformedEvent)
		}
		flag, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: field support is not a boolean", domain.ErrMalformedEvent)
		}
		if flag {
			support = domain.VoteSupportFor
		}
	}

	return &domain.VoteCast{
		EventRef:    env.Ref(),
		DaoID:       env.DaoID,
		Voter:       voter,
		ProposalID:  proposalID.String(),
		Support:     support,
		VotingPower: weight,
		Reason:      args.optStr("reason"),
	}, nil
}

func (g *AzoriusGovernor) normalizeProposalCreated(env *domain.EventEnvelope, args eventArgs) (domain.CanonicalEvent, error) {
	proposalID, err := args.bigInt("proposalId")
	if err != nil {
		return nil, err
	}
	proposer, err := args.address("proposer")
	if err != nil {
		return nil, err
	}
	startBlock, err := args.uint64Arg("votingStartBlock")
	if err != nil {
		return nil, err
	}
	endBlock, err := args.uint64Arg("votingEndBlock")
	if err != nil {
		return nil, err
	}
	// Azorius carries transactions through the strategy; targets are optional
	targets, _ := args.strSlice("targets")
	values, _ := args.strSlice("values")
	calldatas, _ := args.strSlice("calldatas")

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
		Description: args.optStr("metadata", "description"),
	}, nil
}
