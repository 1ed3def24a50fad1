package governor

import (
	"fmt"
	"math/big"

	"github.com/daotrack/governance-indexer/internal/domain"
)

// NounsGovernor normalizes Nouns-style governor event shapes: proposals use
// id/startBlock/endBlock field names, vetoes are treated as cancellations, and
// objection periods extend the voting deadline.
type NounsGovernor struct {
	params Params
}

func (g *NounsGovernor) Family() domain.GovernorFamily { return domain.GovernorFamilyNouns }

func (g *NounsGovernor) GetQuorum() *big.Int            { return g.params.Quorum }
func (g *NounsGovernor) GetVotingDelay() uint64         { return g.params.VotingDelay }
func (g *NounsGovernor) GetVotingPeriod() uint64        { return g.params.VotingPeriod }
func (g *NounsGovernor) GetProposalThreshold() *big.Int { return g.params.ProposalThreshold }
func (g *NounsGovernor) GetTimelockDelay() uint64       { return g.params.TimelockDelay }

// AllowsVoteChange is false; NounsDAOLogic rejects a second vote from the same voter
func (g *NounsGovernor) AllowsVoteChange() bool { return false }

func (g *NounsGovernor) NormalizeEvent(env *domain.EventEnvelope) (domain.CanonicalEvent, error) {
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
	case "VoteCast":
		return g.normalizeVoteCast(env, args)
	case "ProposalCreated", "ProposalCreatedWithRequirements":
		return g.normalizeProposalCreated(env, args)
	case "ProposalQueued":
		return statusChanged(env, args, domain.ProposalStatusQueued, "id", "proposalId")
	case "ProposalExecuted":
		return statusChanged(env, args, domain.ProposalStatusExecuted, "id", "proposalId")
	case "ProposalCanceled", "ProposalVetoed":
		return statusChanged(env, args, domain.ProposalStatusCanceled, "id", "proposalId")
	case "ProposalObjectionPeriodSet":
		return g.normalizeObjectionPeriod(env, args)
	default:
		return nil, unknownEvent(g.Family(), env.EventName)
	}
}

func (g *NounsGovernor) normalizeVoteCast(env *domain.EventEnvelope, args eventArgs) (domain.CanonicalEvent, error) {
	voter, err := args.address("voter")
	if err != nil {
		return nil, err
	}
	proposalID, err := args.bigInt("proposalId", "id")
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
	votes, err := args.bigInt("votes", "weight")
	if err != nil {
		return nil, err
	}
	return &domain.VoteCast{
		EventRef:    env.Ref(),
		DaoID:       env.DaoID,
		Voter:       voter,
		ProposalID:  proposalID.String(),
		Support:     domain.VoteSupport(support),
		VotingPower: votes,
		Reason:      args.optStr("reason"),
	}, nil
}

func (g *NounsGovernor) normalizeProposalCreated(env *domain.EventEnvelope, args eventArgs) (domain.CanonicalEvent, error) {
	proposalID, err := args.bigInt("id", "proposalId")
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
	startBlock, err := args.uint64Arg("startBlock")
	if err != nil {
		return nil, err
	}
	endBlock, err := args.uint64Arg("endBlock")
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

// normalizeObjectionPeriod maps an objection-period extension to an
// active-status event carrying the new end block
func (g *NounsGovernor) normalizeObjectionPeriod(env *domain.EventEnvelope, args eventArgs) (domain.CanonicalEvent, error) {
	id, err := args.bigInt("id", "proposalId")
	if err != nil {
		return nil, err
	}
	endBlock, err := args.uint64Arg("objectionPeriodEndBlock")
	if err != nil {
		return nil, err
	}
	return &domain.ProposalStatusChanged{
		EventRef:   env.Ref(),
		DaoID:      env.DaoID,
		ProposalID: id.String(),
		Status:     domain.ProposalStatusActive,
		EndBlock:   endBlock,
	}, nil
}
