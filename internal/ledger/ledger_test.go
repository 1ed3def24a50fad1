package ledger_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daotrack/governance-indexer/internal/domain"
	"github.com/daotrack/governance-indexer/internal/ledger"
	"github.com/daotrack/governance-indexer/internal/store/schema"
)

const (
	addrAlice = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	addrBob   = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	addrCarol = "0xcccccccccccccccccccccccccccccccccccccccc"
)

func ref(logIndex uint64) domain.EventRef {
	return domain.EventRef{
		TxHash:      "0xfeed",
		LogIndex:    logIndex,
		BlockNumber: 100,
		Timestamp:   time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

// fakeBalanceStore keeps running balances in memory and records appended rows
type fakeBalanceStore struct {
	balances  map[string]*big.Int
	transfers []*schema.Transfer
	changes   []*schema.BalanceChange
	appendErr error
}

func newFakeBalanceStore() *fakeBalanceStore {
	return &fakeBalanceStore{balances: make(map[string]*big.Int)}
}

func (s *fakeBalanceStore) GetLatestBalance(_ context.Context, _ domain.DaoID, account domain.Address) (*big.Int, error) {
	b, ok := s.balances[string(account)]
	if !ok {
		return nil, nil
	}
	return new(big.Int).Set(b), nil
}

func (s *fakeBalanceStore) AppendTransfer(_ context.Context, transfer *schema.Transfer, changes []*schema.BalanceChange) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.transfers = append(s.transfers, transfer)
	s.changes = append(s.changes, changes...)
	for _, c := range changes {
		b, _ := new(big.Int).SetString(c.Balance, 10)
		s.balances[c.AccountID] = b
	}
	return nil
}

func TestBalanceLedger_RegularTransferProducesTwoRows(t *testing.T) {
	store := newFakeBalanceStore()
	store.balances[addrAlice] = big.NewInt(1000)
	l := ledger.NewBalanceLedger(store)

	err := l.ApplyTransfer(context.Background(), &domain.TokenTransfer{
		EventRef: ref(3),
		DaoID:    "uni",
		From:     addrAlice,
		To:       addrBob,
		Amount:   big.NewInt(400),
	}, nil)
	require.NoError(t, err)

	require.Len(t, store.changes, 2)
	from, to := store.changes[0], store.changes[1]

	assert.Equal(t, addrAlice, from.AccountID)
	assert.Equal(t, "-400", from.Delta)
	assert.Equal(t, "600", from.Balance)
	assert.Equal(t, addrBob, from.CounterpartAddress)

	assert.Equal(t, addrBob, to.AccountID)
	assert.Equal(t, "400", to.Delta)
	assert.Equal(t, "400", to.Balance)

	// Both rows carry the event's uniqueness key
	assert.Equal(t, from.TxHash, to.TxHash)
	assert.Equal(t, from.LogIndex, to.LogIndex)

	require.Len(t, store.transfers, 1)
	assert.Equal(t, "400", store.transfers[0].Amount)
}

func TestBalanceLedger_MintProducesOneRow(t *testing.T) {
	store := newFakeBalanceStore()
	l := ledger.NewBalanceLedger(store)

	err := l.ApplyTransfer(context.Background(), &domain.TokenTransfer{
		EventRef: ref(1),
		DaoID:    "uni",
		From:     domain.Address(domain.ZERO_ADDRESS),
		To:       addrAlice,
		Amount:   big.NewInt(1000),
	}, nil)
	require.NoError(t, err)

	require.Len(t, store.changes, 1)
	assert.Equal(t, addrAlice, store.changes[0].AccountID)
	assert.Equal(t, "1000", store.changes[0].Delta)
	assert.Empty(t, store.changes[0].CounterpartAddress)
}

func TestBalanceLedger_BurnProducesOneRow(t *testing.T) {
	store := newFakeBalanceStore()
	store.balances[addrAlice] = big.NewInt(1000)
	l := ledger.NewBalanceLedger(store)

	err := l.ApplyTransfer(context.Background(), &domain.TokenTransfer{
		EventRef: ref(2),
		DaoID:    "uni",
		From:     addrAlice,
		To:       domain.Address(domain.ZERO_ADDRESS),
		Amount:   big.NewInt(250),
	}, nil)
	require.NoError(t, err)

	require.Len(t, store.changes, 1)
	assert.Equal(t, "-250", store.changes[0].Delta)
	assert.Equal(t, "750", store.changes[0].Balance)
}

func TestBalanceLedger_NegativeBalanceIsFatal(t *testing.T) {
	store := newFakeBalanceStore()
	store.balances[addrAlice] = big.NewInt(100)
	l := ledger.NewBalanceLedger(store)

	err := l.ApplyTransfer(context.Background(), &domain.TokenTransfer{
		EventRef: ref(4),
		DaoID:    "uni",
		From:     addrAlice,
		To:       addrBob,
		Amount:   big.NewInt(101),
	}, nil)
	assert.ErrorIs(t, err, domain.ErrNegativeBalance)
	assert.Empty(t, store.changes)
}

func TestBalanceLedger_SelfTransferKeepsBalance(t *testing.T) {
	store := newFakeBalanceStore()
	store.balances[addrAlice] = big.NewInt(100)
	l := ledger.NewBalanceLedger(store)

	err := l.ApplyTransfer(context.Background(), &domain.TokenTransfer{
		EventRef: ref(5),
		DaoID:    "uni",
		From:     addrAlice,
		To:       addrAlice,
		Amount:   big.NewInt(40),
	}, nil)
	require.NoError(t, err)

	assert.Empty(t, store.changes)
	assert.Len(t, store.transfers, 1)
	assert.Equal(t, big.NewInt(100), store.balances[addrAlice])
}

func TestBalanceLedger_DuplicateSurfacesFromStore(t *testing.T) {
	store := newFakeBalanceStore()
	store.appendErr = domain.ErrDuplicateEvent
	l := ledger.NewBalanceLedger(store)

	err := l.ApplyTransfer(context.Background(), &domain.TokenTransfer{
		EventRef: ref(6),
		DaoID:    "uni",
		From:     domain.Address(domain.ZERO_ADDRESS),
		To:       addrBob,
		Amount:   big.NewInt(1),
	}, nil)
	assert.ErrorIs(t, err, domain.ErrDuplicateEvent)
}

// fakeVotingPowerStore keeps running voting power in memory
type fakeVotingPowerStore struct {
	powers      map[string]*big.Int
	changes     []*schema.VotingPowerChange
	delegations []*schema.Delegation
}

func newFakeVotingPowerStore() *fakeVotingPowerStore {
	return &fakeVotingPowerStore{powers: make(map[string]*big.Int)}
}

func (s *fakeVotingPowerStore) GetLatestVotingPower(_ context.Context, _ domain.DaoID, delegate domain.Address) (*big.Int, error) {
	p, ok := s.powers[string(delegate)]
	if !ok {
		return nil, nil
	}
	return new(big.Int).Set(p), nil
}

func (s *fakeVotingPowerStore) AppendVotingPowerChanges(_ context.Context, changes []*schema.VotingPowerChange) error {
	s.changes = append(s.changes, changes...)
	for _, c := range changes {
		p, _ := new(big.Int).SetString(c.VotingPower, 10)
		s.powers[c.DelegateID] = p
	}
	return nil
}

func (s *fakeVotingPowerStore) UpsertDelegation(_ context.Context, d *schema.Delegation) error {
	s.delegations = append(s.delegations, d)
	return nil
}

func TestVotingPowerLedger_DelegateVotesChanged(t *testing.T) {
	store := newFakeVotingPowerStore()
	l := ledger.NewVotingPowerLedger(store)

	err := l.ApplyDelegateVotesChanged(context.Background(), &domain.DelegateVotesChanged{
		EventRef: ref(1),
		DaoID:    "uni",
		Delegate: addrAlice,
		Previous: big.NewInt(0),
		New:      big.NewInt(500),
	})
	require.NoError(t, err)

	require.Len(t, store.changes, 1)
	assert.Equal(t, "500", store.changes[0].Delta)
	assert.Equal(t, "500", store.changes[0].VotingPower)

	// Second event continues from the running total
	err = l.ApplyDelegateVotesChanged(context.Background(), &domain.DelegateVotesChanged{
		EventRef: ref(2),
		DaoID:    "uni",
		Delegate: addrAlice,
		Previous: big.NewInt(500),
		New:      big.NewInt(300),
	})
	require.NoError(t, err)

	require.Len(t, store.changes, 2)
	assert.Equal(t, "-200", store.changes[1].Delta)
	assert.Equal(t, "300", store.changes[1].VotingPower)
}

func TestVotingPowerLedger_DivergedHistoryIsFatal(t *testing.T) {
	store := newFakeVotingPowerStore()
	store.powers[addrAlice] = big.NewInt(500)
	l := ledger.NewVotingPowerLedger(store)

	err := l.ApplyDelegateVotesChanged(context.Background(), &domain.DelegateVotesChanged{
		EventRef: ref(3),
		DaoID:    "uni",
		Delegate: addrAlice,
		Previous: big.NewInt(450),
		New:      big.NewInt(700),
	})
	assert.ErrorIs(t, err, domain.ErrLedgerInconsistent)
	assert.Empty(t, store.changes)
}

func TestVotingPowerLedger_FirstEventSeedsFromContractValue(t *testing.T) {
	store := newFakeVotingPowerStore()
	l := ledger.NewVotingPowerLedger(store)

	err := l.ApplyDelegateVotesChanged(context.Background(), &domain.DelegateVotesChanged{
		EventRef: ref(4),
		DaoID:    "uni",
		Delegate: addrBob,
		Previous: big.NewInt(900),
		New:      big.NewInt(1000),
	})
	require.NoError(t, err)

	require.Len(t, store.changes, 1)
	assert.Equal(t, "100", store.changes[0].Delta)
	assert.Equal(t, "1000", store.changes[0].VotingPower)
}

func TestVotingPowerLedger_RedelegationMovesPower(t *testing.T) {
	store := newFakeVotingPowerStore()
	store.powers[addrBob] = big.NewInt(500)
	l := ledger.NewVotingPowerLedger(store)

	err := l.ApplyDelegateChanged(context.Background(), &domain.DelegateChanged{
		EventRef:       ref(5),
		DaoID:          "uni",
		Delegator:      addrAlice,
		FromDelegate:   addrBob,
		ToDelegate:     addrCarol,
		DelegatedValue: big.NewInt(500),
	})
	require.NoError(t, err)

	require.Len(t, store.delegations, 1)
	assert.Equal(t, addrCarol, store.delegations[0].Delegate)

	require.Len(t, store.changes, 2)
	assert.Equal(t, addrBob, store.changes[0].DelegateID)
	assert.Equal(t, "-500", store.changes[0].Delta)
	assert.Equal(t, "0", store.changes[0].VotingPower)
	assert.Equal(t, addrCarol, store.changes[1].DelegateID)
	assert.Equal(t, "500", store.changes[1].VotingPower)
	assert.Equal(t, addrAlice, store.changes[1].CounterpartAddress)
}

func TestVotingPowerLedger_FirstDelegationHasNoFromSide(t *testing.T) {
	store := newFakeVotingPowerStore()
	l := ledger.NewVotingPowerLedger(store)

	err := l.ApplyDelegateChanged(context.Background(), &domain.DelegateChanged{
		EventRef:       ref(6),
		DaoID:          "uni",
		Delegator:      addrAlice,
		FromDelegate:   domain.Address(domain.ZERO_ADDRESS),
		ToDelegate:     addrBob,
		DelegatedValue: big.NewInt(250),
	})
	require.NoError(t, err)

	require.Len(t, store.changes, 1)
	assert.Equal(t, addrBob, store.changes[0].DelegateID)
	assert.Equal(t, "250", store.changes[0].Delta)
}

func TestVotingPowerLedger_DelegateChangedWithoutValueOnlyUpserts(t *testing.T) {
	store := newFakeVotingPowerStore()
	l := ledger.NewVotingPowerLedger(store)

	err := l.ApplyDelegateChanged(context.Background(), &domain.DelegateChanged{
		EventRef:       ref(7),
		DaoID:          "uni",
		Delegator:      addrAlice,
		FromDelegate:   addrBob,
		ToDelegate:     addrCarol,
		DelegatedValue: new(big.Int),
	})
	require.NoError(t, err)

	assert.Len(t, store.delegations, 1)
	assert.Empty(t, store.changes)
}

func TestLedgers_ReplaySameStreamProducesIdenticalRows(t *testing.T) {
	transfers := []*domain.TokenTransfer{
		{EventRef: ref(1), DaoID: "uni", From: domain.Address(domain.ZERO_ADDRESS), To: addrAlice, Amount: big.NewInt(1000)},
		{EventRef: ref(2), DaoID: "uni", From: addrAlice, To: addrBob, Amount: big.NewInt(400)},
		{EventRef: ref(3), DaoID: "uni", From: addrBob, To: addrCarol, Amount: big.NewInt(150)},
		{EventRef: ref(4), DaoID: "uni", From: addrAlice, To: domain.Address(domain.ZERO_ADDRESS), Amount: big.NewInt(100)},
	}
	votesChanged := []*domain.DelegateVotesChanged{
		{EventRef: ref(5), DaoID: "uni", Delegate: addrAlice, Previous: big.NewInt(0), New: big.NewInt(600)},
		{EventRef: ref(6), DaoID: "uni", Delegate: addrBob, Previous: big.NewInt(0), New: big.NewInt(250)},
		{EventRef: ref(7), DaoID: "uni", Delegate: addrAlice, Previous: big.NewInt(600), New: big.NewInt(500)},
	}

	replay := func() (*fakeBalanceStore, *fakeVotingPowerStore) {
		balanceStore := newFakeBalanceStore()
		votingPowerStore := newFakeVotingPowerStore()
		balances := ledger.NewBalanceLedger(balanceStore)
		votingPower := ledger.NewVotingPowerLedger(votingPowerStore)
		for _, ev := range transfers {
			require.NoError(t, balances.ApplyTransfer(context.Background(), ev, nil))
		}
		for _, ev := range votesChanged {
			require.NoError(t, votingPower.ApplyDelegateVotesChanged(context.Background(), ev))
		}
		return balanceStore, votingPowerStore
	}

	// Two fresh ledgers fed the same ordered stream end up with the same rows
	firstBalances, firstPowers := replay()
	secondBalances, secondPowers := replay()

	assert.Equal(t, firstBalances.changes, secondBalances.changes)
	assert.Equal(t, firstBalances.transfers, secondBalances.transfers)
	assert.Equal(t, firstPowers.changes, secondPowers.changes)
}

// fakeProposalStore keeps proposals and votes in memory
type fakeProposalStore struct {
	proposals map[string]*schema.Proposal
	votes     map[string]*schema.Vote
}

func newFakeProposalStore() *fakeProposalStore {
	return &fakeProposalStore{
		proposals: make(map[string]*schema.Proposal),
		votes:     make(map[string]*schema.Vote),
	}
}

func proposalKey(daoID domain.DaoID, proposalID string) string {
	return string(daoID) + "/" + proposalID
}

func (s *fakeProposalStore) GetProposal(_ context.Context, daoID domain.DaoID, proposalID string) (*schema.Proposal, error) {
	return s.proposals[proposalKey(daoID, proposalID)], nil
}

func (s *fakeProposalStore) CreateProposal(_ context.Context, p *schema.Proposal) error {
	key := proposalKey(p.DaoID, p.ProposalID)
	if _, ok := s.proposals[key]; ok {
		return domain.ErrDuplicateEvent
	}
	s.proposals[key] = p
	return nil
}

func (s *fakeProposalStore) UpdateProposalStatus(_ context.Context, daoID domain.DaoID, proposalID string, status domain.ProposalStatus, endBlock uint64) error {
	p := s.proposals[proposalKey(daoID, proposalID)]
	p.Status = status
	if endBlock > 0 {
		p.EndBlock = endBlock
	}
	return nil
}

func (s *fakeProposalStore) GetVote(_ context.Context, daoID domain.DaoID, proposalID string, voter domain.Address) (*schema.Vote, error) {
	return s.votes[proposalKey(daoID, proposalID)+"/"+string(voter)], nil
}

func (s *fakeProposalStore) SaveVote(_ context.Context, vote *schema.Vote, forVotes, againstVotes, abstainVotes string) error {
	s.votes[proposalKey(vote.DaoID, vote.ProposalID)+"/"+vote.Voter] = vote
	p := s.proposals[proposalKey(vote.DaoID, vote.ProposalID)]
	p.ForVotes = forVotes
	p.AgainstVotes = againstVotes
	p.AbstainVotes = abstainVotes
	return nil
}

func createProposal(t *testing.T, m *ledger.ProposalStateMachine) {
	t.Helper()
	require.NoError(t, m.ApplyProposalCreated(context.Background(), &domain.ProposalCreated{
		EventRef:   ref(1),
		DaoID:      "uni",
		ProposalID: "42",
		Proposer:   addrAlice,
		StartBlock: 100,
		EndBlock:   200,
	}))
}

func TestProposalStateMachine_CreateAndTransition(t *testing.T) {
	store := newFakeProposalStore()
	m := ledger.NewProposalStateMachine(store)
	createProposal(t, m)

	p := store.proposals["uni/42"]
	require.NotNil(t, p)
	assert.Equal(t, domain.ProposalStatusActive, p.Status)
	assert.Equal(t, "0", p.ForVotes)

	err := m.ApplyStatusChanged(context.Background(), &domain.ProposalStatusChanged{
		EventRef:   ref(2),
		DaoID:      "uni",
		ProposalID: "42",
		Status:     domain.ProposalStatusQueued,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalStatusQueued, p.Status)
}

func TestProposalStateMachine_ExtensionKeepsActiveWithNewDeadline(t *testing.T) {
	store := newFakeProposalStore()
	m := ledger.NewProposalStateMachine(store)
	createProposal(t, m)

	err := m.ApplyStatusChanged(context.Background(), &domain.ProposalStatusChanged{
		EventRef:   ref(2),
		DaoID:      "uni",
		ProposalID: "42",
		Status:     domain.ProposalStatusActive,
		EndBlock:   250,
	})
	require.NoError(t, err)

	p := store.proposals["uni/42"]
	assert.Equal(t, domain.ProposalStatusActive, p.Status)
	assert.Equal(t, uint64(250), p.EndBlock)
}

func TestProposalStateMachine_UnknownProposalIsConsistencyViolation(t *testing.T) {
	store := newFakeProposalStore()
	m := ledger.NewProposalStateMachine(store)

	err := m.ApplyStatusChanged(context.Background(), &domain.ProposalStatusChanged{
		EventRef:   ref(1),
		DaoID:      "uni",
		ProposalID: "99",
		Status:     domain.ProposalStatusExecuted,
	})
	assert.ErrorIs(t, err, domain.ErrProposalNotFound)
}

func TestProposalStateMachine_VoteTallies(t *testing.T) {
	store := newFakeProposalStore()
	m := ledger.NewProposalStateMachine(store)
	createProposal(t, m)

	err := m.ApplyVoteCast(context.Background(), &domain.VoteCast{
		EventRef:    ref(2),
		DaoID:       "uni",
		Voter:       addrBob,
		ProposalID:  "42",
		Support:     domain.VoteSupportFor,
		VotingPower: big.NewInt(100),
	}, false)
	require.NoError(t, err)

	p := store.proposals["uni/42"]
	assert.Equal(t, "100", p.ForVotes)
	assert.Equal(t, "0", p.AgainstVotes)
}

func TestProposalStateMachine_ChangedVoteReplacesContribution(t *testing.T) {
	store := newFakeProposalStore()
	m := ledger.NewProposalStateMachine(store)
	createProposal(t, m)

	require.NoError(t, m.ApplyVoteCast(context.Background(), &domain.VoteCast{
		EventRef:    ref(2),
		DaoID:       "uni",
		Voter:       addrBob,
		ProposalID:  "42",
		Support:     domain.VoteSupportFor,
		VotingPower: big.NewInt(100),
	}, true))

	// Same voter votes again with a different choice and weight
	require.NoError(t, m.ApplyVoteCast(context.Background(), &domain.VoteCast{
		EventRef:    ref(3),
		DaoID:       "uni",
		Voter:       addrBob,
		ProposalID:  "42",
		Support:     domain.VoteSupportAgainst,
		VotingPower: big.NewInt(80),
	}, true))

	p := store.proposals["uni/42"]
	assert.Equal(t, "0", p.ForVotes)
	assert.Equal(t, "80", p.AgainstVotes)

	vote := store.votes["uni/42/"+addrBob]
	require.NotNil(t, vote)
	assert.Equal(t, domain.VoteSupportAgainst, vote.Support)
}

func TestProposalStateMachine_ReplayedVoteIsDuplicate(t *testing.T) {
	store := newFakeProposalStore()
	m := ledger.NewProposalStateMachine(store)
	createProposal(t, m)

	cast := &domain.VoteCast{
		EventRef:    ref(2),
		DaoID:       "uni",
		Voter:       addrBob,
		ProposalID:  "42",
		Support:     domain.VoteSupportFor,
		VotingPower: big.NewInt(100),
	}
	require.NoError(t, m.ApplyVoteCast(context.Background(), cast, true))

	err := m.ApplyVoteCast(context.Background(), cast, true)
	assert.ErrorIs(t, err, domain.ErrDuplicateEvent)

	// Tally unchanged
	assert.Equal(t, "100", store.proposals["uni/42"].ForVotes)
}

func TestProposalStateMachine_SecondVoteRejectedWhenChangeForbidden(t *testing.T) {
	store := newFakeProposalStore()
	m := ledger.NewProposalStateMachine(store)
	createProposal(t, m)

	require.NoError(t, m.ApplyVoteCast(context.Background(), &domain.VoteCast{
		EventRef:    ref(2),
		DaoID:       "uni",
		Voter:       addrBob,
		ProposalID:  "42",
		Support:     domain.VoteSupportFor,
		VotingPower: big.NewInt(100),
	}, false))

	// A distinct later event from the same voter, not a replay
	err := m.ApplyVoteCast(context.Background(), &domain.VoteCast{
		EventRef:    ref(3),
		DaoID:       "uni",
		Voter:       addrBob,
		ProposalID:  "42",
		Support:     domain.VoteSupportAgainst,
		VotingPower: big.NewInt(80),
	}, false)
	assert.ErrorIs(t, err, domain.ErrDuplicateEvent)

	p := store.proposals["uni/42"]
	assert.Equal(t, "100", p.ForVotes)
	assert.Equal(t, "0", p.AgainstVotes)
	assert.Equal(t, domain.VoteSupportFor, store.votes["uni/42/"+addrBob].Support)
}

func TestProposalStateMachine_VoteForUnknownProposal(t *testing.T) {
	store := newFakeProposalStore()
	m := ledger.NewProposalStateMachine(store)

	err := m.ApplyVoteCast(context.Background(), &domain.VoteCast{
		EventRef:    ref(1),
		DaoID:       "uni",
		Voter:       addrBob,
		ProposalID:  "404",
		Support:     domain.VoteSupportFor,
		VotingPower: big.NewInt(1),
	}, false)
	assert.ErrorIs(t, err, domain.ErrProposalNotFound)
}
