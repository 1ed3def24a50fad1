package store

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/daotrack/governance-indexer/internal/domain"
	"github.com/daotrack/governance-indexer/internal/store/schema"
)

var (
	testDB      *gorm.DB
	pgContainer *postgres.PostgresContainer
)

// TestMain sets up the test database before running tests
func TestMain(m *testing.M) {
	ctx := context.Background()

	// Check if we should use an external database (for CI or local development)
	dbHost := os.Getenv("TEST_DB_HOST")
	dbPort := os.Getenv("TEST_DB_PORT")
	dbUser := os.Getenv("TEST_DB_USER")
	dbPassword := os.Getenv("TEST_DB_PASSWORD")
	dbName := os.Getenv("TEST_DB_NAME")

	var dsn string
	var err error

	if dbHost != "" {
		if dbPort == "" {
			dbPort = "5432"
		}
		if dbUser == "" {
			dbUser = "postgres"
		}
		if dbPassword == "" {
			dbPassword = "postgres"
		}
		if dbName == "" {
			dbName = "test_db"
		}

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort, dbUser, dbPassword, dbName)

		fmt.Printf("Using external database: %s:%s/%s\n", dbHost, dbPort, dbName)
	} else {
		pgContainer, err = postgres.Run(ctx,
			"postgres:18-alpine",
			postgres.WithDatabase("test_db"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			fmt.Printf("Failed to start PostgreSQL container: %v\n", err)
			os.Exit(1)
		}

		dsn, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Printf("Failed to get connection string: %v\n", err)
			_ = pgContainer.Terminate(ctx)
			os.Exit(1)
		}
	}

	testDB, err = gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		if pgContainer != nil {
			_ = pgContainer.Terminate(ctx)
		}
		os.Exit(1)
	}

	if err := testDB.AutoMigrate(
		&schema.Transfer{},
		&schema.BalanceChange{},
		&schema.VotingPowerChange{},
		&schema.Delegation{},
		&schema.Proposal{},
		&schema.Vote{},
		&schema.DayBucket{},
		&schema.KeyValueStore{},
	); err != nil {
		fmt.Printf("Failed to migrate schema: %v\n", err)
		if pgContainer != nil {
			_ = pgContainer.Terminate(ctx)
		}
		os.Exit(1)
	}

	code := m.Run()

	if pgContainer != nil {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
		}
	}

	os.Exit(code)
}

// initPGTestDB creates a store on a transaction rolled back after the test.
// The transaction is returned alongside so tests can inspect rows directly.
func initPGTestDB(t *testing.T) (Store, *gorm.DB) {
	tx := testDB.Begin()
	require.NotNil(t, tx)
	require.NoError(t, tx.Error)

	t.Cleanup(func() {
		tx.Rollback()
	})

	return NewPGStore(tx), tx
}

const (
	testDao   = domain.DaoID("uni")
	testAlice = domain.Address("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	testBob   = domain.Address("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
)

// assertNumericEqual compares decimal strings by value, since postgres echoes
// numeric columns with their full scale
func assertNumericEqual(t *testing.T, expected, actual string) {
	t.Helper()
	want, _, err := big.ParseFloat(expected, 10, 256, big.ToNearestEven)
	require.NoError(t, err)
	got, _, err := big.ParseFloat(actual, 10, 256, big.ToNearestEven)
	require.NoError(t, err)
	assert.Zero(t, want.Cmp(got), "expected %s, got %s", expected, actual)
}

func testTransfer(txHash string, logIndex uint64, from, to domain.Address, amount string, ts time.Time) *schema.Transfer {
	return &schema.Transfer{
		DaoID:       testDao,
		TokenID:     "0xcccccccccccccccccccccccccccccccccccccccc",
		FromAddress: string(from),
		ToAddress:   string(to),
		Amount:      amount,
		TxHash:      txHash,
		LogIndex:    logIndex,
		BlockNumber: 100,
		Timestamp:   ts,
	}
}

func testBalanceChange(txHash string, logIndex uint64, account domain.Address, delta, balance string, ts time.Time) *schema.BalanceChange {
	return &schema.BalanceChange{
		DaoID:       testDao,
		AccountID:   string(account),
		Delta:       delta,
		Balance:     balance,
		TxHash:      txHash,
		LogIndex:    logIndex,
		BlockNumber: 100,
		Timestamp:   ts,
	}
}

func TestAppendTransferAndLatestBalance(t *testing.T) {
	s, _ := initPGTestDB(t)
	ctx := context.Background()
	ts := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	err := s.AppendTransfer(ctx,
		testTransfer("0x01", 1, testAlice, testBob, "400", ts),
		[]*schema.BalanceChange{
			testBalanceChange("0x01", 1, testAlice, "-400", "600", ts),
			testBalanceChange("0x01", 1, testBob, "400", "400", ts),
		})
	require.NoError(t, err)

	balance, err := s.GetLatestBalance(ctx, testDao, testBob)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(400), balance)

	// Unknown account has no history
	balance, err = s.GetLatestBalance(ctx, testDao, "0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.Nil(t, balance)
}

func TestAppendTransferDuplicate(t *testing.T) {
	s, _ := initPGTestDB(t)
	ctx := context.Background()
	ts := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	transfer := testTransfer("0x02", 5, testAlice, testBob, "10", ts)
	require.NoError(t, s.AppendTransfer(ctx, transfer, nil))

	replay := testTransfer("0x02", 5, testAlice, testBob, "10", ts)
	err := s.AppendTransfer(ctx, replay, nil)
	assert.ErrorIs(t, err, domain.ErrDuplicateEvent)
}

func TestGetBalanceHistoryFilters(t *testing.T) {
	s, _ := initPGTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		ts := base.AddDate(0, 0, i)
		balance := fmt.Sprintf("%d", (i+1)*100)
		err := s.AppendTransfer(ctx,
			testTransfer(fmt.Sprintf("0x1%d", i), uint64(i), testBob, testAlice, "100", ts),
			[]*schema.BalanceChange{
				testBalanceChange(fmt.Sprintf("0x1%d", i), uint64(i), testAlice, "100", balance, ts),
			})
		require.NoError(t, err)
	}

	rows, total, err := s.GetBalanceHistory(ctx, BalanceHistoryFilter{
		DaoID:    testDao,
		Account:  testAlice,
		OrderBy:  "timestamp",
		OrderDir: OrderAsc,
		Limit:    2,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), total)
	require.Len(t, rows, 2)
	assert.Equal(t, "100", rows[0].Balance)

	// Value range filter on the running balance
	from, to := "200", "400"
	rows, total, err = s.GetBalanceHistory(ctx, BalanceHistoryFilter{
		DaoID:     testDao,
		Account:   testAlice,
		FromValue: &from,
		ToValue:   &to,
		OrderBy:   "timestamp",
		OrderDir:  OrderAsc,
		Limit:     10,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	require.Len(t, rows, 3)

	// Date range filter
	fromDate := base.AddDate(0, 0, 3)
	rows, _, err = s.GetBalanceHistory(ctx, BalanceHistoryFilter{
		DaoID:    testDao,
		Account:  testAlice,
		FromDate: &fromDate,
		OrderBy:  "timestamp",
		OrderDir: OrderDesc,
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "500", rows[0].Balance)
}

func TestVotingPowerHistory(t *testing.T) {
	s, _ := initPGTestDB(t)
	ctx := context.Background()
	ts := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	changes := []*schema.VotingPowerChange{
		{DaoID: testDao, DelegateID: string(testAlice), Delta: "500", VotingPower: "500",
			CounterpartAddress: string(testBob), TxHash: "0x20", LogIndex: 1, BlockNumber: 100, Timestamp: ts},
		{DaoID: testDao, DelegateID: string(testAlice), Delta: "-200", VotingPower: "300",
			CounterpartAddress: string(testBob), TxHash: "0x21", LogIndex: 2, BlockNumber: 101, Timestamp: ts.Add(time.Hour)},
	}
	require.NoError(t, s.AppendVotingPowerChanges(ctx, changes))

	power, err := s.GetLatestVotingPower(ctx, testDao, testAlice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(300), power)

	minDelta := "0"
	rows, total, err := s.GetVotingPowerHistory(ctx, VotingPowerHistoryFilter{
		DaoID:    testDao,
		Account:  testAlice,
		MinDelta: &minDelta,
		OrderBy:  "timestamp",
		OrderDir: OrderAsc,
		Limit:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "500", rows[0].Delta)

	// Replaying the same changes is a duplicate
	err = s.AppendVotingPowerChanges(ctx, []*schema.VotingPowerChange{changes[0]})
	assert.ErrorIs(t, err, domain.ErrDuplicateEvent)
}

func TestUpsertDelegation(t *testing.T) {
	s, tx := initPGTestDB(t)
	ctx := context.Background()
	ts := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpsertDelegation(ctx, &schema.Delegation{
		DaoID: testDao, Delegator: string(testAlice), Delegate: string(testBob),
		DelegatedValue: "100", TxHash: "0x30", LogIndex: 1, Timestamp: ts,
	}))

	// Re-delegation overwrites the row
	require.NoError(t, s.UpsertDelegation(ctx, &schema.Delegation{
		DaoID: testDao, Delegator: string(testAlice), Delegate: "0xdddddddddddddddddddddddddddddddddddddddd",
		DelegatedValue: "100", TxHash: "0x31", LogIndex: 2, Timestamp: ts.Add(time.Hour),
	}))

	var delegations []schema.Delegation
	require.NoError(t, tx.Where("dao_id = ? AND delegator = ?", testDao, testAlice).Find(&delegations).Error)
	require.Len(t, delegations, 1)
	assert.Equal(t, "0xdddddddddddddddddddddddddddddddddddddddd", delegations[0].Delegate)
	assert.Equal(t, "0x31", delegations[0].TxHash)
}

func TestProposalLifecycle(t *testing.T) {
	s, _ := initPGTestDB(t)
	ctx := context.Background()
	ts := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	proposal := &schema.Proposal{
		DaoID: testDao, ProposalID: "42", Proposer: string(testAlice),
		Status: domain.ProposalStatusActive, StartBlock: 100, EndBlock: 200,
		ForVotes: "0", AgainstVotes: "0", AbstainVotes: "0",
		TxHash: "0x40", LogIndex: 1, Timestamp: ts,
	}
	require.NoError(t, s.CreateProposal(ctx, proposal))

	// Duplicate creation is rejected
	err := s.CreateProposal(ctx, &schema.Proposal{
		DaoID: testDao, ProposalID: "42", Proposer: string(testAlice),
		Status: domain.ProposalStatusActive,
		ForVotes: "0", AgainstVotes: "0", AbstainVotes: "0",
		TxHash: "0x40", LogIndex: 1, Timestamp: ts,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateEvent)

	// Status transition with a deadline extension
	require.NoError(t, s.UpdateProposalStatus(ctx, testDao, "42", domain.ProposalStatusActive, 250))
	got, err := s.GetProposal(ctx, testDao, "42")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint64(250), got.EndBlock)

	// Terminal transition keeps the end block
	require.NoError(t, s.UpdateProposalStatus(ctx, testDao, "42", domain.ProposalStatusExecuted, 0))
	got, err = s.GetProposal(ctx, testDao, "42")
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalStatusExecuted, got.Status)
	assert.Equal(t, uint64(250), got.EndBlock)

	// Unknown proposal reads as nil
	got, err = s.GetProposal(ctx, testDao, "404")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveVoteUpdatesTallies(t *testing.T) {
	s, _ := initPGTestDB(t)
	ctx := context.Background()
	ts := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateProposal(ctx, &schema.Proposal{
		DaoID: testDao, ProposalID: "7", Proposer: string(testAlice),
		Status: domain.ProposalStatusActive,
		ForVotes: "0", AgainstVotes: "0", AbstainVotes: "0",
		TxHash: "0x50", LogIndex: 1, Timestamp: ts,
	}))

	vote := &schema.Vote{
		DaoID: testDao, ProposalID: "7", Voter: string(testBob),
		Support: domain.VoteSupportFor, VotingPower: "100",
		TxHash: "0x51", LogIndex: 2, BlockNumber: 101, Timestamp: ts,
	}
	require.NoError(t, s.SaveVote(ctx, vote, "100", "0", "0"))

	got, err := s.GetVote(ctx, testDao, "7", testBob)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.VoteSupportFor, got.Support)

	// Vote change overwrites the row and the tallies
	changed := &schema.Vote{
		DaoID: testDao, ProposalID: "7", Voter: string(testBob),
		Support: domain.VoteSupportAgainst, VotingPower: "80",
		TxHash: "0x52", LogIndex: 3, BlockNumber: 102, Timestamp: ts.Add(time.Hour),
	}
	require.NoError(t, s.SaveVote(ctx, changed, "0", "80", "0"))

	proposal, err := s.GetProposal(ctx, testDao, "7")
	require.NoError(t, err)
	assert.Equal(t, "0", proposal.ForVotes)
	assert.Equal(t, "80", proposal.AgainstVotes)

	votes, total, err := s.GetProposalVotes(ctx, testDao, "7", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, votes, 1)
	assert.Equal(t, "80", votes[0].VotingPower)
}

func TestGetAccountInteractions(t *testing.T) {
	s, _ := initPGTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// Alice sends 300 to Bob and receives 100 back: net outflow 200
	require.NoError(t, s.AppendTransfer(ctx, testTransfer("0x60", 1, testAlice, testBob, "300", now.AddDate(0, 0, -2)), nil))
	require.NoError(t, s.AppendTransfer(ctx, testTransfer("0x61", 2, testBob, testAlice, "100", now.AddDate(0, 0, -1)), nil))
	// Outside the window
	require.NoError(t, s.AppendTransfer(ctx, testTransfer("0x62", 3, testAlice, testBob, "999", now.AddDate(0, 0, -30)), nil))

	interactions, total, err := s.GetAccountInteractions(ctx, InteractionsFilter{
		DaoID:    testDao,
		Account:  testAlice,
		Days:     7,
		OrderDir: OrderDesc,
		Limit:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, interactions, 1)
	assert.Equal(t, string(testBob), interactions[0].CounterpartAddress)
	assert.Equal(t, "200", interactions[0].NetAmount)
	assert.Equal(t, uint64(2), interactions[0].TransferCount)
}

func TestDayBucketsUpsertAndPagination(t *testing.T) {
	s, _ := initPGTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	var buckets []*schema.DayBucket
	for i := 0; i < 5; i++ {
		buckets = append(buckets, &schema.DayBucket{
			DaoID: testDao, MetricType: domain.MetricTypeDelegationPercentage,
			Day:  base.AddDate(0, 0, i),
			Open: "10", Close: "12", High: "15", Low: "9", Average: "11", Volume: "30", Count: 3,
		})
	}
	require.NoError(t, s.UpsertDayBuckets(ctx, buckets))

	// Rebuild overwrites in place
	buckets[0].Close = "13"
	require.NoError(t, s.UpsertDayBuckets(ctx, buckets[:1]))

	got, hasNext, err := s.GetDayBuckets(ctx, testDao, domain.MetricTypeDelegationPercentage, DayBucketFilter{
		OrderDir: OrderAsc,
		Limit:    3,
	})
	require.NoError(t, err)
	assert.True(t, hasNext)
	require.Len(t, got, 3)
	assertNumericEqual(t, "13", got[0].Close)

	// Cursor moves past the first page
	after := got[len(got)-1].Day
	got, hasNext, err = s.GetDayBuckets(ctx, testDao, domain.MetricTypeDelegationPercentage, DayBucketFilter{
		After:    &after,
		OrderDir: OrderAsc,
		Limit:    3,
	})
	require.NoError(t, err)
	assert.False(t, hasNext)
	assert.Len(t, got, 2)
}

func TestBlockCursor(t *testing.T) {
	s, _ := initPGTestDB(t)
	ctx := context.Background()

	cursor, err := s.GetBlockCursor(ctx, testDao)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cursor)

	require.NoError(t, s.SetBlockCursor(ctx, testDao, 19000000))
	require.NoError(t, s.SetBlockCursor(ctx, testDao, 19000050))

	cursor, err = s.GetBlockCursor(ctx, testDao)
	require.NoError(t, err)
	assert.Equal(t, uint64(19000050), cursor)
}
