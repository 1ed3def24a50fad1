package store

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/daotrack/governance-indexer/internal/domain"
	"github.com/daotrack/governance-indexer/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to the defaults of
// NormalizeConnectionPoolSettings.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings
// into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// database/sql treats MaxIdleConns above MaxOpenConns as MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

func (s *pgStore) GetLatestBalance(ctx context.Context, daoID domain.DaoID, account domain.Address) (*big.Int, error) {
	var change schema.BalanceChange
	err := s.db.WithContext(ctx).
		Where("dao_id = ? AND account_id = ?", daoID, account).
		Order("timestamp DESC").Order("log_index DESC").
		First(&change).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest balance: %w", err)
	}
	return domain.ParseAmount(change.Balance)
}

func (s *pgStore) AppendTransfer(ctx context.Context, transfer *schema.Transfer, changes []*schema.BalanceChange) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dao_id"}, {Name: "tx_hash"}, {Name: "log_index"}},
			DoNothing: true,
		}).Create(transfer)
		if result.Error != nil {
			return fmt.Errorf("failed to create transfer: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: transfer %s/%d", domain.ErrDuplicateEvent, transfer.TxHash, transfer.LogIndex)
		}

		if len(changes) == 0 {
			return nil
		}
		result = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dao_id"}, {Name: "tx_hash"}, {Name: "log_index"}, {Name: "account_id"}},
			DoNothing: true,
		}).Create(&changes)
		if result.Error != nil {
			return fmt.Errorf("failed to create balance changes: %w", result.Error)
		}
		if result.RowsAffected != int64(len(changes)) {
			return fmt.Errorf("%w: balance change %s/%d", domain.ErrDuplicateEvent, transfer.TxHash, transfer.LogIndex)
		}
		return nil
	})
}

func (s *pgStore) GetLatestVotingPower(ctx context.Context, daoID domain.DaoID, delegate domain.Address) (*big.Int, error) {
	var change schema.VotingPowerChange
	err := s.db.WithContext(ctx).
		Where("dao_id = ? AND delegate_id = ?", daoID, delegate).
		Order("timestamp DESC").Order("log_index DESC").
		First(&change).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest voting power: %w", err)
	}
	return domain.ParseAmount(change.VotingPower)
}

func (s *pgStore) AppendVotingPowerChanges(ctx context.Context, changes []*schema.VotingPowerChange) error {
	if len(changes) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dao_id"}, {Name: "tx_hash"}, {Name: "log_index"}, {Name: "delegate_id"}},
			DoNothing: true,
		}).Create(&changes)
		if result.Error != nil {
			return fmt.Errorf("failed to create voting power changes: %w", result.Error)
		}
		if result.RowsAffected != int64(len(changes)) {
			return fmt.Errorf("%w: voting power change %s/%d", domain.ErrDuplicateEvent, changes[0].TxHash, changes[0].LogIndex)
		}
		return nil
	})
}

func (s *pgStore) UpsertDelegation(ctx context.Context, delegation *schema.Delegation) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "dao_id"}, {Name: "delegator"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"delegate", "delegated_value", "tx_hash", "log_index", "timestamp", "updated_at",
		}),
	}).Create(delegation).Error
	if err != nil {
		return fmt.Errorf("failed to upsert delegation: %w", err)
	}
	return nil
}

func (s *pgStore) GetProposal(ctx context.Context, daoID domain.DaoID, proposalID string) (*schema.Proposal, error) {
	var proposal schema.Proposal
	err := s.db.WithContext(ctx).
		Where("dao_id = ? AND proposal_id = ?", daoID, proposalID).
		First(&proposal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}
	return &proposal, nil
}

func (s *pgStore) CreateProposal(ctx context.Context, proposal *schema.Proposal) error {
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "dao_id"}, {Name: "proposal_id"}},
		DoNothing: true,
	}).Create(proposal)
	if result.Error != nil {
		return fmt.Errorf("failed to create proposal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: proposal %s/%s", domain.ErrDuplicateEvent, proposal.DaoID, proposal.ProposalID)
	}
	return nil
}

func (s *pgStore) UpdateProposalStatus(ctx context.Context, daoID domain.DaoID, proposalID string, status domain.ProposalStatus, endBlock uint64) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if endBlock > 0 {
		updates["end_block"] = endBlock
	}
	err := s.db.WithContext(ctx).Model(&schema.Proposal{}).
		Where("dao_id = ? AND proposal_id = ?", daoID, proposalID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to update proposal status: %w", err)
	}
	return nil
}

func (s *pgStore) GetVote(ctx context.Context, daoID domain.DaoID, proposalID string, voter domain.Address) (*schema.Vote, error) {
	var vote schema.Vote
	err := s.db.WithContext(ctx).
		Where("dao_id = ? AND proposal_id = ? AND voter = ?", daoID, proposalID, voter).
		First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}
	return &vote, nil
}

func (s *pgStore) SaveVote(ctx context.Context, vote *schema.Vote, forVotes, againstVotes, abstainVotes string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "dao_id"}, {Name: "proposal_id"}, {Name: "voter"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"support", "voting_power", "reason", "tx_hash", "log_index", "block_number", "timestamp", "updated_at",
			}),
		}).Create(vote).Error
		if err != nil {
			return fmt.Errorf("failed to save vote: %w", err)
		}

		err = tx.Model(&schema.Proposal{}).
			Where("dao_id = ? AND proposal_id = ?", vote.DaoID, vote.ProposalID).
			Updates(map[string]interface{}{
				"for_votes":     forVotes,
				"against_votes": againstVotes,
				"abstain_votes": abstainVotes,
				"updated_at":    time.Now(),
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update proposal tallies: %w", err)
		}
		return nil
	})
}

func (s *pgStore) GetBalanceHistory(ctx context.Context, filter BalanceHistoryFilter) ([]schema.BalanceChange, uint64, error) {
	query := s.db.WithContext(ctx).Model(&schema.BalanceChange{}).
		Where("dao_id = ? AND account_id = ?", filter.DaoID, filter.Account)

	if filter.FromValue != nil {
		query = query.Where("balance >= ?::numeric", *filter.FromValue)
	}
	if filter.ToValue != nil {
		query = query.Where("balance <= ?::numeric", *filter.ToValue)
	}
	if filter.FromDate != nil {
		query = query.Where("timestamp >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("timestamp <= ?", *filter.ToDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count balance history: %w", err)
	}

	var rows []schema.BalanceChange
	err := query.Order(orderClause(filter.OrderBy, filter.OrderDir)).
		Limit(filter.Limit).Offset(int(filter.Skip)). //nolint:gosec,G115
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get balance history: %w", err)
	}
	return rows, uint64(total), nil //nolint:gosec,G115
}

func (s *pgStore) GetVotingPowerHistory(ctx context.Context, filter VotingPowerHistoryFilter) ([]schema.VotingPowerChange, uint64, error) {
	query := s.db.WithContext(ctx).Model(&schema.VotingPowerChange{}).
		Where("dao_id = ? AND delegate_id = ?", filter.DaoID, filter.Account)

	if filter.MinDelta != nil {
		query = query.Where("delta >= ?::numeric", *filter.MinDelta)
	}
	if filter.MaxDelta != nil {
		query = query.Where("delta <= ?::numeric", *filter.MaxDelta)
	}
	switch {
	case len(filter.FromAddresses) > 0 && len(filter.ToAddresses) > 0:
		query = query.Where(
			"(delta >= 0 AND counterpart_address IN ?) OR (delta < 0 AND counterpart_address IN ?)",
			filter.FromAddresses, filter.ToAddresses)
	case len(filter.FromAddresses) > 0:
		query = query.Where("delta >= 0 AND counterpart_address IN ?", filter.FromAddresses)
	case len(filter.ToAddresses) > 0:
		query = query.Where("delta < 0 AND counterpart_address IN ?", filter.ToAddresses)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count voting power history: %w", err)
	}

	var rows []schema.VotingPowerChange
	err := query.Order(orderClause(filter.OrderBy, filter.OrderDir)).
		Limit(filter.Limit).Offset(int(filter.Skip)). //nolint:gosec,G115
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get voting power history: %w", err)
	}
	return rows, uint64(total), nil //nolint:gosec,G115
}

func (s *pgStore) GetAccountInteractions(ctx context.Context, filter InteractionsFilter) ([]Interaction, uint64, error) {
	since := time.Now().UTC().AddDate(0, 0, -filter.Days)

	// Positive net amount means net outflow from the queried account
	base := `
		SELECT counterpart_address, SUM(net) AS net_amount, COUNT(*) AS transfer_count
		FROM (
			SELECT to_address AS counterpart_address, amount AS net
			FROM transfers
			WHERE dao_id = @dao AND from_address = @account AND timestamp >= @since
			UNION ALL
			SELECT from_address AS counterpart_address, -amount AS net
			FROM transfers
			WHERE dao_id = @dao AND to_address = @account AND timestamp >= @since
		) flows
		WHERE counterpart_address <> @account
		GROUP BY counterpart_address`

	params := map[string]interface{}{
		"dao":     filter.DaoID,
		"account": filter.Account,
		"since":   since,
	}

	var total int64
	countSQL := "SELECT COUNT(*) FROM (" + base + ") grouped"
	if err := s.db.WithContext(ctx).Raw(countSQL, params).Scan(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count interactions: %w", err)
	}

	dir := "DESC"
	if filter.OrderDir == OrderAsc {
		dir = "ASC"
	}
	pageSQL := base + fmt.Sprintf(" ORDER BY SUM(net) %s LIMIT @limit OFFSET @skip", dir)
	params["limit"] = filter.Limit
	params["skip"] = filter.Skip

	var interactions []Interaction
	if err := s.db.WithContext(ctx).Raw(pageSQL, params).Scan(&interactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get interactions: %w", err)
	}
	return interactions, uint64(total), nil //nolint:gosec,G115
}

func (s *pgStore) GetProposals(ctx context.Context, filter ProposalFilter) ([]schema.Proposal, uint64, error) {
	query := s.db.WithContext(ctx).Model(&schema.Proposal{})
	if filter.DaoID != "" {
		query = query.Where("dao_id = ?", filter.DaoID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count proposals: %w", err)
	}

	dir := "DESC"
	if filter.OrderDir == OrderAsc {
		dir = "ASC"
	}
	var proposals []schema.Proposal
	err := query.Order("timestamp " + dir).
		Limit(filter.Limit).Offset(int(filter.Skip)). //nolint:gosec,G115
		Find(&proposals).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get proposals: %w", err)
	}
	return proposals, uint64(total), nil //nolint:gosec,G115
}

func (s *pgStore) GetProposalVotes(ctx context.Context, daoID domain.DaoID, proposalID string, limit int, offset uint64) ([]schema.Vote, uint64, error) {
	query := s.db.WithContext(ctx).Model(&schema.Vote{}).
		Where("dao_id = ? AND proposal_id = ?", daoID, proposalID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count votes: %w", err)
	}

	var votes []schema.Vote
	err := query.Order("voting_power DESC").Order("timestamp ASC").
		Limit(limit).Offset(int(offset)). //nolint:gosec,G115
		Find(&votes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get votes: %w", err)
	}
	return votes, uint64(total), nil //nolint:gosec,G115
}

func (s *pgStore) GetSupplyChanges(ctx context.Context, daoID domain.DaoID) ([]ValuePoint, error) {
	var points []ValuePoint
	err := s.db.WithContext(ctx).Raw(`
		SELECT timestamp, log_index,
			CASE WHEN from_address = @zero THEN amount ELSE -amount END AS delta
		FROM transfers
		WHERE dao_id = @dao AND (from_address = @zero OR to_address = @zero)
		ORDER BY timestamp ASC, log_index ASC`,
		map[string]interface{}{"dao": daoID, "zero": domain.ZERO_ADDRESS},
	).Scan(&points).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get supply changes: %w", err)
	}
	return points, nil
}

func (s *pgStore) GetVotingPowerDeltas(ctx context.Context, daoID domain.DaoID) ([]ValuePoint, error) {
	var points []ValuePoint
	err := s.db.WithContext(ctx).Model(&schema.VotingPowerChange{}).
		Select("timestamp, log_index, delta").
		Where("dao_id = ?", daoID).
		Order("timestamp ASC").Order("log_index ASC").
		Scan(&points).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get voting power deltas: %w", err)
	}
	return points, nil
}

func (s *pgStore) UpsertDayBuckets(ctx context.Context, buckets []*schema.DayBucket) error {
	if len(buckets) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "dao_id"}, {Name: "metric_type"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"open", "close", "high", "low", "average", "volume", "count", "updated_at",
		}),
	}).CreateInBatches(&buckets, 500).Error
	if err != nil {
		return fmt.Errorf("failed to upsert day buckets: %w", err)
	}
	return nil
}

func (s *pgStore) GetDayBuckets(ctx context.Context, daoID domain.DaoID, metricType domain.MetricType, filter DayBucketFilter) ([]schema.DayBucket, bool, error) {
	query := s.db.WithContext(ctx).Model(&schema.DayBucket{}).
		Where("dao_id = ? AND metric_type = ?", daoID, metricType)

	if filter.StartDate != nil {
		query = query.Where("day >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("day <= ?", *filter.EndDate)
	}
	if filter.After != nil {
		query = query.Where("day > ?", *filter.After)
	}
	if filter.Before != nil {
		query = query.Where("day < ?", *filter.Before)
	}

	dir := "ASC"
	if filter.OrderDir == OrderDesc {
		dir = "DESC"
	}

	// Fetch one extra row to detect a following page
	var buckets []schema.DayBucket
	err := query.Order("day " + dir).Limit(filter.Limit + 1).Find(&buckets).Error
	if err != nil {
		return nil, false, fmt.Errorf("failed to get day buckets: %w", err)
	}

	hasNextPage := false
	if filter.Limit > 0 && len(buckets) > filter.Limit {
		hasNextPage = true
		buckets = buckets[:filter.Limit]
	}
	return buckets, hasNextPage, nil
}

func (s *pgStore) GetBlockCursor(ctx context.Context, daoID domain.DaoID) (uint64, error) {
	key := fmt.Sprintf("block_cursor:%s", daoID)

	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}

	blockNumber, err := strconv.ParseUint(kv.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse block cursor: %w", err)
	}
	return blockNumber, nil
}

func (s *pgStore) SetBlockCursor(ctx context.Context, daoID domain.DaoID, blockNumber uint64) error {
	kv := schema.KeyValueStore{
		Key:   fmt.Sprintf("block_cursor:%s", daoID),
		Value: strconv.FormatUint(blockNumber, 10),
	}
	if err := s.db.WithContext(ctx).Save(&kv).Error; err != nil {
		return fmt.Errorf("failed to set block cursor: %w", err)
	}
	return nil
}

// orderClause builds the ORDER BY for history queries; log_index breaks
// timestamp ties so replay order is stable
func orderClause(orderBy string, dir OrderDirection) string {
	column := "timestamp"
	if orderBy == "delta" {
		column = "delta"
	}
	direction := "DESC"
	if dir == OrderAsc {
		direction = "ASC"
	}
	if column == "timestamp" {
		return fmt.Sprintf("timestamp %s, log_index %s", direction, direction)
	}
	return fmt.Sprintf("delta %s, timestamp %s, log_index %s", direction, direction, direction)
}
