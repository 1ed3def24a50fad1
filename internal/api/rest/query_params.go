package rest

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/daotrack/governance-indexer/internal/domain"
	"github.com/daotrack/governance-indexer/internal/store"
)

const MAX_PAGE_SIZE = 100

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

func (o Order) Desc() bool {
	return o == OrderDesc
}

func (o Order) Asc() bool {
	return o == OrderAsc
}

// Direction maps the parsed order onto the store's sort direction
func (o Order) Direction() store.OrderDirection {
	if o.Desc() {
		return store.OrderDesc
	}
	return store.OrderAsc
}

// HistoricalBalancesQueryParams holds query parameters for
// GET /accounts/:address/balances/historical
type HistoricalBalancesQueryParams struct {
	Dao string `form:"dao"`

	// Filters
	FromValue *string    `form:"fromValue"`
	ToValue   *string    `form:"toValue"`
	FromDate  *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate    *time.Time `form:"toDate" time_format:"2006-01-02"`

	// Ordering and pagination
	OrderBy        string `form:"orderBy,default=timestamp"`
	OrderDirection Order  `form:"orderDirection,default=asc"`
	Skip           uint64 `form:"skip,default=0"`
	Limit          int    `form:"limit,default=20"`
}

// ParseHistoricalBalancesQuery parses query parameters for GET /accounts/:address/balances/historical
func ParseHistoricalBalancesQuery(c *gin.Context) (*HistoricalBalancesQueryParams, error) {
	var params HistoricalBalancesQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Dao == "" {
		return nil, fmt.Errorf("dao is required")
	}
	if params.OrderBy != "timestamp" && params.OrderBy != "delta" {
		return nil, fmt.Errorf("orderBy must be timestamp or delta")
	}

	// Cap limit
	if params.Limit > MAX_PAGE_SIZE {
		params.Limit = MAX_PAGE_SIZE
	}

	// Validate order
	if !params.OrderDirection.Asc() && !params.OrderDirection.Desc() {
		params.OrderDirection = OrderAsc
	}

	return &params, nil
}

// Filter converts the parsed parameters to a store filter
func (p *HistoricalBalancesQueryParams) Filter(account domain.Address) store.BalanceHistoryFilter {
	return store.BalanceHistoryFilter{
		DaoID:     domain.DaoID(p.Dao),
		Account:   account,
		FromValue: p.FromValue,
		ToValue:   p.ToValue,
		FromDate:  p.FromDate,
		ToDate:    p.ToDate,
		OrderBy:   p.OrderBy,
		OrderDir:  p.OrderDirection.Direction(),
		Skip:      p.Skip,
		Limit:     p.Limit,
	}
}

// VotingPowerQueryParams holds query parameters for
// GET /accounts/:address/voting-power/historical
type VotingPowerQueryParams struct {
	Dao string `form:"dao"`

	// Filters
	MinDelta      *string  `form:"minDelta"`
	MaxDelta      *string  `form:"maxDelta"`
	FromAddresses []string `form:"fromAddresses"`
	ToAddresses   []string `form:"toAddresses"`

	// Ordering and pagination
	OrderBy        string `form:"orderBy,default=timestamp"`
	OrderDirection Order  `form:"orderDirection,default=asc"`
	Skip           uint64 `form:"skip,default=0"`
	Limit          int    `form:"limit,default=20"`
}

// ParseVotingPowerQuery parses query parameters for GET /accounts/:address/voting-power/historical
func ParseVotingPowerQuery(c *gin.Context) (*VotingPowerQueryParams, error) {
	var params VotingPowerQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Dao == "" {
		return nil, fmt.Errorf("dao is required")
	}
	if params.OrderBy != "timestamp" && params.OrderBy != "delta" {
		return nil, fmt.Errorf("orderBy must be timestamp or delta")
	}

	// Normalize counterpart addresses
	params.FromAddresses = normalizeAddresses(params.FromAddresses)
	params.ToAddresses = normalizeAddresses(params.ToAddresses)

	// Cap limit
	if params.Limit > MAX_PAGE_SIZE {
		params.Limit = MAX_PAGE_SIZE
	}

	// Validate order
	if !params.OrderDirection.Asc() && !params.OrderDirection.Desc() {
		params.OrderDirection = OrderAsc
	}

	return &params, nil
}

// Filter converts the parsed parameters to a store filter
func (p *VotingPowerQueryParams) Filter(account domain.Address) store.VotingPowerHistoryFilter {
	return store.VotingPowerHistoryFilter{
		DaoID:         domain.DaoID(p.Dao),
		Account:       account,
		MinDelta:      p.MinDelta,
		MaxDelta:      p.MaxDelta,
		FromAddresses: p.FromAddresses,
		ToAddresses:   p.ToAddresses,
		OrderBy:       p.OrderBy,
		OrderDir:      p.OrderDirection.Direction(),
		Skip:          p.Skip,
		Limit:         p.Limit,
	}
}

// InteractionsQueryParams holds query parameters for GET /account-balance/interactions
type InteractionsQueryParams struct {
	Dao       string `form:"dao"`
	AccountID string `form:"accountId"`

	Days           int    `form:"days,default=30"`
	OrderDirection Order  `form:"orderDirection,default=desc"`
	Skip           uint64 `form:"skip,default=0"`
	Limit          int    `form:"limit,default=20"`
}

// ParseInteractionsQuery parses query parameters for GET /account-balance/interactions
func ParseInteractionsQuery(c *gin.Context) (*InteractionsQueryParams, error) {
	var params InteractionsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Dao == "" {
		return nil, fmt.Errorf("dao is required")
	}
	if params.AccountID == "" {
		return nil, fmt.Errorf("accountId is required")
	}
	if params.Days <= 0 {
		return nil, fmt.Errorf("days must be positive")
	}

	// Cap limit
	if params.Limit > MAX_PAGE_SIZE {
		params.Limit = MAX_PAGE_SIZE
	}

	// Validate order
	if !params.OrderDirection.Asc() && !params.OrderDirection.Desc() {
		params.OrderDirection = OrderDesc
	}

	return &params, nil
}

// Filter converts the parsed parameters to a store filter
func (p *InteractionsQueryParams) Filter(account domain.Address) store.InteractionsFilter {
	return store.InteractionsFilter{
		DaoID:    domain.DaoID(p.Dao),
		Account:  account,
		Days:     p.Days,
		OrderDir: p.OrderDirection.Direction(),
		Skip:     p.Skip,
		Limit:    p.Limit,
	}
}

// DelegationPercentageQueryParams holds query parameters for GET /delegation-percentage
type DelegationPercentageQueryParams struct {
	Dao string `form:"dao"`

	StartDate *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02"`
	After     *time.Time `form:"after" time_format:"2006-01-02"`
	Before    *time.Time `form:"before" time_format:"2006-01-02"`

	OrderDirection Order `form:"orderDirection,default=asc"`
	Limit          int   `form:"limit,default=100"`
}

// ParseDelegationPercentageQuery parses query parameters for GET /delegation-percentage
func ParseDelegationPercentageQuery(c *gin.Context) (*DelegationPercentageQueryParams, error) {
	var params DelegationPercentageQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Dao == "" {
		return nil, fmt.Errorf("dao is required")
	}
	if params.StartDate != nil && params.EndDate != nil && params.StartDate.After(*params.EndDate) {
		return nil, fmt.Errorf("startDate must not be after endDate")
	}

	// Cap limit
	if params.Limit > MAX_PAGE_SIZE {
		params.Limit = MAX_PAGE_SIZE
	}

	// Validate order
	if !params.OrderDirection.Asc() && !params.OrderDirection.Desc() {
		params.OrderDirection = OrderAsc
	}

	return &params, nil
}

// Filter converts the parsed parameters to a store filter
func (p *DelegationPercentageQueryParams) Filter() store.DayBucketFilter {
	return store.DayBucketFilter{
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		After:     p.After,
		Before:    p.Before,
		OrderDir:  p.OrderDirection.Direction(),
		Limit:     p.Limit,
	}
}

// DelegatedPercentageQueryParams holds query parameters for GET /delegated-percentage
type DelegatedPercentageQueryParams struct {
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02"`
	After     string     `form:"after"`
	Before    string     `form:"before"`

	OrderDirection Order `form:"orderDirection,default=asc"`
	Limit          int   `form:"limit,default=100"`
}

// ParseDelegatedPercentageQuery parses query parameters for GET /delegated-percentage.
// The date-range check stays with the aggregation service so it is enforced
// before any upstream call regardless of the caller.
func ParseDelegatedPercentageQuery(c *gin.Context) (*DelegatedPercentageQueryParams, error) {
	var params DelegatedPercentageQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	// Cap limit
	if params.Limit > MAX_PAGE_SIZE {
		params.Limit = MAX_PAGE_SIZE
	}

	// Validate order
	if !params.OrderDirection.Asc() && !params.OrderDirection.Desc() {
		params.OrderDirection = OrderAsc
	}

	return &params, nil
}

// ProposalsQueryParams holds query parameters for GET /proposals
type ProposalsQueryParams struct {
	Dao      string   `form:"dao"`
	Statuses []string `form:"status"`

	OrderDirection Order  `form:"orderDirection,default=desc"`
	Skip           uint64 `form:"skip,default=0"`
	Limit          int    `form:"limit,default=20"`
}

// ParseProposalsQuery parses query parameters for GET /proposals
func ParseProposalsQuery(c *gin.Context) (*ProposalsQueryParams, error) {
	var params ProposalsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Dao == "" {
		return nil, fmt.Errorf("dao is required")
	}

	// Cap limit
	if params.Limit > MAX_PAGE_SIZE {
		params.Limit = MAX_PAGE_SIZE
	}

	// Validate order
	if !params.OrderDirection.Asc() && !params.OrderDirection.Desc() {
		params.OrderDirection = OrderDesc
	}

	return &params, nil
}

// Filter converts the parsed parameters to a store filter
func (p *ProposalsQueryParams) Filter() store.ProposalFilter {
	statuses := make([]domain.ProposalStatus, 0, len(p.Statuses))
	for _, status := range p.Statuses {
		statuses = append(statuses, domain.ProposalStatus(status))
	}
	return store.ProposalFilter{
		DaoID:    domain.DaoID(p.Dao),
		Statuses: statuses,
		OrderDir: p.OrderDirection.Direction(),
		Skip:     p.Skip,
		Limit:    p.Limit,
	}
}

// normalizeAddresses lowercases a list of addresses, dropping empty entries
func normalizeAddresses(addresses []string) []string {
	out := make([]string, 0, len(addresses))
	for _, address := range addresses {
		normalized := domain.NormalizeAddress(address)
		if normalized == "" {
			continue
		}
		out = append(out, string(normalized))
	}
	return out
}
