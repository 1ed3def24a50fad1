package rest

import (
	"errors"
	"math/big"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daotrack/governance-indexer/internal/aggregation"
	"github.com/daotrack/governance-indexer/internal/api/rest/dto"
	"github.com/daotrack/governance-indexer/internal/cache"
	"github.com/daotrack/governance-indexer/internal/domain"
	"github.com/daotrack/governance-indexer/internal/governor"
	"github.com/daotrack/governance-indexer/internal/store"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// GetHistoricalBalances retrieves an account's balance history
	// GET /api/v1/accounts/:address/balances/historical?dao=<dao>&fromValue=<v>&toValue=<v>&fromDate=<d>&toDate=<d>&orderBy=<timestamp|delta>&orderDirection=<order>&skip=<n>&limit=<n>
	GetHistoricalBalances(c *gin.Context)

	// GetHistoricalVotingPower retrieves a delegate's voting-power history
	// GET /api/v1/accounts/:address/voting-power/historical?dao=<dao>&minDelta=<v>&maxDelta=<v>&fromAddresses=<a>&toAddresses=<a>&orderBy=<timestamp|delta>&orderDirection=<order>&skip=<n>&limit=<n>
	GetHistoricalVotingPower(c *gin.Context)

	// GetAccountInteractions retrieves net transfer amounts between an account
	// and its counterparts over a trailing window
	// GET /api/v1/account-balance/interactions?dao=<dao>&accountId=<address>&days=<n>&orderDirection=<order>&skip=<n>&limit=<n>
	GetAccountInteractions(c *gin.Context)

	// GetDelegationPercentage retrieves one DAO's delegation-percentage day series
	// GET /api/v1/delegation-percentage?dao=<dao>&startDate=<d>&endDate=<d>&after=<d>&before=<d>&orderDirection=<order>&limit=<n>
	GetDelegationPercentage(c *gin.Context)

	// GetDelegatedPercentage retrieves the cross-DAO delegation-percentage aggregate
	// GET /api/v1/delegated-percentage?startDate=<d>&endDate=<d>&after=<c>&before=<c>&orderDirection=<order>&limit=<n>
	GetDelegatedPercentage(c *gin.Context)

	// ListProposals retrieves proposals with optional status filters
	// GET /api/v1/proposals?dao=<dao>&status=<status>&orderDirection=<order>&skip=<n>&limit=<n>
	ListProposals(c *gin.Context)

	// GetProposal retrieves a single proposal with its votes
	// GET /api/v1/proposals/:id?dao=<dao>
	GetProposal(c *gin.Context)

	// GetDaoParameters retrieves the static governance parameters of a DAO
	// GET /api/v1/daos/:id/parameters
	GetDaoParameters(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	store       store.Store
	registry    *governor.Registry
	aggregation *aggregation.Service
	paramsCache *cache.TTL[dto.DaoParameters]
}

// NewHandler creates a new REST API handler
func NewHandler(
	st store.Store,
	registry *governor.Registry,
	aggregationService *aggregation.Service,
	paramsCache *cache.TTL[dto.DaoParameters],
) Handler {
	return &handler{
		store:       st,
		registry:    registry,
		aggregation: aggregationService,
		paramsCache: paramsCache,
	}
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetHistoricalBalances retrieves an account's balance history
func (h *handler) GetHistoricalBalances(c *gin.Context) {
	account, ok := pathAddress(c)
	if !ok {
		return
	}

	queryParams, err := ParseHistoricalBalancesQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	rows, totalCount, err := h.store.GetBalanceHistory(c.Request.Context(), queryParams.Filter(account))
	if err != nil {
		respondInternalError(c, err, "Failed to get balance history")
		return
	}

	c.JSON(http.StatusOK, dto.FromBalanceChanges(rows, totalCount))
}

// GetHistoricalVotingPower retrieves a delegate's voting-power history
func (h *handler) GetHistoricalVotingPower(c *gin.Context) {
	account, ok := pathAddress(c)
	if !ok {
		return
	}

	queryParams, err := ParseVotingPowerQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	rows, totalCount, err := h.store.GetVotingPowerHistory(c.Request.Context(), queryParams.Filter(account))
	if err != nil {
		respondInternalError(c, err, "Failed to get voting power history")
		return
	}

	c.JSON(http.StatusOK, dto.FromVotingPowerChanges(rows, totalCount))
}

// GetAccountInteractions retrieves net transfer amounts between an account
// and its counterparts
func (h *handler) GetAccountInteractions(c *gin.Context) {
	queryParams, err := ParseInteractionsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	account := domain.NormalizeAddress(queryParams.AccountID)
	if !account.Valid() {
		respondBadRequest(c, "Invalid account address")
		return
	}

	rows, totalCount, err := h.store.GetAccountInteractions(c.Request.Context(), queryParams.Filter(account))
	if err != nil {
		respondInternalError(c, err, "Failed to get account interactions")
		return
	}

	c.JSON(http.StatusOK, dto.FromInteractions(rows, totalCount))
}

// GetDelegationPercentage retrieves one DAO's delegation-percentage day series
func (h *handler) GetDelegationPercentage(c *gin.Context) {
	queryParams, err := ParseDelegationPercentageQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	buckets, hasNextPage, err := h.store.GetDayBuckets(
		c.Request.Context(),
		domain.DaoID(queryParams.Dao),
		domain.MetricTypeDelegationPercentage,
		queryParams.Filter(),
	)
	if err != nil {
		respondInternalError(c, err, "Failed to get delegation percentage series")
		return
	}

	c.JSON(http.StatusOK, dto.FromDayBuckets(buckets, hasNextPage))
}

// GetDelegatedPercentage retrieves the cross-DAO delegation-percentage aggregate
func (h *handler) GetDelegatedPercentage(c *gin.Context) {
	queryParams, err := ParseDelegatedPercentageQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	response, err := h.aggregation.DelegatedPercentage(c.Request.Context(), aggregation.Query{
		StartDate:      queryParams.StartDate,
		EndDate:        queryParams.EndDate,
		After:          queryParams.After,
		Before:         queryParams.Before,
		OrderDirection: string(queryParams.OrderDirection),
		Limit:          queryParams.Limit,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDateRange) {
			respondValidationError(c, err.Error())
			return
		}
		respondInternalError(c, err, "Failed to aggregate delegated percentage")
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListProposals retrieves proposals with optional status filters
func (h *handler) ListProposals(c *gin.Context) {
	queryParams, err := ParseProposalsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	rows, totalCount, err := h.store.GetProposals(c.Request.Context(), queryParams.Filter())
	if err != nil {
		respondInternalError(c, err, "Failed to list proposals")
		return
	}

	c.JSON(http.StatusOK, dto.FromProposals(rows, totalCount))
}

// GetProposal retrieves a single proposal with its votes
func (h *handler) GetProposal(c *gin.Context) {
	proposalID := c.Param("id")
	if proposalID == "" {
		respondBadRequest(c, "Proposal id is required")
		return
	}
	daoID := domain.DaoID(c.Query("dao"))
	if daoID == "" {
		respondValidationError(c, "dao is required")
		return
	}

	proposal, err := h.store.GetProposal(c.Request.Context(), daoID, proposalID)
	if err != nil {
		respondInternalError(c, err, "Failed to get proposal")
		return
	}
	if proposal == nil {
		respondNotFound(c, "Proposal not found")
		return
	}

	votes, voteCount, err := h.store.GetProposalVotes(c.Request.Context(), daoID, proposalID, MAX_PAGE_SIZE, 0)
	if err != nil {
		respondInternalError(c, err, "Failed to get proposal votes")
		return
	}

	c.JSON(http.StatusOK, dto.ProposalDetailResponse{
		Proposal: dto.FromProposal(proposal),
		Votes:    dto.FromVotes(votes, voteCount),
	})
}

// GetDaoParameters retrieves the static governance parameters of a DAO
func (h *handler) GetDaoParameters(c *gin.Context) {
	daoID := domain.DaoID(c.Param("id"))
	if daoID == "" {
		respondBadRequest(c, "DAO id is required")
		return
	}

	if params, ok := h.paramsCache.Get(string(daoID)); ok {
		c.JSON(http.StatusOK, params)
		return
	}

	gov, err := h.registry.Lookup(daoID)
	if err != nil {
		respondNotFound(c, "DAO not found")
		return
	}

	params := dto.DaoParameters{
		DaoID:             string(daoID),
		Family:            string(gov.Family()),
		Quorum:            amountString(gov.GetQuorum()),
		ProposalThreshold: amountString(gov.GetProposalThreshold()),
		VotingDelay:       gov.GetVotingDelay(),
		VotingPeriod:      gov.GetVotingPeriod(),
		TimelockDelay:     gov.GetTimelockDelay(),
	}
	h.paramsCache.Set(string(daoID), params)

	c.JSON(http.StatusOK, params)
}

// pathAddress validates and normalizes the :address path parameter
func pathAddress(c *gin.Context) (domain.Address, bool) {
	address := domain.NormalizeAddress(c.Param("address"))
	if !address.Valid() {
		respondBadRequest(c, "Invalid account address")
		return "", false
	}
	return address, true
}

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
