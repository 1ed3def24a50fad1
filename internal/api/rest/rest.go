package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check endpoint (no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Account history endpoints
		v1.GET("/accounts/:address/balances/historical", handler.GetHistoricalBalances)
		v1.GET("/accounts/:address/voting-power/historical", handler.GetHistoricalVotingPower)
		v1.GET("/account-balance/interactions", handler.GetAccountInteractions)

		// Day series endpoints
		v1.GET("/delegation-percentage", handler.GetDelegationPercentage)
		v1.GET("/delegated-percentage", handler.GetDelegatedPercentage)

		// Proposal endpoints
		v1.GET("/proposals", handler.ListProposals)
		v1.GET("/proposals/:id", handler.GetProposal)

		// DAO parameter endpoint
		v1.GET("/daos/:id/parameters", handler.GetDaoParameters)
	}
}
