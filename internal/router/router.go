package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/movietix/ticket-ledger/internal/config"     // redis-backed middleware configuration
	"github.com/movietix/ticket-ledger/internal/handler"    // import the handlers that implement business logic
	"github.com/movietix/ticket-ledger/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Create a route group under the /v1/auth prefix for operations that do
	// not require an existing session (register, login, refresh).  Each of
	// these handlers is responsible for generating or exchanging tokens.
	g := e.Group("/v1/auth")
	// Register a POST endpoint to handle user registration at /v1/auth/register.
	g.POST("/register", a.Register)
	// Register a POST endpoint to handle user login at /v1/auth/login.
	g.POST("/login", a.Login)
	// Register a POST endpoint to refresh access tokens at /v1/auth/refresh. This rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Register a POST endpoint to issue a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Register a POST endpoint to log out using a refresh token.  Logout does
	// not require JWT authentication; the handler accepts a JSON body
	// containing a `refresh_token` and will invalidate that token.
	g.POST("/logout", a.Logout)

	// Create another group for routes that require a valid access token.  All
	// handlers registered on this group will execute the JWTAuth middleware
	// before being invoked.
	auth := e.Group("/v1")
	// Apply the JWTAuth middleware to the protected group using the provided secret.
	auth.Use(middleware.JWTAuth(jwtSecret))
	// Accept both OWNER and CUSTOMER roles on authenticated endpoints.  The
	// middleware rejects requests with missing or unknown roles; fine-grained
	// owner/admin checks happen inside the ledger itself.
	auth.Use(middleware.RequireRole("OWNER", "CUSTOMER"))
	// Register a GET endpoint at /v1/me that returns the authenticated user's information.
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance.  These routes return read-only ledger state and apply no
// JWT or role middleware so that guests can browse listings before signing
// up.  When a Redis client is supplied, GET responses are cached briefly.
func RegisterPublic(e *echo.Echo, h *handler.LedgerHandler, rdb *redis.Client) {
	var mw []echo.MiddlewareFunc
	if rdb != nil {
		mw = append(mw, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	}
	pub := e.Group("/v1", mw...)
	// Expose the full catalogue of listings.
	pub.GET("/listings", h.ListListings)
	// Number of listings currently tracked.
	pub.GET("/listings/count", h.GetListingCount)
	// A single listing addressed by its dense index.  Indices shift when a
	// listing is removed, so clients should re-fetch the catalogue after
	// mutations rather than caching indices long-term.
	pub.GET("/listings/:idx", h.GetListing)
	// Total revenue accumulated across all sales minus refunds.
	pub.GET("/revenue", h.GetRevenue)
}

// RegisterLedger registers the authenticated ledger operations: listing
// management for the owner and admins, and purchase/refund flows for any
// account.  When a Redis client is supplied, mutating routes additionally
// pass through the token-bucket rate limiter so a single caller cannot
// hammer the settlement path.
func RegisterLedger(e *echo.Echo, h *handler.LedgerHandler, jwtSecret string, rdb *redis.Client) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("OWNER", "CUSTOMER"))

	// Read-only views of the caller's own state.
	auth.GET("/listings/:idx/holdings", h.GetHoldings)
	auth.GET("/balance", h.GetBalance)

	// Mutating routes get the rate limiter when Redis is configured.
	var mw []echo.MiddlewareFunc
	if rdb != nil {
		mw = append(mw, middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	}
	mut := e.Group("/v1", mw...)
	mut.Use(middleware.JWTAuth(jwtSecret))
	mut.Use(middleware.RequireRole("OWNER", "CUSTOMER"))

	// Only the ledger owner may create listings; the ledger enforces this,
	// but the role gate keeps customers from even reaching the handler.
	create := e.Group("/v1", mw...)
	create.Use(middleware.JWTAuth(jwtSecret))
	create.Use(middleware.RequireRole("OWNER"))
	create.POST("/listings", h.CreateListing)

	// Admin inventory management on a single listing.
	mut.POST("/listings/:idx/tickets", h.AddTickets)
	mut.POST("/listings/:idx/for-sale", h.ChangeForSale)
	mut.POST("/listings/:idx/block", h.BlockTickets)
	mut.DELETE("/listings/:idx", h.RemoveListing)

	// Purchase and refund settle through the token bank before the ledger
	// mutates, so a failed transfer leaves every counter untouched.
	mut.POST("/listings/:idx/purchase", h.BuyTickets)
	mut.POST("/listings/:idx/refund", h.RefundTickets)
}
