package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/matthieukhl/loyaltyctl/internal/api"
	"github.com/matthieukhl/loyaltyctl/internal/query"
)

// Server exposes a small read-only HTTP view over the cached backend
// client, for wallboards and local tooling. Writes stay on the CLI.
type Server struct {
	router *gin.Engine
	api    *api.Client
	cache  *query.Cache
}

// NewServer creates a new server instance
func NewServer(client *api.Client, cache *query.Cache) *Server {
	router := gin.Default()

	server := &Server{
		router: router,
		api:    client,
		cache:  cache,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	apiGroup := s.router.Group("/api")
	{
		apiGroup.GET("/health", s.healthCheck)
		apiGroup.GET("/metrics", s.dashboardMetrics)
		apiGroup.GET("/products", s.listProducts)
		apiGroup.GET("/loyalties", s.listLoyalties)
		apiGroup.GET("/customers", s.listCustomers)
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "loyaltyctl",
	})
}

func (s *Server) dashboardMetrics(c *gin.Context) {
	key := query.NewKey(query.ResourceDashboard, "metrics")
	metrics, err := query.Lookup(c.Request.Context(), s.cache, key, s.api.DashboardMetrics)
	if err != nil {
		failUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (s *Server) listProducts(c *gin.Context) {
	page, search := listParams(c)
	key := query.ListKey(query.ResourceProducts, page, search)
	result, err := query.Lookup(c.Request.Context(), s.cache, key,
		func(ctx context.Context) (*api.Page[api.Product], error) {
			return s.api.ListProducts(ctx, api.ProductListParams{Page: page, Search: search})
		})
	if err != nil {
		failUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) listLoyalties(c *gin.Context) {
	page, search := listParams(c)
	key := query.ListKey(query.ResourceLoyalties, page, search)
	result, err := query.Lookup(c.Request.Context(), s.cache, key,
		func(ctx context.Context) (*api.Page[api.Loyalty], error) {
			return s.api.ListLoyalties(ctx, api.LoyaltyListParams{Page: page, Search: search})
		})
	if err != nil {
		failUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) listCustomers(c *gin.Context) {
	page, search := listParams(c)
	key := query.ListKey(query.ResourceCustomers, page, search)
	result, err := query.Lookup(c.Request.Context(), s.cache, key,
		func(ctx context.Context) (*api.Page[api.Customer], error) {
			return s.api.ListCustomers(ctx, api.CustomerListParams{Page: page, Search: search})
		})
	if err != nil {
		failUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func listParams(c *gin.Context) (int, string) {
	page := 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	return page, c.Query("search")
}

func failUpstream(c *gin.Context, err error) {
	status := http.StatusBadGateway
	if api.IsUnauthorized(err) {
		status = http.StatusUnauthorized
	}
	c.JSON(status, gin.H{
		"status": "error",
		"error":  err.Error(),
	})
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
