package httpserver

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/service/profile"
	"storefront/internal/session"
)

type CatalogService interface {
	Search(q catalog.Query) []domain.Product
	Get(id string) (*domain.Product, error)
	Facets() catalog.Facets
}

type IdentityService interface {
	SignIn(ctx context.Context, email, password string) (*domain.Account, string, error)
	SignOut(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (*domain.Account, error)
	SendVerificationEmail(ctx context.Context, token string) error
	VerifyEmail(ctx context.Context, code string) error
}

type ProfileService interface {
	Register(ctx context.Context, in profile.RegisterInput) (*domain.Profile, error)
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, token, userID string, in profile.UpdateInput) (*profile.UpdateResult, error)
}

// SessionProvider hands out the per-device user data session.
type SessionProvider interface {
	Acquire(ctx context.Context, deviceID, userID string) (*session.Session, error)
	Release(ctx context.Context, deviceID string)
}

// Deps groups the services the router needs.
type Deps struct {
	Catalog     CatalogService
	Identity    IdentityService
	Profiles    ProfileService
	Sessions    SessionProvider
	CORSOrigins []string
}

func (d Deps) validate() error {
	switch {
	case d.Catalog == nil:
		return errors.New("catalog service required")
	case d.Identity == nil:
		return errors.New("identity service required")
	case d.Profiles == nil:
		return errors.New("profile service required")
	case d.Sessions == nil:
		return errors.New("session provider required")
	}
	return nil
}

type handlers struct {
	logger *log.Logger
	deps   Deps
	copies *workingCopies
	now    func() time.Time
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, copies *workingCopies) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), cors.New(corsConfig(deps.CORSOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{logger: logger, deps: deps, copies: copies, now: time.Now}

	router.GET("/catalog", h.listCatalog)
	router.GET("/catalog/facets", h.catalogFacets)
	router.GET("/catalog/:id", h.getProduct)

	auth := router.Group("/auth")
	auth.POST("/register", h.register)
	auth.POST("/login", h.login)
	auth.POST("/logout", h.logout)
	auth.GET("/verify", h.verifyEmail)

	me := router.Group("/me", h.authMiddleware)
	me.GET("/cart", h.getCart)
	me.POST("/cart", h.addToCart)
	me.GET("/cart/selection", h.getSelection)
	me.POST("/cart/selection/select-all", h.selectAll)
	me.POST("/cart/selection/:lineId/toggle", h.editLine(lineToggle))
	me.POST("/cart/selection/:lineId/increment", h.editLine(lineIncrement))
	me.POST("/cart/selection/:lineId/decrement", h.editLine(lineDecrement))
	me.DELETE("/cart/selection/:lineId", h.editLine(lineRemove))
	me.POST("/checkout", h.checkout)
	me.GET("/orders", h.listOrders)
	me.POST("/orders/:orderId/reorder", h.reorder)
	me.POST("/refresh", h.refresh)
	me.GET("/profile", h.getProfile)
	me.PATCH("/profile", h.updateProfile)
	me.POST("/verification-email", h.sendVerificationEmail)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
