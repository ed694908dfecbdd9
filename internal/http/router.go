package http

import (
	"log/slog"

	"github.com/geocoder89/designhub/internal/http/handlers"
	"github.com/geocoder89/designhub/internal/http/middlewares"
	"github.com/geocoder89/designhub/internal/observability"
	"github.com/geocoder89/designhub/internal/storage"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// TokenService issues tokens at signup/login and verifies them per request.
type TokenService interface {
	handlers.TokenIssuer
	middlewares.TokenVerifier
}

// Deps is everything the router needs; main builds it once.
type Deps struct {
	Log  *slog.Logger
	Prom *observability.Prom

	Env         string
	ServiceName string
	Tracing     bool

	CORSAllowedOrigins []string
	MaxJSONBytes       int64
	UploadMaxBytes     int64

	// Ping backs /readyz; nil means always ready.
	Ping func() error

	Users   handlers.UserStore
	Designs handlers.DesignStore
	Uploads storage.Store
	Hasher  handlers.PasswordHasher
	Tokens  TokenService
}

func NewRouter(d Deps) *gin.Engine {
	if d.Env != "dev" && d.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}

	log := d.Log
	if log == nil {
		log = slog.Default()
	}

	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	if d.Tracing {
		r.Use(otelgin.Middleware(d.ServiceName))
	}
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.CORSAllowedOrigins))

	// health
	h := handlers.NewHealthHandler(d.Ping)
	r.GET("/", h.Root)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Prom != nil {
		r.GET("/metrics", d.Prom.Handler())
	}

	r.GET("/docs", handlers.APIDocs)
	r.GET("/docs/openapi.yaml", handlers.OpenAPIDocument)

	authMw := middlewares.NewAuthMiddleware(d.Tokens)
	jsonCap := middlewares.MaxBodyBytes(d.MaxJSONBytes)

	// Wire up handlers
	authHandler := handlers.NewAuthHandler(d.Users, d.Hasher, d.Tokens)
	designsHandler := handlers.NewDesignsHandler(d.Designs)
	uploadsHandler := handlers.NewUploadsHandler(d.Uploads, d.Prom)

	authGroup := r.Group("/auth", jsonCap)
	authGroup.POST("/signup", authHandler.SignUp)
	authGroup.POST("/login", authHandler.Login)

	r.GET(handlers.UploadsPrefix+":name", uploadsHandler.Serve)

	protected := r.Group("")
	protected.Use(authMw.RequireAuth())
	{
		protected.GET("/me", authHandler.Me)
		protected.POST("/upload", middlewares.MaxBodyBytes(d.UploadMaxBytes), uploadsHandler.Upload)
		protected.POST("/designs", jsonCap, designsHandler.CreateDesign)
		protected.GET("/designs", designsHandler.ListDesigns)
	}

	return r
}
