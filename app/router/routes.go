// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/anatolia-telecom/backoffice/app/dto"
	"github.com/anatolia-telecom/backoffice/app/handlers"
	"github.com/anatolia-telecom/backoffice/app/middleware"
	"github.com/anatolia-telecom/backoffice/config"
	"github.com/anatolia-telecom/backoffice/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles every handler the router mounts
type Handlers struct {
	User            handlers.UserHandlerInterface
	Package         handlers.PackageHandlerInterface
	Subscription    handlers.SubscriptionHandlerInterface
	Billing         handlers.BillingHandlerInterface
	Purchase        handlers.PurchaseHandlerInterface
	Balance         handlers.BalanceHandlerInterface
	Problem         handlers.ProblemHandlerInterface
	CustomerService handlers.CustomerServiceHandlerInterface
	Dashboard       handlers.DashboardHandlerInterface
}

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	Shutdown() error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app      *fiber.App
	cfg      *config.ProductionConfig
	handlers Handlers
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(cfg *config.ProductionConfig, h Handlers) Router {
	app := fiber.New(fiber.Config{
		AppName:      "Anatolia Telecom Back Office",
		ServerHeader: "backoffice",
		ErrorHandler: errorHandler,
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:      app,
		cfg:      cfg,
		handlers: h,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	r.setupMiddleware()

	if r.cfg.Metrics.Enabled {
		r.app.Get(r.cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := r.app.Group("/api/v1")

	api.Get("/health", r.healthCheck)

	api.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.GlobalRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Users
	users := api.Group("/users")
	users.Post("/", r.handlers.User.Create)
	users.Get("/", r.handlers.User.List)
	users.Get("/phone/:phone", r.handlers.User.GetByPhone)
	users.Get("/:id", r.handlers.User.Get)
	users.Put("/:id", r.handlers.User.Update)
	users.Delete("/:id", r.handlers.User.Delete)
	users.Get("/:id/package", r.handlers.User.GetPackage)
	users.Get("/:id/subscription", r.handlers.Subscription.GetActiveSubscription)
	users.Get("/:id/commitment", r.handlers.Subscription.CommitmentTime)
	users.Get("/:id/change-requests", r.handlers.Subscription.ListChangeRequestsByUser)
	users.Get("/:id/invoices", r.handlers.Billing.ListByUser)
	users.Get("/:id/purchases", r.handlers.Purchase.ListByUser)
	users.Get("/:id/total-spent", r.handlers.Purchase.TotalSpent)
	users.Get("/:id/balances", r.handlers.Balance.ListByUser)
	users.Get("/:id/balances/:type", r.handlers.Balance.Get)
	users.Get("/:id/interactions", r.handlers.CustomerService.InteractionHistory)

	// Packages
	packages := api.Group("/packages")
	packages.Post("/", r.handlers.Package.Create)
	packages.Get("/", r.handlers.Package.List)
	packages.Get("/active", r.handlers.Package.ListActive)
	packages.Get("/:id", r.handlers.Package.Get)
	packages.Put("/:id", r.handlers.Package.Update)
	packages.Delete("/:id", r.handlers.Package.Delete)
	packages.Get("/:id/users", r.handlers.Package.ListUsers)

	// Subscription lifecycle
	requests := api.Group("/change-requests")
	requests.Post("/", r.handlers.Subscription.CreateChangeRequest)
	requests.Get("/", r.handlers.Subscription.ListChangeRequests)
	requests.Post("/:id/approve", r.handlers.Subscription.ApproveChangeRequest)
	requests.Post("/:id/reject", r.handlers.Subscription.RejectChangeRequest)

	subscriptions := api.Group("/subscriptions")
	subscriptions.Get("/expiring", r.handlers.Subscription.ListExpiring)
	subscriptions.Post("/:id/deactivate", r.handlers.Subscription.DeactivateSubscription)

	// Billing
	invoices := api.Group("/invoices")
	invoices.Post("/generate", r.handlers.Billing.Generate)
	invoices.Get("/", r.handlers.Billing.List)
	invoices.Get("/period", r.handlers.Billing.ListByPeriod)
	invoices.Get("/export", r.handlers.Billing.ExportExcel)
	invoices.Get("/phone/:phone", r.handlers.Billing.ListByPhone)
	invoices.Get("/:id", r.handlers.Billing.Get)
	invoices.Get("/:id/items", r.handlers.Billing.ListItems)
	invoices.Post("/:id/pay", r.handlers.Billing.MarkPaid)

	api.Get("/invoice-items", r.handlers.Billing.ListItemsByType)

	// Purchases
	purchases := api.Group("/purchases")
	purchases.Post("/", r.handlers.Purchase.Create)
	purchases.Get("/range", r.handlers.Purchase.ListByDateRange)
	purchases.Get("/month", r.handlers.Purchase.ListByMonth)
	purchases.Get("/phone/:phone", r.handlers.Purchase.ListByPhone)
	purchases.Get("/:id", r.handlers.Purchase.Get)

	// Balances
	balances := api.Group("/balances")
	balances.Post("/decrease", r.handlers.Balance.Decrease)
	balances.Post("/increase", r.handlers.Balance.Increase)
	balances.Get("/phone/:phone", r.handlers.Balance.ListByPhone)

	// Problems
	problems := api.Group("/problems")
	problems.Post("/", r.handlers.Problem.Create)
	problems.Get("/", r.handlers.Problem.List)
	problems.Get("/overdue", r.handlers.Problem.ListOverdue)
	problems.Get("/range", r.handlers.Problem.ListByDateRange)
	problems.Get("/search", r.handlers.Problem.Search)
	problems.Get("/:id", r.handlers.Problem.Get)
	problems.Put("/:id", r.handlers.Problem.Update)
	problems.Delete("/:id", r.handlers.Problem.Delete)

	// Call center
	service := api.Group("/customer-service")
	service.Get("/info/:phone", r.handlers.CustomerService.CustomerInfo)
	service.Get("/search", r.handlers.CustomerService.QuickSearch)
	service.Post("/complaints", r.handlers.CustomerService.RegisterComplaint)
	service.Post("/interactions", r.handlers.CustomerService.LogInteraction)
	service.Get("/interactions", r.handlers.CustomerService.ListInteractions)

	// Dashboard
	dashboard := api.Group("/dashboard")
	dashboard.Get("/stats", r.handlers.Dashboard.Stats)
	dashboard.Get("/activities", r.handlers.Dashboard.RecentActivities)
	dashboard.Get("/revenue", r.handlers.Dashboard.MonthlyRevenue)
	dashboard.Get("/problems/urgent", r.handlers.Dashboard.UrgentProblems)
	dashboard.Get("/users/:id", r.handlers.Dashboard.UserSummary)
}

func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware must run first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	r.app.Use(cors.New(cors.Config{
		AllowOrigins:     r.cfg.Security.AllowedOrigins,
		AllowMethods:     r.cfg.Security.AllowedMethods,
		AllowHeaders:     r.cfg.Security.AllowedHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: r.cfg.Security.AllowCredentials,
		MaxAge:           r.cfg.Security.CORSMaxAge,
	}))

	if r.cfg.Server.EnableCompression {
		r.app.Use(compress.New(compress.Config{
			Level: compress.Level(r.cfg.Server.CompressionLevel),
		}))
	}

	if r.cfg.Logging.EnableAccessLog {
		r.app.Use(logger.New(logger.Config{
			Format:     `{"time":"${time}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_out":${bytesSent}}` + "\n",
			TimeFormat: time.RFC3339,
			TimeZone:   "UTC",
			Next: func(c fiber.Ctx) bool {
				return c.Path() == "/api/v1/health"
			},
		}))
	}

	if r.cfg.Metrics.Enabled {
		r.app.Use(middleware.Metrics())
	}

	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start begins listening for requests
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// Shutdown gracefully stops the server
func (r *FiberRouter) Shutdown() error {
	return r.app.Shutdown()
}

// GetApp returns the underlying Fiber app
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// healthCheck returns service health status
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"service":   "backoffice-api",
		},
	})
}

// errorHandler handles unhandled errors from routes
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v", code, err)

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": c.Locals("requestid"),
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
