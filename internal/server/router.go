package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/cashbook/internal/auth"
	"github.com/h4ks-com/cashbook/internal/config"
	"github.com/h4ks-com/cashbook/internal/database"
	"github.com/h4ks-com/cashbook/internal/handlers"
	"github.com/h4ks-com/cashbook/internal/logging"
	"github.com/h4ks-com/cashbook/internal/middleware"
	"github.com/h4ks-com/cashbook/internal/repository"
	"github.com/h4ks-com/cashbook/internal/services"
	"gorm.io/gorm"

	_ "github.com/h4ks-com/cashbook/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Services groups the application services a router dispatches to.
type Services struct {
	Accounts *services.AccountService
	Ledger   *services.LedgerService
	Reports  *services.ReportService
	Tokens   *services.TokenService
}

// NewServices builds the services over one database handle.
func NewServices(db *gorm.DB, cfg *config.Config, logger *slog.Logger) *Services {
	userRepo := repository.NewUserRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	return &Services{
		Accounts: services.NewAccountService(userRepo, logging.Component(logger, logging.ComponentAuth)),
		Ledger:   services.NewLedgerService(transactionRepo, logging.Component(logger, logging.ComponentLedger)),
		Reports:  services.NewReportService(transactionRepo, logging.Component(logger, logging.ComponentReports)),
		Tokens:   services.NewTokenService(tokenRepo, userRepo, cfg.JWT.Secret),
	}
}

type Deps struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *gorm.DB
	Services *Services
}

// New returns the HTTP handler serving the HTML pages, the JSON API under
// /api/v1 and the API documentation.
func New(d Deps) (*gin.Engine, error) {
	tmpl, err := handlers.ParseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.Use(logging.RequestLogger(d.Logger), gin.Recovery())
	router.SetHTMLTemplate(tmpl)
	router.Use(sessions.Sessions(auth.SessionName, auth.NewCookieStore(d.Config.Session.Secret, d.Config.Session.Secure)))

	svc := d.Services
	webHandler := handlers.NewWebHandler(svc.Accounts, svc.Ledger, svc.Reports, logging.Component(d.Logger, logging.ComponentHTTP))
	accountHandler := handlers.NewAccountHandler(svc.Accounts, svc.Tokens, d.Config.JWT.TokenTTL)
	transactionHandler := handlers.NewTransactionHandler(svc.Ledger)
	reportHandler := handlers.NewReportHandler(svc.Reports)
	tokenHandler := handlers.NewTokenHandler(svc.Tokens)
	adminHandler := handlers.NewAdminHandler(repository.NewUserRepository(d.DB), func() (map[string]int64, error) {
		return database.TableCounts(d.DB)
	})

	authMiddleware := middleware.NewAuthMiddleware(svc.Tokens)
	adminMiddleware := middleware.NewAdminMiddleware(d.Config.IsAdmin)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/login", webHandler.LoginPage)
	router.POST("/login", webHandler.Login)
	router.GET("/register", webHandler.RegisterPage)
	router.POST("/register", webHandler.Register)
	router.GET("/logout", webHandler.Logout)

	pages := router.Group("", middleware.RequireSession())
	{
		pages.GET("/", webHandler.Dashboard)
		pages.GET("/add", webHandler.AddPage)
		pages.POST("/add", webHandler.Add)
		pages.GET("/edit/:id", webHandler.EditPage)
		pages.POST("/edit/:id", webHandler.Edit)
		pages.POST("/delete/:id", webHandler.Delete)
		pages.GET("/monthly-report", webHandler.MonthlyReport)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/docs", handlers.SwaggerUIWithBearerFix("/swagger/doc.json"))

	api := router.Group("/api/v1")
	{
		api.POST("/auth/register", accountHandler.Register)
		api.POST("/auth/token", accountHandler.IssueToken)

		authenticated := api.Group("", authMiddleware.RequireAuth())
		{
			authenticated.GET("/me", accountHandler.Me)
			authenticated.GET("/dashboard", transactionHandler.GetDashboard)

			authenticated.GET("/transactions", transactionHandler.ListTransactions)
			authenticated.POST("/transactions", transactionHandler.CreateTransaction)
			authenticated.GET("/transactions/:id", transactionHandler.GetTransaction)
			authenticated.PUT("/transactions/:id", transactionHandler.UpdateTransaction)
			authenticated.DELETE("/transactions/:id", transactionHandler.DeleteTransaction)

			authenticated.GET("/reports/summary", reportHandler.GetSummary)
			authenticated.GET("/reports/detail", reportHandler.GetDetail)
			authenticated.GET("/reports/years", reportHandler.GetYears)

			authenticated.POST("/tokens", tokenHandler.CreateToken)
			authenticated.GET("/tokens", tokenHandler.ListTokens)
			authenticated.DELETE("/tokens/:id", tokenHandler.DeleteToken)
		}

		admin := api.Group("/admin", authMiddleware.RequireAuth(), adminMiddleware.RequireAdmin())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/stats", adminHandler.GetStats)
		}
	}

	return router, nil
}
