package router

import (
	"regexp"
	"time"

	"kusystem/internal/handlers"
	"kusystem/internal/middleware"
	"kusystem/internal/services"
	"kusystem/pkg/cache"
	"kusystem/pkg/config"
	"kusystem/pkg/jwt"
	"kusystem/pkg/mailer"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// registerValidations 注册自定义校验规则
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
	}
}

// Setup 初始化路由
func Setup(db *gorm.DB, redisCache *cache.RedisCache) *gin.Engine {
	cfg := config.GetConfig()
	gin.SetMode(cfg.Server.Mode)
	registerValidations()

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.SetupCORS())

	var jwtManager *jwt.Manager
	if cfg.Auth.JWTSecret != "" {
		jwtManager = jwt.NewManager(cfg.Auth.JWTSecret, 24*time.Hour)
	}
	identity := middleware.NewIdentityMiddleware(jwtManager, cfg.Auth.TrustedHeaders)
	r.Use(identity.Extract())

	perm := middleware.NewPermissionMiddleware(db)

	// 服务
	userService := services.NewUserService(db)
	orgService := services.NewOrganizationService(db)
	memberService := services.NewMemberService(db)
	rolePermService := services.NewRolePermissionService(db)
	invitationService := services.NewInvitationService(db, mailer.NewMailer(cfg.SMTP))
	clientService := services.NewClientService(db)
	productService := services.NewProductService(db)
	quoteService := services.NewQuoteService(db)
	publicQuoteService := services.NewPublicQuoteService(db)
	hrService := services.NewHRService(db)
	analyticsService := services.NewAnalyticsService(db, redisCache)

	// 处理器
	healthHandler := handlers.NewHealthHandler()
	orgHandler := handlers.NewOrganizationHandler(orgService, userService)
	memberHandler := handlers.NewMemberHandler(memberService)
	rolePermHandler := handlers.NewRolePermissionHandler(rolePermService)
	invitationHandler := handlers.NewInvitationHandler(invitationService, userService)
	clientHandler := handlers.NewClientHandler(clientService)
	productHandler := handlers.NewProductHandler(productService)
	quoteHandler := handlers.NewQuoteHandler(quoteService)
	publicQuoteHandler := handlers.NewPublicQuoteHandler(publicQuoteService)
	hrHandler := handlers.NewHRHandler(hrService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// 公开路由：无需租户头
	r.GET("/health", healthHandler.Check)
	r.GET("/public/quotes/:publicId", publicQuoteHandler.Get)
	r.GET("/invitations/:token", invitationHandler.GetByToken)
	r.POST("/invitations/:token/accept", invitationHandler.Accept)

	api := r.Group("/api/v1")

	// 组织入口：有身份即可，不依赖租户上下文
	api.POST("/organizations", orgHandler.Create)
	api.GET("/organizations/me", orgHandler.ListMine)

	// 租户范围路由
	tenant := api.Group("")
	tenant.Use(middleware.TenantMiddleware())
	{
		org := tenant.Group("/organization")
		{
			org.GET("", perm.RequirePermission("organization", "view"), orgHandler.Get)
			org.PATCH("", perm.RequirePermission("organization", "manage"), orgHandler.Update)
		}

		members := tenant.Group("/members")
		{
			members.GET("/me/permissions", perm.RequirePermission("members", "view"), memberHandler.MyPermissions)
			members.GET("", perm.RequirePermission("members", "view"), memberHandler.List)
			// 角色与成员的变更仅限owner/admin，授权表无法下放给member
			members.PATCH("/:id/role", perm.RequirePermission("members", "manage"), perm.RequireManagerRole(), memberHandler.ChangeRole)
			members.DELETE("/:id", perm.RequirePermission("members", "manage"), perm.RequireManagerRole(), memberHandler.Remove)
		}

		tenant.GET("/permissions", perm.RequirePermission("members", "view"), rolePermHandler.Catalog)

		roles := tenant.Group("/roles")
		{
			roles.GET("", perm.RequirePermission("admin", "manage-permissions"), perm.RequireManagerRole(), rolePermHandler.ListRoles)
			roles.PUT("/:role/permissions", perm.RequirePermission("admin", "manage-permissions"), perm.RequireManagerRole(), rolePermHandler.SetRolePermissions)
		}

		invitations := tenant.Group("/invitations")
		{
			invitations.GET("", perm.RequirePermission("invitations", "manage"), invitationHandler.List)
			invitations.POST("", perm.RequirePermission("invitations", "manage"), invitationHandler.Create)
			invitations.DELETE("/:id", perm.RequirePermission("invitations", "manage"), invitationHandler.Revoke)
		}

		clients := tenant.Group("/clients")
		{
			clients.GET("", perm.RequirePermission("clients", "view"), clientHandler.List)
			clients.GET("/:id", perm.RequirePermission("clients", "view"), clientHandler.Get)
			clients.POST("", perm.RequirePermission("clients", "manage"), clientHandler.Create)
			clients.PUT("/:id", perm.RequirePermission("clients", "manage"), clientHandler.Update)
			clients.DELETE("/:id", perm.RequirePermission("clients", "manage"), clientHandler.Delete)
			clients.GET("/:id/branches", perm.RequirePermission("clients", "view"), clientHandler.ListBranches)
			clients.POST("/:id/branches", perm.RequirePermission("clients", "manage"), clientHandler.CreateBranch)
			clients.PUT("/:id/branches/:branchId", perm.RequirePermission("clients", "manage"), clientHandler.UpdateBranch)
			clients.DELETE("/:id/branches/:branchId", perm.RequirePermission("clients", "manage"), clientHandler.DeleteBranch)
		}

		products := tenant.Group("/products")
		{
			products.GET("", perm.RequirePermission("products", "view"), productHandler.List)
			products.GET("/:id", perm.RequirePermission("products", "view"), productHandler.Get)
			products.POST("", perm.RequirePermission("products", "manage"), productHandler.Create)
			products.POST("/generic", perm.RequirePermission("products", "manage"), productHandler.GetGeneric)
			products.PUT("/:id", perm.RequirePermission("products", "manage"), productHandler.Update)
			products.DELETE("/:id", perm.RequirePermission("products", "manage"), productHandler.Delete)
		}

		templates := tenant.Group("/product-templates")
		{
			templates.GET("", perm.RequirePermission("products", "view"), productHandler.ListTemplates)
			templates.POST("", perm.RequirePermission("products", "manage"), productHandler.CreateTemplate)
			templates.PUT("/:id", perm.RequirePermission("products", "manage"), productHandler.UpdateTemplate)
			templates.DELETE("/:id", perm.RequirePermission("products", "manage"), productHandler.DeleteTemplate)
		}

		quotes := tenant.Group("/quotes")
		{
			quotes.GET("", perm.RequirePermission("quotes", "view"), quoteHandler.List)
			quotes.GET("/:id", perm.RequirePermission("quotes", "view"), quoteHandler.Get)
			quotes.GET("/:id/status-history", perm.RequirePermission("quotes", "view"), quoteHandler.StatusHistory)
			quotes.POST("", perm.RequirePermission("quotes", "create"), quoteHandler.Create)
			quotes.PUT("/:id", perm.RequirePermission("quotes", "edit"), quoteHandler.Update)
			quotes.DELETE("/:id", perm.RequirePermission("quotes", "delete"), quoteHandler.Delete)
			quotes.PATCH("/:id/status", perm.RequirePermission("quotes", "change-status"), quoteHandler.ChangeStatus)
			quotes.PATCH("/:id/public", perm.RequirePermission("quotes", "manage-public"), quoteHandler.SetPublicEnabled)
			quotes.POST("/:id/public/regenerate", perm.RequirePermission("quotes", "manage-public"), quoteHandler.RegeneratePublicLink)
		}

		hr := tenant.Group("/hr")
		{
			hr.GET("/employees", perm.RequirePermission("hr", "view"), hrHandler.ListEmployees)
			hr.GET("/employees/:id", perm.RequirePermission("hr", "view"), hrHandler.GetEmployee)
			hr.POST("/employees", perm.RequirePermission("hr", "manage"), hrHandler.CreateEmployee)
			hr.PUT("/employees/:id", perm.RequirePermission("hr", "manage"), hrHandler.UpdateEmployee)
			hr.DELETE("/employees/:id", perm.RequirePermission("hr", "manage"), hrHandler.DeleteEmployee)
			hr.GET("/calendar", perm.RequirePermission("hr", "view"), hrHandler.WeekCalendar)
			hr.PUT("/schedules", perm.RequirePermission("hr", "manage"), hrHandler.UpsertSchedule)
			hr.DELETE("/schedules/:id", perm.RequirePermission("hr", "manage"), hrHandler.DeleteSchedule)
		}

		analytics := tenant.Group("/analytics")
		{
			analytics.GET("/quotes", perm.RequirePermission("analytics", "view"), analyticsHandler.QuoteAnalytics)
		}
	}

	return r
}
