package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"bizledger/internal/auth"
	"bizledger/internal/config"
	"bizledger/internal/handler"
	"bizledger/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	clientHandler *handler.ClientHandler,
	serviceHandler *handler.ServiceHandler,
	projectHandler *handler.ProjectHandler,
	paymentHandler *handler.PaymentHandler,
	reportHandler *handler.ReportHandler,
	userHandler *handler.UserHandler,
	attachmentHandler *handler.AttachmentHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Uploaded attachments are served from local disk.
	e.Static(cfg.StaticBase, cfg.UploadsDir)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)
	api.POST("/auth/password/reset-request", authHandler.RequestReset)
	api.POST("/auth/password/reset", authHandler.ResetPassword)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	secured.GET("/me", func(c echo.Context) error {
		claims, err := claimsFromContext(c)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": claims.UserID,
			"email":   claims.Email,
			"role":    claims.Role,
		})
	})

	// Client routes
	secured.POST("/clients", clientHandler.Create)
	secured.GET("/clients", clientHandler.List)
	secured.GET("/clients/:id", clientHandler.Get)
	secured.PUT("/clients/:id", clientHandler.Update)
	secured.DELETE("/clients/:id", clientHandler.Delete)
	secured.GET("/clients/:id/services", clientHandler.ListServices)

	// Service routes
	secured.POST("/services", serviceHandler.Create)
	secured.GET("/services", serviceHandler.List)
	secured.GET("/services/:id", serviceHandler.Get)
	secured.PUT("/services/:id", serviceHandler.Update)
	secured.DELETE("/services/:id", serviceHandler.Delete)

	// Project and task routes
	secured.POST("/projects", projectHandler.Create)
	secured.GET("/projects", projectHandler.List)
	secured.GET("/projects/:id", projectHandler.Get)
	secured.PUT("/projects/:id", projectHandler.Update)
	secured.DELETE("/projects/:id", projectHandler.Delete)
	secured.GET("/projects/:id/tasks", projectHandler.ListTasks)
	secured.POST("/projects/:id/tasks", projectHandler.CreateTask)
	secured.PUT("/tasks/:id", projectHandler.UpdateTask)
	secured.DELETE("/tasks/:id", projectHandler.DeleteTask)

	// Payment routes
	secured.POST("/payments", paymentHandler.Create)
	secured.GET("/payments", paymentHandler.List)
	secured.GET("/payments/:id", paymentHandler.Get)
	secured.PUT("/payments/:id", paymentHandler.Update)
	secured.DELETE("/payments/:id", paymentHandler.Delete)
	secured.POST("/payments/:id/pay", paymentHandler.MarkPaid)
	secured.POST("/payments/reconcile", paymentHandler.Reconcile, RequireRole(model.RoleAdmin, model.RoleMaster))
	secured.GET("/payments/summary", paymentHandler.Summary)

	// Report routes
	secured.GET("/reports/summary", reportHandler.Summary)
	secured.GET("/reports/monthly", reportHandler.Monthly)
	secured.GET("/reports/status-distribution", reportHandler.StatusDistribution)
	secured.GET("/reports/upcoming", reportHandler.Upcoming)

	// Attachment routes
	secured.POST("/attachments", attachmentHandler.Upload)
	secured.GET("/attachments", attachmentHandler.List)
	secured.DELETE("/attachments/:id", attachmentHandler.Delete)

	// User administration, admin and master only
	admin := secured.Group("/users", RequireRole(model.RoleAdmin, model.RoleMaster))
	admin.GET("", userHandler.List)
	admin.GET("/join-requests", userHandler.ListJoinRequests)
	admin.GET("/:id", userHandler.Get)
	admin.POST("/:id/approve", userHandler.ApproveJoinRequest)
	admin.POST("/:id/reject", userHandler.RejectJoinRequest)
	admin.PUT("/:id/active", userHandler.SetActive)
	admin.PUT("/:id/role", userHandler.SetRole)
	admin.DELETE("/:id", userHandler.Delete)
}

func claimsFromContext(c echo.Context) (*auth.Claims, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// RequireRole ensures the authenticated user holds one of the given roles.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := claimsFromContext(c)
			if err != nil {
				return err
			}
			for _, role := range roles {
				if model.Role(claims.Role) == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
