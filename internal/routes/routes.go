package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/georgs-k/employee-service/internal/config"
	"github.com/georgs-k/employee-service/internal/handlers"
	"github.com/georgs-k/employee-service/internal/middleware"
	"github.com/georgs-k/employee-service/internal/service"
)

func Register(router *gin.Engine, employees *service.EmployeeService, users *service.UserService, cfg config.Config) {
	router.Use(corsMiddleware(cfg.AllowedOriginsRaw))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "employee-service"})
	})

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handlers.NewAuthHandler(users, cfg)
	employeeHandler := handlers.NewEmployeeHandler(employees)
	userHandler := handlers.NewUserHandler(users)

	api := router.Group("/api/v1")
	{
		api.POST("/token", authHandler.Token)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthRequired(cfg.JwtSecret))
	{
		protected.GET("/employees", employeeHandler.List)
		protected.GET("/employees/:id", employeeHandler.Get)
		protected.GET("/employees/:id/events", employeeHandler.Schedule)
		protected.POST("/employees", middleware.RequireAnyRole("admin", "manager"), employeeHandler.Create)
		protected.PUT("/employees/:id", middleware.RequireAnyRole("admin", "manager"), employeeHandler.Update)
		protected.DELETE("/employees/:id", middleware.RequireAnyRole("admin", "manager"), employeeHandler.Delete)

		protected.GET("/users", middleware.RequireRole("admin"), userHandler.List)
		protected.POST("/users", middleware.RequireRole("admin"), userHandler.Create)
		protected.PATCH("/users/role", middleware.RequireRole("admin"), userHandler.ChangeRole)
		protected.PUT("/users/password", userHandler.ChangePassword)
		protected.DELETE("/users", middleware.RequireRole("admin"), userHandler.Delete)
	}
}

func corsMiddleware(allowed string) gin.HandlerFunc {
	origins := []string{}
	for _, origin := range strings.Split(allowed, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	allowAll := len(origins) == 0

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowedOrigin := range origins {
				if origin == allowedOrigin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					c.Writer.Header().Set("Vary", "Origin")
					break
				}
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
