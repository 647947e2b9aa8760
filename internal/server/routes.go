package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	"CampusPlacement-backend/internal/auth"
	"CampusPlacement-backend/internal/controller/company"
	"CampusPlacement-backend/internal/controller/interview"
	"CampusPlacement-backend/internal/controller/notification"
	"CampusPlacement-backend/internal/controller/placement"
	"CampusPlacement-backend/internal/metrics"
	"CampusPlacement-backend/internal/middleware"
	"CampusPlacement-backend/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound MyServer instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOrginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrgins := strings.Split(allowOrginsStr, ",")

	lAuth := auth.NewLocalAuthHandler(s.DB)
	placementCtrl := placement.NewPlacementController(s.DB, s.Bus)
	interviewCtrl := interview.NewInterviewController(s.DB, s.Bus)
	companyCtrl := company.NewCompanyController(s.DB)
	notificationCtrl := notification.NewNotificationController(s.DB)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrgins, // Add your frontend URL
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true, // Enable cookies/auth
	}))
	r.Use(metrics.RequestMetrics())

	r.GET("/", s.HelloWorldHandler)
	r.GET("/health", s.healthHandler)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.EnvRateLimitMiddleware())
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.POST("login", lAuth.LoginHandler)
			authRoute.POST("register", lAuth.RegisterHandler)
		}

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB))

			placementRoute := needAuth.Group("/placements")
			{
				placementRoute.GET("jobs", placementCtrl.GetJobs)
				placementRoute.GET("jobs/:id", placementCtrl.GetJobByID)
				placementRoute.GET("applications", placementCtrl.GetApplications)

				studentOnly := placementRoute.Group("")
				{
					studentOnly.Use(middleware.CheckRole(model.RoleStudent))
					studentOnly.POST("apply", placementCtrl.Apply)
					studentOnly.PUT("applications/:id/withdraw", placementCtrl.WithdrawApplication)
				}

				adminOnly := placementRoute.Group("")
				{
					adminOnly.Use(middleware.CheckRole(model.RoleAdmin))
					adminOnly.POST("jobs", placementCtrl.CreateJob)
					adminOnly.PUT("jobs/:id", placementCtrl.UpdateJob)
					adminOnly.DELETE("jobs/:id", placementCtrl.DeleteJob)
					adminOnly.PUT("applications/:id", placementCtrl.UpdateApplicationStatus)
					adminOnly.GET("stats", placementCtrl.GetStats)
				}
			}

			interviewRoute := needAuth.Group("/interviews")
			{
				interviewRoute.POST("schedule/:applicationId",
					middleware.CheckRole(model.RoleAdmin), interviewCtrl.ScheduleInterview)
				interviewRoute.GET("my-interviews",
					middleware.CheckRole(model.RoleStudent), interviewCtrl.MyInterviews)
			}

			companyRoute := needAuth.Group("/companies")
			{
				companyRoute.GET("", companyCtrl.GetCompanies)
				companyRoute.GET(":id", companyCtrl.GetCompanyByID)

				companyRoute.Use(middleware.CheckRole(model.RoleAdmin))
				companyRoute.POST("", companyCtrl.CreateCompany)
				companyRoute.PUT(":id", companyCtrl.UpdateCompany)
				companyRoute.DELETE(":id", companyCtrl.DeleteCompany)
			}

			notificationRoute := needAuth.Group("/notifications")
			{
				notificationRoute.GET("", notificationCtrl.GetMyNotifications)
				notificationRoute.PUT(":id/read", notificationCtrl.MarkRead)
			}
		}
	}

	return r
}

// HelloWorldHandler handle request by return message "Hello World"
func (s *MyServer) HelloWorldHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "Hello World"

	c.JSON(http.StatusOK, resp)
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
