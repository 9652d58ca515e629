package routes

import (
	"carwash-backend/config"
	"carwash-backend/controllers"
	"carwash-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(cfg config.Config, db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	authController := &controllers.AuthController{DB: db, Cfg: cfg}
	serviceController := &controllers.ServiceController{DB: db}
	employeeController := &controllers.EmployeeController{DB: db}
	transactionController := &controllers.TransactionController{DB: db}
	pendingController := &controllers.PendingController{DB: db}
	appointmentController := &controllers.AppointmentController{DB: db}
	reminderController := &controllers.ReminderController{DB: db}
	dashboardController := &controllers.DashboardController{DB: db}
	reportController := &controllers.ReportController{DB: db}

	auth := r.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)

		auth.Use(utils.AuthMiddleware(cfg.JWTSecret))
		auth.GET("/me", authController.Me)
		auth.PUT("/profile", authController.UpdateProfile)
		auth.PUT("/password", authController.ChangePassword)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware(cfg.JWTSecret))
	{
		// Service catalog routes
		services := api.Group("/services")
		{
			services.GET("/categories", serviceController.GetCategories)
			services.PUT("/categories", serviceController.RenameCategory)
			services.DELETE("/categories", serviceController.DeleteCategory)

			services.POST("", serviceController.CreateService)
			services.GET("", serviceController.GetServices)
			services.GET("/:id", serviceController.GetService)
			services.PUT("/:id", serviceController.UpdateService)
			services.DELETE("/:id", serviceController.DeleteService)
		}

		// Employee routes
		employees := api.Group("/employees")
		{
			employees.POST("", employeeController.CreateEmployee)
			employees.GET("", employeeController.GetEmployees)
			employees.GET("/:id", employeeController.GetEmployee)
			employees.PUT("/:id", employeeController.UpdateEmployee)
			employees.DELETE("/:id", employeeController.DeleteEmployee)
			employees.GET("/:id/commissions/unpaid", employeeController.GetUnpaidCommissions)
			employees.POST("/:id/commissions/pay", employeeController.PayCommissions)
		}

		// Transaction routes
		transactions := api.Group("/transactions")
		{
			transactions.POST("", transactionController.CreateTransaction)
			transactions.GET("", transactionController.GetTransactions)
			transactions.GET("/:id", transactionController.GetTransaction)
			transactions.PUT("/:id", transactionController.UpdateTransaction)
			transactions.DELETE("/:id", transactionController.DeleteTransaction)
		}

		// Pending service routes
		pending := api.Group("/pending")
		{
			pending.POST("", pendingController.CreatePending)
			pending.GET("", pendingController.GetPendingServices)
			pending.GET("/:id", pendingController.GetPendingService)
			pending.PUT("/:id", pendingController.UpdatePendingService)
			pending.POST("/:id/complete", pendingController.CompletePendingService)
			pending.DELETE("/:id", pendingController.DeletePendingService)
		}

		// Appointment routes
		appointments := api.Group("/appointments")
		{
			appointments.POST("", appointmentController.CreateAppointment)
			appointments.GET("", appointmentController.GetAppointments)
			appointments.GET("/:id", appointmentController.GetAppointment)
			appointments.PUT("/:id", appointmentController.UpdateAppointment)
			appointments.PATCH("/:id/status", appointmentController.UpdateAppointmentStatus)
			appointments.POST("/:id/complete", appointmentController.CompleteAppointment)
			appointments.DELETE("/:id", appointmentController.DeleteAppointment)
		}

		// Reminder routes
		reminders := api.Group("/reminders")
		{
			reminders.GET("", reminderController.GetActiveReminders)
			reminders.PUT("/read-all", reminderController.MarkAllRemindersRead)
			reminders.PUT("/:id/read", reminderController.MarkReminderRead)
		}

		api.GET("/dashboard", dashboardController.GetDashboard)
		api.GET("/plate-check", transactionController.CheckPlate)

		// Report routes
		reports := api.Group("/reports")
		{
			reports.GET("", reportController.GetReport)
			reports.GET("/export", reportController.ExportReport)
		}
	}

	return r
}
