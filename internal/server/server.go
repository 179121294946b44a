package server

import (
	"context"
	"net/http"
	"time"

	"gymdesk/internal/attendance"
	"gymdesk/internal/auth"
	"gymdesk/internal/classes"
	"gymdesk/internal/config"
	"gymdesk/internal/email"
	"gymdesk/internal/member"
	"gymdesk/internal/membership"
	"gymdesk/internal/plan"
	"gymdesk/internal/reporting"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())

	memberHandler := member.NewHandler(db, cfg.JWTSecret)
	planHandler := plan.NewHandler(db)
	membershipHandler := membership.NewHandler(db, emailService)
	classesHandler := classes.NewHandler(db, membershipHandler.Service())
	attendanceHandler := attendance.NewHandler(db, membershipHandler.Service(), classes.NewRepository(db))
	reportingHandler := reporting.NewHandler(db)

	public := router.Group("/auth")
	public.Use(RateLimitMiddleware(5, 10))
	{
		public.POST("/register", memberHandler.Register)
		public.POST("/login", memberHandler.Login)
		public.POST("/refresh", memberHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", memberHandler.GetMe)
		protected.GET("/plans", planHandler.ListPlans)
		protected.GET("/memberships/current", membershipHandler.GetCurrent)
		protected.GET("/memberships/history", membershipHandler.GetHistory)
		protected.GET("/classes", classesHandler.ListSessions)
		protected.POST("/classes/:sessionID/book", classesHandler.BookSession)
		protected.POST("/bookings/:bookingID/cancel", classesHandler.CancelBooking)
		protected.GET("/bookings", classesHandler.ListMyBookings)
		protected.POST("/checkins", attendanceHandler.CheckIn)
		protected.GET("/checkins", attendanceHandler.ListMyAttendance)
		protected.POST("/checkins/:checkinID/checkout", attendanceHandler.CheckOut)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.GET("/plans", planHandler.ListAllPlans)
		admin.POST("/plans", planHandler.CreatePlan)
		admin.PATCH("/plans/:planID", planHandler.UpdatePlan)
		admin.DELETE("/plans/:planID", planHandler.ArchivePlan)

		admin.POST("/memberships/subscribe", membershipHandler.Subscribe)
		admin.POST("/memberships/:membershipID/renew", membershipHandler.Renew)
		admin.PATCH("/memberships/:membershipID/change-plan", membershipHandler.ChangePlan)
		admin.POST("/memberships/:membershipID/freeze", membershipHandler.Freeze)
		admin.POST("/memberships/:membershipID/unfreeze", membershipHandler.Unfreeze)
		admin.POST("/memberships/:membershipID/expire", membershipHandler.MarkExpired)
		admin.POST("/memberships/:membershipID/cancel", membershipHandler.Cancel)

		admin.POST("/classes", classesHandler.CreateSession)

		admin.GET("/reports/revenue", reportingHandler.Revenue)
		admin.GET("/reports/memberships", reportingHandler.ActiveMemberships)
		admin.GET("/reports/attendance", reportingHandler.Attendance)
		admin.GET("/reports/occupancy", reportingHandler.Occupancy)

		admin.GET("/test-email", TestEmail(emailService))
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
