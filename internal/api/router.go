package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"studentrecords/internal/auth"
	"studentrecords/internal/httpmiddleware"
)

// Router wires middleware and every route onto a new engine.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	origins := h.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
	}))
	r.Use(securityHeaders())
	if h.cfg.RateLimitPerMin > 0 {
		r.Use(httpmiddleware.NewTokenBucket(h.cfg.RateLimitPerMin, h.cfg.RateLimitPerMin).GinMiddleware())
	}

	r.GET("/healthz", h.Healthz)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics))
	}

	v1 := r.Group("/v1")
	v1.POST("/auth/login", h.Login)

	session := v1.Group("", auth.SessionAuth(h.cfg.JWTSigningKey, h.cfg.JWTIssuer))
	anyone := session.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleStudent))
	{
		anyone.POST("/students/:id/pay", h.MarkFeePaid)
		anyone.GET("/payments/report", h.PaymentReport)
	}

	admin := session.Group("", auth.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/students", h.ListStudents)
		admin.POST("/students", h.CreateStudent)
		admin.GET("/students/:id", h.GetStudent)
		admin.PUT("/students/:id", h.UpdateStudent)
		admin.DELETE("/students/:id", h.DeleteStudent)

		admin.GET("/dashboard", h.Dashboard)
		admin.GET("/activity", h.Activity)

		admin.GET("/exports/students.pdf", h.ExportStudentsPDF)
		admin.GET("/exports/students.csv", h.ExportStudentsCSV)
		admin.GET("/exports/payments.pdf", h.ExportPaymentsPDF)

		admin.POST("/reports", h.CreateReport)
		admin.GET("/reports/:id", h.GetReport)
	}
	return r
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Only add HSTS in production
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
