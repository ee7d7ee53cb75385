package api

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/logger"
)

const (
	adminCookie       = "admin_token"
	adminCookieMaxAge = 24 * 60 * 60
	adminTokenBytes   = 32

	// debugAdminPassword is accepted only in debug mode when no password is set.
	debugAdminPassword = "admin123"
)

// adminArea is the cookie-protected statistics area. The token changes on
// every restart, which logs everyone out.
type adminArea struct {
	username string
	password string
	token    string
	stats    StatsSource
	visits   *analytics.Visits
	log      logger.Logger
}

func newAdmin(cfg config.AdminConfig, debug bool, stats StatsSource, visits *analytics.Visits, log logger.Logger) (*adminArea, error) {
	token, err := generateAdminToken()
	if err != nil {
		return nil, err
	}

	password := cfg.Password
	if password == "" && debug {
		password = debugAdminPassword
		log.Warn("Using default admin password. Set ADMIN_PASSWORD.")
	}
	if password == "" {
		log.Warn("Admin password not set, admin login disabled")
	}

	return &adminArea{
		username: cfg.Username,
		password: password,
		token:    token,
		stats:    stats,
		visits:   visits,
		log:      log.With(logger.String("component", "admin")),
	}, nil
}

func generateAdminToken() (string, error) {
	b := make([]byte, adminTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate admin token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (a *adminArea) register(r *gin.Engine) {
	r.GET("/admin/login", a.loginPage)
	r.POST("/admin/login", a.login)
	r.GET("/admin/logout", a.logout)

	protected := r.Group("/admin")
	protected.Use(a.authMiddleware())
	protected.GET("/dashboard", a.dashboard)
	protected.GET("/api/stats", a.apiStats)
}

func (a *adminArea) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || !equal(token, a.token) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// clientHash identifies a client in logs without recording its address.
func (a *adminArea) clientHash(c *gin.Context) string {
	if a.visits == nil {
		return ""
	}
	return a.visits.HashIP(c.ClientIP())
}

func (a *adminArea) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
}

func (a *adminArea) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	// Both comparisons always run so timing does not reveal which one failed.
	userOK := equal(username, a.username)
	passOK := equal(password, a.password)
	if a.password == "" || !userOK || !passOK {
		a.log.Warn("Failed admin login attempt", logger.String("client", a.clientHash(c)))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{"error": "Invalid credentials"})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(adminCookie, a.token, adminCookieMaxAge, "/admin", "", false, true)
	a.log.Info("Admin login successful", logger.String("client", a.clientHash(c)))
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (a *adminArea) logout(c *gin.Context) {
	c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
	a.log.Info("Admin logout", logger.String("client", a.clientHash(c)))
	c.Redirect(http.StatusFound, "/admin/login")
}

func (a *adminArea) dashboard(c *gin.Context) {
	stats, err := a.stats.Stats(c.Request.Context())
	if err != nil {
		a.log.Error("Error loading admin stats", logger.Error(err))
		c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load statistics"})
		return
	}
	c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{"stats": stats})
}

func (a *adminArea) apiStats(c *gin.Context) {
	stats, err := a.stats.Stats(c.Request.Context())
	if err != nil {
		a.log.Error("Error loading admin stats", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
