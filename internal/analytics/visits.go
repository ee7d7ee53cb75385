package analytics

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/database"
	"github.com/Zachkp/portfolio/internal/logger"
)

// hashedIPLength is the number of hex characters kept from the IP hash.
const hashedIPLength = 16

// recordTimeout bounds a single visit insert.
const recordTimeout = 3 * time.Second

// untrackedPrefixes are paths never counted as page visits.
var untrackedPrefixes = []string{
	"/static/", "/images/", "/admin", "/favicon", "/health", "/metrics", "/api/",
}

// Visit is one tracked page request.
type Visit struct {
	HashedIP  string
	SessionID string
	UserAgent string
	Path      string
	VisitedAt time.Time
}

// Visits records page visits with salted, truncated IP hashes so raw
// addresses are never stored.
type Visits struct {
	db   *sql.DB
	salt string
	log  logger.Logger
	now  func() time.Time
}

// NewVisits creates a visit recorder.
func NewVisits(db *sql.DB, salt string, log logger.Logger) *Visits {
	return &Visits{db: db, salt: salt, log: log, now: time.Now}
}

// HashIP hashes ip with the recorder's salt. The same IP always hashes the same
// for the life of the salt.
func (v *Visits) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + v.salt))
	return hex.EncodeToString(sum[:])[:hashedIPLength]
}

// Record stores a visit.
func (v *Visits) Record(ctx context.Context, visit Visit) error {
	if visit.VisitedAt.IsZero() {
		visit.VisitedAt = v.now()
	}
	_, err := v.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, session_id, user_agent, path, visited_at)
		VALUES (?, ?, ?, ?, ?)
	`, visit.HashedIP, visit.SessionID, visit.UserAgent, visit.Path, database.FormatTime(visit.VisitedAt))
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// Tracked reports whether a request path counts as a page visit.
func Tracked(path string) bool {
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// Middleware records page visits in the background once the request has been
// handled, so the session set by route middleware is available. Requests with
// DNT: 1 and error responses are not recorded. sessionID extracts the visitor
// session from the request.
func (v *Visits) Middleware(sessionID func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !Tracked(path) || c.GetHeader("DNT") == "1" || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		visit := Visit{
			HashedIP:  v.HashIP(c.ClientIP()),
			SessionID: sessionID(c),
			UserAgent: c.Request.UserAgent(),
			Path:      path,
			VisitedAt: v.now(),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
			defer cancel()
			if err := v.Record(ctx, visit); err != nil {
				v.log.Warn("Error recording visitor", logger.Error(err))
			}
		}()
	}
}

// Cleanup deletes visits and events older than retention.
func Cleanup(ctx context.Context, db *sql.DB, retention time.Duration, log logger.Logger) {
	cutoff := database.FormatTime(time.Now().Add(-retention))

	var removed int64
	for _, stmt := range []string{
		`DELETE FROM visitors WHERE visited_at < ?`,
		`DELETE FROM analytics_events WHERE occurred_at < ?`,
	} {
		result, err := db.ExecContext(ctx, stmt, cutoff)
		if err != nil {
			log.Error("Error cleaning up analytics data", logger.Error(err))
			return
		}
		n, _ := result.RowsAffected()
		removed += n
	}

	if removed > 0 {
		log.Info("Retention cleanup removed old analytics rows",
			logger.Int64("rows", removed),
			logger.Duration("retention", retention),
		)
	}
}
