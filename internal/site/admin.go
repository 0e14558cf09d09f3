// admin.go - privacy-conscious analytics and the admin dashboard

package site

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/visualgallery/internal/store"
)

const adminCookie = "admin_token"

func generateToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("generate token: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// ipHasher hashes client addresses with a per-process salt so raw IPs never reach the store.
type ipHasher struct {
	salt string
}

func newIPHasher() *ipHasher {
	return &ipHasher{salt: generateToken()}
}

// Hash is stable for an IP within one process.
func (h *ipHasher) Hash(ip string) string {
	sum := sha256.Sum256([]byte(ip + h.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// adminAuthMiddleware redirects to the login page unless the admin cookie matches.
func (s *Server) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func trackable(path string) bool {
	for _, prefix := range []string{"/static/", "/images/", "/admin/", "/api/", "/gallery/", "/favicon", "/privacy", "/healthz", "/contact"} {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// visitorTrackingMiddleware records page loads with hashed IPs. Do Not Track is honored.
func (s *Server) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if s.store == nil || c.Request.Method != http.MethodGet || !trackable(path) || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		visit := store.VisitorMetric{
			HashedIP:  s.hasher.Hash(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: s.now(),
		}
		s.background(func() {
			if err := s.store.RecordVisit(context.Background(), visit); err != nil {
				s.logger.Error("record visitor", zap.Error(err))
			}
		})
		c.Next()
	}
}

// cleanupOldVisitorData drops analytics older than the retention window.
func (s *Server) cleanupOldVisitorData() {
	cutoff := s.now().Add(-s.cfg.VisitorRetention)
	if _, err := s.store.Cleanup(context.Background(), cutoff); err != nil {
		s.logger.Error("privacy cleanup", zap.Error(err))
	}
}

func (s *Server) adminError(c *gin.Context, msg string, err error) {
	s.logger.Error(msg, zap.Error(err))
	c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
		"error": msg,
	})
}

func (s *Server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":     "Privacy Policy",
			"retention": s.cfg.VisitorRetention,
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Admin.Username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Admin.Password)) == 1
		if userOK && passOK {
			c.SetCookie(adminCookie, s.adminToken, 3600*24, "/admin", "", s.cfg.Release(), true)
			s.logger.Info("admin login", zap.String("client", s.hasher.Hash(c.ClientIP())))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		s.logger.Warn("failed admin login", zap.String("client", s.hasher.Hash(c.ClientIP())))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", s.cfg.Release(), true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuthMiddleware())

	admin.GET("/dashboard", func(c *gin.Context) {
		if s.store == nil {
			c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{"disabled": true, "sessions": s.sessions.Len()})
			return
		}
		stats, err := s.store.Stats(c.Request.Context(), s.now())
		if err != nil {
			s.adminError(c, "Failed to load statistics", err)
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":    stats,
			"sessions": s.sessions.Len(),
		})
	})

	admin.GET("/visitors", func(c *gin.Context) {
		if s.store == nil {
			c.HTML(http.StatusOK, "admin-visitors.html", gin.H{})
			return
		}
		visitors, err := s.store.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			s.adminError(c, "Failed to load visitors", err)
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	admin.GET("/images", func(c *gin.Context) {
		var stats []store.ImageStat
		if s.store != nil {
			var err error
			if stats, err = s.store.ImageStats(c.Request.Context(), 0); err != nil {
				s.adminError(c, "Failed to load image views", err)
				return
			}
		}
		c.HTML(http.StatusOK, "admin-images.html", gin.H{
			"images":  stats,
			"catalog": s.catalog.Images(),
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		if s.store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analytics disabled"})
			return
		}
		stats, err := s.store.Stats(c.Request.Context(), s.now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/api/images/:id", func(c *gin.Context) {
		if s.store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analytics disabled"})
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
			return
		}
		stat, err := s.store.ImageStat(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no views recorded"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stat)
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		if s.store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analytics disabled"})
			return
		}
		cutoff := s.now().Add(-s.cfg.VisitorRetention)
		n, err := s.store.Cleanup(c.Request.Context(), cutoff)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": n})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		if s.store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analytics disabled"})
			return
		}
		stats, err := s.store.Stats(c.Request.Context(), s.now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=gallery-stats.json")
		s.logger.Info("admin stats exported", zap.String("client", s.hasher.Hash(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})
}
