// Package site serves the gallery page and drives each visitor's gallery
// controller from HTMX requests.
package site

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/visualgallery/internal/config"
	"github.com/Zachkp/visualgallery/internal/gallery"
	"github.com/Zachkp/visualgallery/internal/logging"
	"github.com/Zachkp/visualgallery/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Server wires the gallery, analytics and admin routes onto a gin engine.
type Server struct {
	cfg      *config.Config
	catalog  *gallery.Catalog
	store    *store.Store
	logger   *zap.Logger
	sessions *SessionStore
	content  *Content
	mailer   Mailer
	hasher   *ipHasher

	adminToken string
	// async runs fire-and-forget work such as analytics writes.
	async    func(func())
	inflight sync.WaitGroup
	now      func() time.Time
}

// Option customizes a Server.
type Option func(*Server)

// WithMailer replaces the SMTP mailer.
func WithMailer(m Mailer) Option {
	return func(s *Server) { s.mailer = m }
}

// New builds a server. st may be nil, in which case analytics are disabled.
func New(cfg *config.Config, catalog *gallery.Catalog, st *store.Store, logger *zap.Logger, opts ...Option) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	content, err := LoadContent(cfg.ContactEmail)
	if err != nil {
		return nil, fmt.Errorf("render content: %w", err)
	}

	s := &Server{
		cfg:        cfg,
		catalog:    catalog,
		store:      st,
		logger:     logger,
		sessions:   NewSessionStore(catalog, cfg.SessionTTL),
		content:    content,
		mailer:     &smtpMailer{cfg: cfg.SMTP, logger: logger},
		hasher:     newIPHasher(),
		adminToken: generateToken(),
		async:      func(f func()) { go f() },
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	logger.Info("admin access available", zap.String("path", "/admin/login"))
	if !cfg.Release() {
		logger.Debug("admin token (dev only)", zap.String("token", s.adminToken))
	}
	if cfg.Admin.Defaulted {
		logger.Warn("using default admin credentials; set ADMIN_USERNAME and ADMIN_PASSWORD")
	}
	return s, nil
}

// Sessions exposes the live session store.
func (s *Server) Sessions() *SessionStore { return s.sessions }

// Run starts background maintenance until ctx is done.
func (s *Server) Run(ctx context.Context) {
	go s.sessions.Run(ctx, s.logger)
	if s.store != nil {
		s.background(s.cleanupOldVisitorData)
	}
}

// background runs f through async and tracks it until it returns.
func (s *Server) background(f func()) {
	s.inflight.Add(1)
	s.async(func() {
		defer s.inflight.Done()
		f()
	})
}

// Drain waits for background analytics writes to finish. Call it after the
// HTTP server has stopped accepting requests and before the store is closed.
func (s *Server) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain analytics writes: %w", ctx.Err())
	}
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"icon":   iconHTML,
		"glyph":  glyph,
		"aspect": aspectStyle,
	}).ParseFS(templateFS, "templates/*.html")
}

// glyph resolves a sprite id at render time; unknown names fail the render.
func glyph(name string) (gallery.Icon, error) {
	icon, ok := gallery.ParseIcon(name)
	if !ok {
		return 0, fmt.Errorf("unknown icon %q", name)
	}
	return icon, nil
}

// aspectStyle renders the CSS aspect-ratio for a tile.
func aspectStyle(a gallery.Aspect) template.CSS {
	if !a.Valid() {
		a = gallery.AspectSquare
	}
	w, h, _ := strings.Cut(string(a), "/")
	return template.CSS("aspect-ratio: " + w + " / " + h)
}

// iconHTML renders a sprite reference for a fixed glyph.
func iconHTML(icon gallery.Icon, size int) template.HTML {
	return template.HTML(fmt.Sprintf(
		`<svg class="icon icon-%[1]s" width="%[2]d" height="%[2]d" aria-hidden="true"><use href="/static/icons.svg#%[1]s"></use></svg>`,
		icon, size))
}

// Engine builds the gin engine with every route.
func (s *Server) Engine() (*gin.Engine, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(logging.Recovery(s.logger), logging.Gin(s.logger))
	r.SetHTMLTemplate(tmpl)

	r.StaticFS("/static", http.FS(static))
	r.Static("/images", s.cfg.ImagesDir)

	r.GET("/healthz", s.healthz)

	r.Use(s.visitorTrackingMiddleware())

	r.GET("/", s.sessionMiddleware(true), s.index)

	page := r.Group("/", s.sessionMiddleware(false))
	{
		page.POST("/gallery/category/:category", s.setCategory)
		page.POST("/gallery/images/:id/open", s.openLightbox)
		page.POST("/gallery/close", s.closeLightbox)
		page.POST("/gallery/navigate/:direction", s.navigate)
		page.POST("/gallery/keys/:key", s.handleKey)

		page.GET("/api/gallery", s.apiGallery)
	}
	r.GET("/api/catalog", s.apiCatalog)

	r.GET("/contact-form", s.contactForm)
	r.POST("/contact", s.contact)

	s.setupAdminRoutes(r)
	return r, nil
}

func (s *Server) healthz(c *gin.Context) {
	if s.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			c.String(http.StatusServiceUnavailable, "store unavailable")
			return
		}
	}
	c.String(http.StatusOK, "ok")
}
