package site

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/visualgallery/internal/gallery"
	"github.com/Zachkp/visualgallery/internal/logging"
	"github.com/Zachkp/visualgallery/internal/store"
)

const (
	sessionCookie     = "gallery_session"
	sessionContextKey = "gallery_session"
)

// galleryView is what the gallery and lightbox templates render.
type galleryView struct {
	Categories []gallery.CategoryOption
	gallery.Snapshot
}

func newGalleryView(snap gallery.Snapshot) galleryView {
	return galleryView{Categories: gallery.Categories(), Snapshot: snap}
}

// sessionMiddleware attaches the visitor's gallery session. Only page loads
// (create set) store a new session and issue the cookie; other routes fall back
// to a transient session that is dropped after the request.
func (s *Server) sessionMiddleware(create bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *Session
		if id, err := c.Cookie(sessionCookie); err == nil {
			sess, _ = s.sessions.Get(id)
		}
		switch {
		case sess != nil:
			c.Set(logging.SessionKey, sess.ID)
		case create:
			sess = s.sessions.Create()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, sess.ID, 0, "/", "", s.cfg.Release(), true)
			c.Set(logging.SessionKey, sess.ID)
		default:
			sess = s.sessions.Transient()
		}
		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

func session(c *gin.Context) *Session {
	return c.MustGet(sessionContextKey).(*Session)
}

func (s *Server) index(c *gin.Context) {
	snap := session(c).Do(nil)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"content": s.content,
		"gallery": newGalleryView(snap),
		"hero":    s.heroImage(),
	})
}

// heroImage is the first featured image, shown above the fold.
func (s *Server) heroImage() gallery.ImageRecord {
	if featured := gallery.Filter(s.catalog, gallery.CategoryFeatured); len(featured) > 0 {
		return featured[0]
	}
	return s.catalog.Images()[0]
}

func (s *Server) setCategory(c *gin.Context) {
	category := gallery.Category(c.Param("category"))
	snap := session(c).Do(func(g *gallery.Controller) {
		g.SetCategory(category)
	})
	c.HTML(http.StatusOK, "gallery.html", newGalleryView(snap))
}

func (s *Server) openLightbox(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid image id")
		return
	}
	img, ok := s.catalog.Lookup(id)
	if !ok {
		c.String(http.StatusNotFound, "image not found")
		return
	}

	snap := session(c).Do(func(g *gallery.Controller) {
		g.OpenLightbox(img)
	})
	s.trackImageView(c, img, snap.ActiveCategory)
	c.HTML(http.StatusOK, "lightbox.html", newGalleryView(snap))
}

func (s *Server) closeLightbox(c *gin.Context) {
	snap := session(c).Do(func(g *gallery.Controller) {
		g.CloseLightbox()
	})
	c.HTML(http.StatusOK, "lightbox.html", newGalleryView(snap))
}

func (s *Server) navigate(c *gin.Context) {
	d, ok := gallery.ParseDirection(c.Param("direction"))
	if !ok {
		c.String(http.StatusBadRequest, "direction must be prev or next")
		return
	}
	snap := session(c).Do(func(g *gallery.Controller) {
		g.Navigate(d)
	})
	c.HTML(http.StatusOK, "lightbox.html", newGalleryView(snap))
}

func (s *Server) handleKey(c *gin.Context) {
	key, ok := gallery.ParseKey(c.Param("key"))
	if !ok {
		c.String(http.StatusBadRequest, "unsupported key")
		return
	}
	handled := false
	snap := session(c).Do(func(g *gallery.Controller) {
		handled = g.HandleKey(key)
	})
	if !handled {
		c.Status(http.StatusNoContent)
		return
	}
	c.HTML(http.StatusOK, "lightbox.html", newGalleryView(snap))
}

func (s *Server) apiGallery(c *gin.Context) {
	snap := session(c).Do(nil)
	c.JSON(http.StatusOK, gin.H{
		"active_category": snap.ActiveCategory,
		"images":          snap.Images,
		"selected":        snap.Selected,
		"current_index":   snap.CurrentIndex,
		"open":            snap.Open(),
		"has_prev":        snap.HasPrev(),
		"has_next":        snap.HasNext(),
	})
}

type catalogQuery struct {
	Category string `form:"category" binding:"omitempty,max=32"`
}

func (s *Server) apiCatalog(c *gin.Context) {
	var q catalogQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category := gallery.CategoryAll
	if q.Category != "" {
		category = gallery.Category(q.Category)
	}
	images := gallery.Filter(s.catalog, category)
	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"count":    len(images),
		"images":   images,
	})
}

func (s *Server) trackImageView(c *gin.Context, img gallery.ImageRecord, active gallery.Category) {
	if s.store == nil || c.GetHeader("DNT") == "1" {
		return
	}
	view := store.ImageView{
		ImageID:        img.ID,
		Title:          img.Title,
		Category:       string(img.Category),
		ActiveCategory: string(active),
		HashedIP:       s.hasher.Hash(c.ClientIP()),
		Timestamp:      s.now(),
	}
	ctx := c.Request.Context()
	s.background(func() {
		if err := s.store.RecordImageView(context.WithoutCancel(ctx), view); err != nil {
			s.logger.Error("record image view", zap.Error(err), zap.Int("image_id", view.ImageID))
		}
	})
}
