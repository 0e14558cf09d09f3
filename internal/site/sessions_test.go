package site

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Zachkp/visualgallery/internal/gallery"
)

func TestSessionStore_CreateGet(t *testing.T) {
	s := NewSessionStore(gallery.DefaultCatalog(), time.Minute)
	sess := s.Create()
	got, ok := s.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)

	_, ok = s.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestSessionStore_TransientIsNotStored(t *testing.T) {
	s := NewSessionStore(gallery.DefaultCatalog(), time.Minute)
	sess := s.Transient()
	snap := sess.Do(func(g *gallery.Controller) { g.SetCategory(gallery.CategoryUrban) })
	assert.Equal(t, gallery.CategoryUrban, snap.ActiveCategory)
	assert.Empty(t, sess.ID)
	assert.Zero(t, s.Len())
}

func TestSessionStore_Sweep(t *testing.T) {
	s := NewSessionStore(gallery.DefaultCatalog(), time.Minute)
	idle := s.Create()
	s.Create()

	assert.Zero(t, s.Sweep(time.Now()))
	assert.Equal(t, 2, s.Sweep(time.Now().Add(2*time.Minute)))
	_, ok := s.Get(idle.ID)
	assert.False(t, ok)
}

func TestSession_DoSerializes(t *testing.T) {
	s := NewSessionStore(gallery.DefaultCatalog(), time.Minute)
	sess := s.Create()
	img, _ := gallery.DefaultCatalog().Lookup(1)
	sess.Do(func(g *gallery.Controller) { g.OpenLightbox(img) })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess.Do(func(g *gallery.Controller) { g.Navigate(gallery.Next) })
		}()
	}
	wg.Wait()

	snap := sess.Do(nil)
	assert.Equal(t, len(snap.Images)-1, snap.CurrentIndex)
	assert.Equal(t, 8, snap.Selected.ID)
}

func TestSessionStore_RunStops(t *testing.T) {
	s := NewSessionStore(gallery.DefaultCatalog(), time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, zap.NewNop())
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
