package gallery

import "fmt"

// Direction moves the lightbox one step through the filtered list.
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// ParseDirection maps "prev"/"next" to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "prev":
		return Prev, true
	case "next":
		return Next, true
	}
	return 0, false
}

// Controller owns one session's gallery selection. It is not safe for
// concurrent use; callers serialize events.
type Controller struct {
	catalog *Catalog

	activeCategory Category
	selected       *ImageRecord
	currentIndex   int
}

// NewController returns a controller in the closed state showing every image.
func NewController(c *Catalog) *Controller {
	return &Controller{catalog: c, activeCategory: CategoryAll}
}

// Catalog returns the catalog the controller filters.
func (g *Controller) Catalog() *Catalog { return g.catalog }

// SetCategory changes the active filter. An open lightbox keeps its current
// image and index, which still refer to the previous filtered list.
func (g *Controller) SetCategory(c Category) {
	g.activeCategory = c
}

// OpenLightbox selects img and positions it within the current filtered
// list. The index is -1 when img is not part of that list.
func (g *Controller) OpenLightbox(img ImageRecord) {
	g.selected = &img
	g.currentIndex = indexOf(Filter(g.catalog, g.activeCategory), img.ID)
}

// CloseLightbox clears the selection. The index is left as is.
func (g *Controller) CloseLightbox() {
	g.selected = nil
}

// Navigate moves the selection by d within the filtered list computed now.
// It reports whether the selection moved; it never wraps around.
func (g *Controller) Navigate(d Direction) bool {
	if g.selected == nil || g.currentIndex < 0 {
		return false
	}
	if d != Prev && d != Next {
		return false
	}
	filtered := Filter(g.catalog, g.activeCategory)
	next := g.currentIndex + int(d)
	if next < 0 || next >= len(filtered) {
		return false
	}
	img := filtered[next]
	g.currentIndex = next
	g.selected = &img
	return true
}

// Snapshot is a read-only view of the gallery selection.
type Snapshot struct {
	ActiveCategory Category      `json:"active_category"`
	Images         []ImageRecord `json:"images"`
	Selected       *ImageRecord  `json:"selected,omitempty"`
	CurrentIndex   int           `json:"current_index"`
}

// Snapshot returns the current state with the filtered list for the active category.
func (g *Controller) Snapshot() Snapshot {
	s := Snapshot{
		ActiveCategory: g.activeCategory,
		Images:         Filter(g.catalog, g.activeCategory),
		CurrentIndex:   g.currentIndex,
	}
	if g.selected != nil {
		img := *g.selected
		s.Selected = &img
	}
	return s
}

// Open reports whether the lightbox is showing an image.
func (s Snapshot) Open() bool { return s.Selected != nil }

// Empty reports whether the active category has no images.
func (s Snapshot) Empty() bool { return len(s.Images) == 0 }

// HasPrev reports whether a previous image is reachable. A stale index left
// past the end of the list by a category change has no reachable previous image.
func (s Snapshot) HasPrev() bool {
	return s.Open() && s.CurrentIndex > 0 && s.CurrentIndex-1 < len(s.Images)
}

// HasNext reports whether a next image is reachable.
func (s Snapshot) HasNext() bool {
	return s.Open() && s.CurrentIndex >= 0 && s.CurrentIndex < len(s.Images)-1
}

// Position renders the lightbox counter, e.g. "2 / 4".
func (s Snapshot) Position() string {
	return fmt.Sprintf("%d / %d", s.CurrentIndex+1, len(s.Images))
}
