package gallery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(records []ImageRecord) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func mustLookup(t *testing.T, c *Catalog, id int) ImageRecord {
	t.Helper()
	img, ok := c.Lookup(id)
	require.True(t, ok, "image %d not in catalog", id)
	return img
}

func TestFilter_All(t *testing.T) {
	c := DefaultCatalog()
	got := Filter(c, CategoryAll)
	assert.Len(t, got, c.Len())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, ids(got))
}

func TestFilter_Categories(t *testing.T) {
	c := DefaultCatalog()
	tests := []struct {
		category Category
		want     []int
	}{
		{CategoryFeatured, []int{1, 2, 3}},
		{CategoryNature, []int{2, 5, 6, 8}},
		{CategoryUrban, []int{4, 7}},
		{CategoryPortrait, []int{3}},
		{Category("astro"), []int{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			got := Filter(c, tt.category)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilter_OnlyMatchingTagsOutsideFeatured(t *testing.T) {
	c := DefaultCatalog()
	for _, opt := range Categories() {
		if opt.ID == CategoryAll || opt.ID == CategoryFeatured {
			continue
		}
		for _, r := range Filter(c, opt.ID) {
			assert.Equal(t, opt.ID, r.Category)
		}
	}
}

func TestFilter_FeaturedOverrideUsesLowestIDs(t *testing.T) {
	c, err := NewCatalog([]ImageRecord{
		{ID: 40, Src: "a", Title: "a", Category: CategoryUrban},
		{ID: 10, Src: "b", Title: "b", Category: CategoryNature},
		{ID: 30, Src: "c", Title: "c", Category: CategoryFeatured},
		{ID: 20, Src: "d", Title: "d", Category: CategoryPortrait},
		{ID: 50, Src: "e", Title: "e", Category: CategoryFeatured},
	})
	require.NoError(t, err)

	// 10, 20 and 30 are overridden; 50 is tagged. Catalog order is kept.
	assert.Equal(t, []int{10, 30, 20, 50}, ids(Filter(c, CategoryFeatured)))
}

func TestFilter_DoesNotAliasCatalog(t *testing.T) {
	c := DefaultCatalog()
	got := Filter(c, CategoryAll)
	got[0].Title = "changed"
	assert.Equal(t, "Captured Moment", mustLookup(t, c, 1).Title)
}

func TestController_InitialState(t *testing.T) {
	g := NewController(DefaultCatalog())
	s := g.Snapshot()
	assert.Equal(t, CategoryAll, s.ActiveCategory)
	assert.False(t, s.Open())
	assert.Len(t, s.Images, 8)
}

func TestController_SetCategoryIdempotent(t *testing.T) {
	g := NewController(DefaultCatalog())
	g.SetCategory(CategoryUrban)
	first := g.Snapshot()
	g.SetCategory(CategoryUrban)
	assert.Equal(t, first, g.Snapshot())
}

func TestController_OpenLightboxRoundTrip(t *testing.T) {
	c := DefaultCatalog()
	g := NewController(c)
	g.SetCategory(CategoryUrban)

	img := mustLookup(t, c, 7)
	g.OpenLightbox(img)

	s := g.Snapshot()
	require.True(t, s.Open())
	assert.Equal(t, img, *s.Selected)
	assert.Equal(t, 1, s.CurrentIndex)
}

func TestController_NavigationScenario(t *testing.T) {
	c := DefaultCatalog()
	g := NewController(c)
	g.SetCategory(CategoryNature)
	g.OpenLightbox(mustLookup(t, c, 5))
	assert.Equal(t, 1, g.Snapshot().CurrentIndex)

	assert.True(t, g.Navigate(Next))
	s := g.Snapshot()
	assert.Equal(t, 6, s.Selected.ID)
	assert.Equal(t, 2, s.CurrentIndex)

	assert.True(t, g.Navigate(Next))
	s = g.Snapshot()
	assert.Equal(t, 8, s.Selected.ID)
	assert.Equal(t, 3, s.CurrentIndex)

	assert.False(t, g.Navigate(Next))
	s = g.Snapshot()
	assert.Equal(t, 8, s.Selected.ID)
	assert.Equal(t, 3, s.CurrentIndex)
	assert.Equal(t, "4 / 4", s.Position())
}

func TestController_NavigateClampedAtStart(t *testing.T) {
	c := DefaultCatalog()
	g := NewController(c)
	g.OpenLightbox(mustLookup(t, c, 1))

	assert.False(t, g.Navigate(Prev))
	s := g.Snapshot()
	assert.Equal(t, 0, s.CurrentIndex)
	assert.Equal(t, 1, s.Selected.ID)
	assert.False(t, s.HasPrev())
	assert.True(t, s.HasNext())
}

func TestController_NavigateWhileClosed(t *testing.T) {
	g := NewController(DefaultCatalog())
	before := g.Snapshot()
	assert.False(t, g.Navigate(Next))
	assert.Equal(t, before, g.Snapshot())
}

func TestController_NavigateRejectsOtherSteps(t *testing.T) {
	c := DefaultCatalog()
	g := NewController(c)
	g.OpenLightbox(mustLookup(t, c, 2))
	assert.False(t, g.Navigate(Direction(2)))
	assert.Equal(t, 1, g.Snapshot().CurrentIndex)
}

func TestController_OpenImageOutsideFilter(t *testing.T) {
	c := DefaultCatalog()
	g := NewController(c)
	g.SetCategory(CategoryUrban)
	g.OpenLightbox(mustLookup(t, c, 5))

	s := g.Snapshot()
	require.True(t, s.Open())
	assert.Equal(t, -1, s.CurrentIndex)
	assert.False(t, s.HasPrev())
	assert.False(t, s.HasNext())

	// -1 must never step onto index 0.
	assert.False(t, g.Navigate(Next))
	assert.False(t, g.Navigate(Prev))
	assert.Equal(t, 5, g.Snapshot().Selected.ID)
}

func TestController_CategoryChangeKeepsStaleSelection(t *testing.T) {
	c := DefaultCatalog()
	g := NewController(c)
	g.SetCategory(CategoryNature)
	g.OpenLightbox(mustLookup(t, c, 6))

	g.SetCategory(CategoryUrban)
	s := g.Snapshot()
	require.True(t, s.Open())
	assert.Equal(t, 6, s.Selected.ID)
	assert.Equal(t, 2, s.CurrentIndex)
	assert.Equal(t, "3 / 2", s.Position())

	// Navigation now runs against the urban list [4, 7].
	assert.True(t, s.HasPrev())
	assert.False(t, s.HasNext())
	assert.False(t, g.Navigate(Next))
	assert.True(t, g.Navigate(Prev))
	assert.Equal(t, 7, g.Snapshot().Selected.ID)
}

func TestController_StaleIndexFarPastNewList(t *testing.T) {
	c := DefaultCatalog()
	g := NewController(c)
	g.OpenLightbox(mustLookup(t, c, 8))

	g.SetCategory(CategoryPortrait)
	s := g.Snapshot()
	require.True(t, s.Open())
	assert.Equal(t, 7, s.CurrentIndex)
	assert.Equal(t, "8 / 1", s.Position())
	assert.False(t, s.HasPrev())
	assert.False(t, s.HasNext())

	assert.False(t, g.Navigate(Prev))
	assert.False(t, g.Navigate(Next))
	assert.Equal(t, 8, g.Snapshot().Selected.ID)
}

func TestController_CloseKeepsIndex(t *testing.T) {
	c := DefaultCatalog()
	g := NewController(c)
	g.OpenLightbox(mustLookup(t, c, 4))
	g.CloseLightbox()

	s := g.Snapshot()
	assert.False(t, s.Open())
	assert.Equal(t, 3, s.CurrentIndex)
}

func TestHandleKey(t *testing.T) {
	c := DefaultCatalog()
	g := NewController(c)

	t.Run("ignored while closed", func(t *testing.T) {
		before := g.Snapshot()
		for _, k := range []Key{KeyEscape, KeyLeft, KeyRight} {
			assert.False(t, g.HandleKey(k))
		}
		assert.Equal(t, before, g.Snapshot())
	})

	t.Run("arrows navigate", func(t *testing.T) {
		g.OpenLightbox(mustLookup(t, c, 3))
		assert.True(t, g.HandleKey(KeyRight))
		assert.Equal(t, 4, g.Snapshot().Selected.ID)
		assert.True(t, g.HandleKey(KeyLeft))
		assert.True(t, g.HandleKey(KeyLeft))
		assert.Equal(t, 2, g.Snapshot().Selected.ID)
	})

	t.Run("escape closes", func(t *testing.T) {
		assert.True(t, g.HandleKey(KeyEscape))
		assert.False(t, g.Snapshot().Open())
	})
}

func TestParseKey(t *testing.T) {
	for _, name := range []string{"Escape", "ArrowLeft", "ArrowRight"} {
		k, ok := ParseKey(name)
		require.True(t, ok, name)
		assert.Equal(t, name, k.String())
	}
	_, ok := ParseKey("Enter")
	assert.False(t, ok)
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("prev")
	assert.True(t, ok)
	assert.Equal(t, Prev, d)
	d, ok = ParseDirection("next")
	assert.True(t, ok)
	assert.Equal(t, Next, d)
	_, ok = ParseDirection("up")
	assert.False(t, ok)
}

func TestIcons(t *testing.T) {
	for _, name := range []string{"Camera", "X", "ChevronLeft", "ChevronRight", "Grid3X3", "Image", "Heart", "Share2", "Download", "Menu"} {
		icon, ok := ParseIcon(name)
		require.True(t, ok, name)
		back, ok := ParseIcon(icon.String())
		require.True(t, ok)
		assert.Equal(t, icon, back)
	}
	_, ok := ParseIcon("Rocket")
	assert.False(t, ok)
	assert.Equal(t, "image", Icon(99).String())
}

func TestNewCatalog_Validation(t *testing.T) {
	valid := ImageRecord{ID: 1, Src: "a.jpg", Title: "A", Category: CategoryNature}
	tests := []struct {
		name    string
		records []ImageRecord
	}{
		{"empty", nil},
		{"zero id", []ImageRecord{{Src: "a", Title: "a", Category: CategoryNature}}},
		{"missing src", []ImageRecord{{ID: 1, Title: "a", Category: CategoryNature}}},
		{"missing title", []ImageRecord{{ID: 1, Src: "a", Category: CategoryNature}}},
		{"all tag", []ImageRecord{{ID: 1, Src: "a", Title: "a", Category: CategoryAll}}},
		{"unknown tag", []ImageRecord{{ID: 1, Src: "a", Title: "a", Category: "astro"}}},
		{"duplicate", []ImageRecord{valid, valid}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.records)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	doc := `
images:
  - id: 2
    src: /images/b.jpg
    title: Harbour
    category: urban
    aspect: 16/9
  - id: 1
    src: /images/a.jpg
    title: Fern
    category: nature
    description: Close up
`
	c, err := LoadCatalog(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, ids(c.Images()))

	fern := mustLookup(t, c, 1)
	assert.Equal(t, AspectSquare, fern.Aspect)
	assert.Equal(t, "Close up", fern.Description)
	assert.Equal(t, AspectWide, mustLookup(t, c, 2).Aspect)
}

func TestLoadCatalog_Errors(t *testing.T) {
	_, err := LoadCatalog(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = LoadCatalog(strings.NewReader("images:\n  - id: 1\n    colour: red\n"))
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}
