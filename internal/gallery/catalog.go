// Package gallery holds the photo catalog, the category filter and the
// lightbox state machine that drives the gallery page.
package gallery

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog is wrapped by every catalog validation failure.
var ErrInvalidCatalog = errors.New("invalid catalog")

// featuredOverrideCount is how many of the lowest catalog IDs count as featured.
const featuredOverrideCount = 3

// Category is a gallery filter tag.
type Category string

const (
	CategoryAll      Category = "all"
	CategoryFeatured Category = "featured"
	CategoryNature   Category = "nature"
	CategoryUrban    Category = "urban"
	CategoryPortrait Category = "portrait"
)

// Known reports whether c is one of the built-in categories.
func (c Category) Known() bool {
	switch c {
	case CategoryAll, CategoryFeatured, CategoryNature, CategoryUrban, CategoryPortrait:
		return true
	}
	return false
}

// Aspect is a display aspect hint, written as "w/h".
type Aspect string

const (
	AspectPortrait  Aspect = "3/4"
	AspectLandscape Aspect = "4/3"
	AspectWide      Aspect = "16/9"
	AspectTall      Aspect = "4/5"
	AspectClassic   Aspect = "3/2"
	AspectSquare    Aspect = "1/1"
)

// Valid reports whether a is two positive integers separated by a slash.
func (a Aspect) Valid() bool {
	w, h, ok := strings.Cut(string(a), "/")
	if !ok {
		return false
	}
	wi, err := strconv.Atoi(w)
	if err != nil || wi <= 0 {
		return false
	}
	hi, err := strconv.Atoi(h)
	return err == nil && hi > 0
}

// ImageRecord is one photo in the catalog.
type ImageRecord struct {
	ID          int      `json:"id" yaml:"id"`
	Src         string   `json:"src" yaml:"src"`
	Title       string   `json:"title" yaml:"title"`
	Category    Category `json:"category" yaml:"category"`
	Description string   `json:"description" yaml:"description"`
	Aspect      Aspect   `json:"aspect" yaml:"aspect"`
}

// Catalog is an immutable, ordered set of image records.
type Catalog struct {
	records  []ImageRecord
	featured map[int]struct{}
}

// NewCatalog validates records and builds a catalog preserving their order.
func NewCatalog(records []ImageRecord) (*Catalog, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no images", ErrInvalidCatalog)
	}

	seen := make(map[int]struct{}, len(records))
	ids := make([]int, 0, len(records))
	for i, r := range records {
		switch {
		case r.ID <= 0:
			return nil, fmt.Errorf("%w: image %d has non-positive id %d", ErrInvalidCatalog, i, r.ID)
		case r.Src == "":
			return nil, fmt.Errorf("%w: image %d has no src", ErrInvalidCatalog, r.ID)
		case r.Title == "":
			return nil, fmt.Errorf("%w: image %d has no title", ErrInvalidCatalog, r.ID)
		case r.Category == CategoryAll || !r.Category.Known():
			return nil, fmt.Errorf("%w: image %d has category %q", ErrInvalidCatalog, r.ID, r.Category)
		case r.Aspect != "" && !r.Aspect.Valid():
			return nil, fmt.Errorf("%w: image %d has aspect %q", ErrInvalidCatalog, r.ID, r.Aspect)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidCatalog, r.ID)
		}
		seen[r.ID] = struct{}{}
		ids = append(ids, r.ID)
	}

	sort.Ints(ids)
	n := min(featuredOverrideCount, len(ids))
	featured := make(map[int]struct{}, n)
	for _, id := range ids[:n] {
		featured[id] = struct{}{}
	}

	out := make([]ImageRecord, len(records))
	copy(out, records)
	for i := range out {
		if out[i].Aspect == "" {
			out[i].Aspect = AspectSquare
		}
	}
	return &Catalog{records: out, featured: featured}, nil
}

// Images returns a copy of every record in catalog order.
func (c *Catalog) Images() []ImageRecord {
	out := make([]ImageRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Len returns the number of records.
func (c *Catalog) Len() int { return len(c.records) }

// Lookup finds a record by identifier.
func (c *Catalog) Lookup(id int) (ImageRecord, bool) {
	for _, r := range c.records {
		if r.ID == id {
			return r, true
		}
	}
	return ImageRecord{}, false
}

func (c *Catalog) featuredOverride(id int) bool {
	_, ok := c.featured[id]
	return ok
}

type catalogFile struct {
	Images []ImageRecord `yaml:"images"`
}

// LoadCatalog parses a YAML catalog document and validates it.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var doc catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return NewCatalog(doc.Images)
}

// LoadCatalogFile reads a YAML catalog from disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

// DefaultCatalog returns the built-in portfolio images.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultImages)
	if err != nil {
		panic(fmt.Sprintf("default catalog: %v", err))
	}
	return c
}

const uploadedPhoto = "https://oejgkvftpbinliuopipr.supabase.co/storage/v1/object/public/assets/user_347995964/user-photo-1.jpg?"

var defaultImages = []ImageRecord{
	{ID: 1, Src: uploadedPhoto, Title: "Captured Moment", Category: CategoryFeatured, Aspect: AspectPortrait, Description: "A beautiful moment frozen in time"},
	{ID: 2, Src: uploadedPhoto, Title: "Natural Beauty", Category: CategoryNature, Aspect: AspectLandscape, Description: "The essence of natural elegance"},
	{ID: 3, Src: uploadedPhoto, Title: "Visual Story", Category: CategoryPortrait, Aspect: AspectPortrait, Description: "Every picture tells a story"},
	{ID: 4, Src: "https://images.unsplash.com/photo-1493863641943-9b68992a8d07?w=800&q=80", Title: "Urban Exploration", Category: CategoryUrban, Aspect: AspectWide, Description: "Discovering city secrets"},
	{ID: 5, Src: "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=800&q=80", Title: "Mountain Peak", Category: CategoryNature, Aspect: AspectTall, Description: "Above the clouds"},
	{ID: 6, Src: "https://images.unsplash.com/photo-1518837695005-2083093ee35b?w=800&q=80", Title: "Ocean Dreams", Category: CategoryNature, Aspect: AspectClassic, Description: "Endless horizons"},
	{ID: 7, Src: "https://images.unsplash.com/photo-1514565131-fce0801e5785?w=800&q=80", Title: "City Lights", Category: CategoryUrban, Aspect: AspectPortrait, Description: "Night comes alive"},
	{ID: 8, Src: "https://images.unsplash.com/photo-1469474968028-56623f02e42e?w=800&q=80", Title: "Wilderness", Category: CategoryNature, Aspect: AspectWide, Description: "Into the wild"},
}
