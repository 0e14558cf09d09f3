package gallery

// Icon is one of the fixed presentation glyphs.
type Icon int

const (
	IconCamera Icon = iota
	IconClose
	IconChevronLeft
	IconChevronRight
	IconGrid
	IconImage
	IconHeart
	IconShare
	IconDownload
	IconMenu
)

var iconNames = [...]string{
	IconCamera:       "camera",
	IconClose:        "close",
	IconChevronLeft:  "chevron-left",
	IconChevronRight: "chevron-right",
	IconGrid:         "grid",
	IconImage:        "image",
	IconHeart:        "heart",
	IconShare:        "share",
	IconDownload:     "download",
	IconMenu:         "menu",
}

// String returns the sprite symbol id for the icon.
func (i Icon) String() string {
	if i < 0 || int(i) >= len(iconNames) {
		return iconNames[IconImage]
	}
	return iconNames[i]
}

// ParseIcon resolves a glyph by its symbol id or by its lucide component name.
func ParseIcon(name string) (Icon, bool) {
	switch name {
	case "Camera", "camera":
		return IconCamera, true
	case "X", "close":
		return IconClose, true
	case "ChevronLeft", "chevron-left":
		return IconChevronLeft, true
	case "ChevronRight", "chevron-right":
		return IconChevronRight, true
	case "Grid3X3", "grid":
		return IconGrid, true
	case "Image", "image":
		return IconImage, true
	case "Heart", "heart":
		return IconHeart, true
	case "Share2", "share":
		return IconShare, true
	case "Download", "download":
		return IconDownload, true
	case "Menu", "menu":
		return IconMenu, true
	}
	return 0, false
}

// CategoryOption is one filter button.
type CategoryOption struct {
	ID    Category
	Label string
	Icon  Icon
}

// Categories returns the filter buttons in display order.
func Categories() []CategoryOption {
	return []CategoryOption{
		{ID: CategoryAll, Label: "All Photos", Icon: IconGrid},
		{ID: CategoryFeatured, Label: "Featured", Icon: IconHeart},
		{ID: CategoryNature, Label: "Nature", Icon: IconImage},
		{ID: CategoryUrban, Label: "Urban", Icon: IconCamera},
		{ID: CategoryPortrait, Label: "Portrait", Icon: IconHeart},
	}
}
