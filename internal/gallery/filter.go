package gallery

// Filter returns the catalog records visible under category, in catalog order.
//
// "all" matches everything. "featured" matches records tagged featured OR
// any of the three lowest catalog IDs, whatever their own tag. Unknown
// categories match nothing.
func Filter(c *Catalog, category Category) []ImageRecord {
	if category == CategoryAll {
		return c.Images()
	}
	out := make([]ImageRecord, 0, len(c.records))
	for _, r := range c.records {
		if r.Category == category || (category == CategoryFeatured && c.featuredOverride(r.ID)) {
			out = append(out, r)
		}
	}
	return out
}

// indexOf returns the position of the first record with id, or -1.
func indexOf(records []ImageRecord, id int) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
