package session

import "hubchat/internal/hub"

// Catalog maps tasks to the models available for them. A populated
// catalog comes from the Hub listing; before a token is verified the
// built-in defaults are served instead.
type Catalog struct {
	groups   map[Task][]ModelRef
	defaults map[Task][]ModelRef
}

// NewCatalog creates a catalog backed by the given default models.
func NewCatalog(defaults map[string][]string) *Catalog {
	d := make(map[Task][]ModelRef)
	for tag, ids := range defaults {
		task := Task(tag)
		if !task.Supported() {
			continue
		}
		for _, id := range ids {
			d[task] = append(d[task], ModelRef{ID: id, DisplayName: id})
		}
	}
	return &Catalog{defaults: d}
}

// Replace rebuilds the catalog wholesale from a Hub listing. Entries
// without a pipeline tag are dropped; order within a task is preserved.
func (c *Catalog) Replace(listings []hub.Listing) {
	groups := make(map[Task][]ModelRef)
	for _, l := range listings {
		if l.PipelineTag == "" {
			continue
		}
		task := Task(l.PipelineTag)
		if !task.Supported() {
			continue
		}
		name := l.ModelID
		if name == "" {
			name = l.ID
		}
		groups[task] = append(groups[task], ModelRef{ID: l.ID, DisplayName: name})
	}
	c.groups = groups
}

// Clear drops the fetched catalog, falling back to defaults.
func (c *Catalog) Clear() {
	c.groups = nil
}

// Models returns the models for a task.
func (c *Catalog) Models(task Task) []ModelRef {
	if c.groups != nil {
		return c.groups[task]
	}
	return c.defaults[task]
}

// Fetched reports whether the catalog holds Hub data rather than the
// built-in defaults.
func (c *Catalog) Fetched() bool {
	return c.groups != nil
}
