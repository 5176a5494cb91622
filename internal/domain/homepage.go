package domain

import (
	"encoding/json"
	"time"
)

// HomepageSection is an admin-editable content block keyed by section name
// (hero, banners, featured). Content is opaque JSON; the backend stores and
// serves it without interpreting its shape.
type HomepageSection struct {
	Key       string          `json:"key"`
	Content   json.RawMessage `json:"content"`
	UpdatedAt time.Time       `json:"updated_at"`
}
