package model

import (
	"fmt"
	"time"
)

// Content is a cached reference to externally hosted binary content,
// typically a banner image. Source is the internal locator (a remote URL
// or a file path) and is never exposed directly; consumers go through the
// derived CDN path instead.
type Content struct {
	ID        int64      `json:"id"`
	Source    string     `json:"-"`
	Mime      string     `json:"mime"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// URL is the external location of this content, as opposed to Source,
// which is where the bytes actually live.
func (c Content) URL() string {
	return fmt.Sprintf("/cdn/%d", c.ID)
}

// Expired reports whether the content is logically gone for retrieval.
// The row itself persists until explicitly deleted.
func (c Content) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

type ContentRequest struct {
	Source    string     `json:"source"`
	Mime      string     `json:"mime"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

type ContentUpdate struct {
	Source    *string    `json:"source"`
	Mime      *string    `json:"mime"`
	ExpiresAt *time.Time `json:"expiresAt"`
}
