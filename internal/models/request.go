package models

import (
	"time"
)

// Urgency levels for a board request.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// RemoteLocation is the derived location label for remote requests that
// carry no explicit location.
const RemoteLocation = "Remote"

// ValidUrgency reports whether u is a recognized urgency level.
func ValidUrgency(u string) bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

// Request is a single open ask for help on the campus request board.
// Each user may have at most one active request; the unique index on
// CreatorID backs the application-level existence check.
//
// Board rows are hard-deleted: likes and help offers cascade with the
// parent request and must not linger as soft-deleted ghosts.
type Request struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	CreatorID   uint     `gorm:"not null;uniqueIndex" json:"creator_id"`
	Creator     User     `gorm:"foreignKey:CreatorID" json:"creator"`
	Title       string   `gorm:"not null" json:"title"`
	Description string   `gorm:"type:text;not null" json:"description"`
	Location    string   `gorm:"not null" json:"location"`
	City        string   `json:"city"`
	IsRemote    bool     `json:"is_remote"`
	Tags        []string `gorm:"serializer:json" json:"tags"`
	Urgency     string   `gorm:"not null;default:low" json:"urgency"`

	// LikeCount is not persisted; computed at query time
	LikeCount int `gorm:"->" json:"like_count"`
	// LikedByUser indicates whether the requesting viewer liked this request (computed)
	LikedByUser bool `gorm:"->" json:"liked_by_user"`
	// HelpedByUser indicates whether the requesting viewer offered help (computed)
	HelpedByUser bool `gorm:"->" json:"helped_by_user"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RequestLike records that a user currently likes a request. Presence of
// the row is the whole fact; un-liking deletes it.
type RequestLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RequestID uint      `gorm:"not null;uniqueIndex:idx_request_user_like" json:"request_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_request_user_like" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Request Request `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"-"`
}

// HelpOffer records that a helper has offered to help with a request.
// Creation is idempotent; withdrawal is an explicit delete.
type HelpOffer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RequestID uint      `gorm:"not null;uniqueIndex:idx_request_helper" json:"request_id"`
	HelperID  uint      `gorm:"not null;uniqueIndex:idx_request_helper" json:"helper_id"`
	CreatedAt time.Time `json:"created_at"`

	Request Request `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"-"`
}

// BoardMeta is returned alongside a board listing.
type BoardMeta struct {
	// AutoPruneActive reports that the board is over its prune threshold,
	// not that this particular read deleted anything.
	AutoPruneActive bool `json:"auto_prune_active"`
}
