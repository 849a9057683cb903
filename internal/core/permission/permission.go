// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package permission owns the per-category permission records and the
authorization engine that evaluates them.

A [Record] grants one user a set of boolean capabilities inside one category
plus an integer level. Lower levels are more senior; the category owner holds
level 0. A user with no record has no capabilities and the lowest possible rank.

# Core Responsibility

  - Records: lookup, full grant at category creation, point mutations.
  - Engine: [Authorize] decides allow or deny for an action, including the
    rank comparison for actions aimed at another user.
  - Grant flow: category administrators hand out capabilities they hold.
*/
package permission

import (
	"math"
	"time"

	"github.com/taibuivan/yomira-forum/pkg/slice"
)

// # Capabilities

// Capability names a single boolean permission.
type Capability string

const (
	CapPost        Capability = "canPost"
	CapDelete      Capability = "canDelete"
	CapView        Capability = "canView"
	CapTimeout     Capability = "canTimeout"
	CapAttachFiles Capability = "canAttachFiles"
	CapMute        Capability = "canMute"
	CapBan         Capability = "canBan"
	CapPromote     Capability = "canPromote"
	CapModify      Capability = "canModify"
)

// Capabilities lists every capability in display order.
var Capabilities = []Capability{
	CapPost, CapDelete, CapView, CapTimeout, CapAttachFiles,
	CapMute, CapBan, CapPromote, CapModify,
}

// Valid reports whether c is a known capability.
func (c Capability) Valid() bool {
	for _, known := range Capabilities {
		if c == known {
			return true
		}
	}
	return false
}

// # Actions

// Action is something a user attempts within a category.
type Action string

const (
	ActionView    Action = "view"
	ActionPost    Action = "post"
	ActionDelete  Action = "delete"
	ActionTimeout Action = "timeout"
	ActionMute    Action = "mute"
	ActionBan     Action = "ban"
	ActionPromote Action = "promote"
	// ActionModify lists the caller's own capabilities.
	ActionModify Action = "modify"
	// ActionAudit reads the roster and the moderation log.
	ActionAudit Action = "audit"
	// ActionGrant writes another user's record.
	ActionGrant Action = "grant"
)

const (
	// OwnerLevel is the rank held by a category's creator.
	OwnerLevel = 0
	// MaxLevel bounds levels handed out through the grant flow.
	MaxLevel = 1 << 20
)

// # Records

// Record is one user's grant within one category.
type Record struct {
	UserID         string    `json:"user_id"`
	CategoryID     string    `json:"category_id"`
	Username       string    `json:"username,omitempty"` // Populated on roster listings
	CanPost        bool      `json:"can_post"`
	CanDelete      bool      `json:"can_delete"`
	CanView        bool      `json:"can_view"`
	CanTimeout     bool      `json:"can_timeout"`
	CanAttachFiles bool      `json:"can_attach_files"`
	CanMute        bool      `json:"can_mute"`
	CanBan         bool      `json:"can_ban"`
	CanPromote     bool      `json:"can_promote"`
	CanModify      bool      `json:"can_modify"`
	Level          int       `json:"level"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Full returns the record a category creator receives: every capability at
// [OwnerLevel].
func Full(userID, categoryID string) *Record {
	record := &Record{UserID: userID, CategoryID: categoryID, Level: OwnerLevel}
	for _, capability := range Capabilities {
		record.Set(capability, true)
	}
	return record
}

// field maps a capability to its flag. Unknown capabilities map to nil.
func (r *Record) field(capability Capability) *bool {
	switch capability {
	case CapPost:
		return &r.CanPost
	case CapDelete:
		return &r.CanDelete
	case CapView:
		return &r.CanView
	case CapTimeout:
		return &r.CanTimeout
	case CapAttachFiles:
		return &r.CanAttachFiles
	case CapMute:
		return &r.CanMute
	case CapBan:
		return &r.CanBan
	case CapPromote:
		return &r.CanPromote
	case CapModify:
		return &r.CanModify
	}
	return nil
}

// Has reports whether the record grants capability. A nil record grants nothing.
func (r *Record) Has(capability Capability) bool {
	if r == nil {
		return false
	}
	if flag := r.field(capability); flag != nil {
		return *flag
	}
	return false
}

// Set changes one capability. It reports false for an unknown capability.
func (r *Record) Set(capability Capability, value bool) bool {
	flag := r.field(capability)
	if flag == nil {
		return false
	}
	*flag = value
	return true
}

// Rank returns the record's level, or the lowest possible rank for nil.
func (r *Record) Rank() int {
	if r == nil {
		return math.MaxInt
	}
	return r.Level
}

// Outranks reports whether r is strictly more senior than other.
// An absent record never outranks anything.
func (r *Record) Outranks(other *Record) bool {
	return r != nil && r.Rank() < other.Rank()
}

// Held returns the capabilities the record grants, in display order.
func (r *Record) Held() []Capability {
	return slice.Filter(Capabilities, r.Has)
}

// # Views

// Summary is the caller-facing rendering of a (possibly absent) record.
type Summary struct {
	UserID       string       `json:"user_id"`
	CategoryID   string       `json:"category_id"`
	Capabilities []Capability `json:"capabilities"`
	Level        *int         `json:"level"` // nil when no record exists
}

// Summarize renders r. A nil record yields no capabilities and no level.
func Summarize(userID, categoryID string, r *Record) *Summary {
	summary := &Summary{UserID: userID, CategoryID: categoryID, Capabilities: r.Held()}
	if r != nil {
		level := r.Level
		summary.Level = &level
	}
	return summary
}

// # Field Identifiers

const (
	FieldLevel        = "level"
	FieldCapabilities = "capabilities"
	FieldUserID       = "user_id"
)
