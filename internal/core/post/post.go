// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package post manages forum posts, their tags and their file attachments.

A post belongs to its author and is never edited once created. Category
membership is handled separately by the membership package; a private post is
visible only to its author.
*/
package post

import "time"

// # Domain Model

// Post is an authored piece of content.
type Post struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	AuthorName  string    `json:"author_name,omitempty"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	IsPublic    bool      `json:"is_public"`
	PublishedAt time.Time `json:"published_at"`

	Tags  []string `json:"tags"`
	Files []*File  `json:"files,omitempty"`
}

// VisibleTo reports whether viewerID may read the post.
func (p *Post) VisibleTo(viewerID string) bool {
	return p.IsPublic || (viewerID != "" && viewerID == p.AuthorID)
}

// File is an attachment stored in the blob store under StorageKey.
type File struct {
	ID          string    `json:"id"`
	PostID      string    `json:"post_id"`
	Name        string    `json:"name"`
	StorageKey  string    `json:"-"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// Ref is what other domains need to authorize work on a post.
type Ref struct {
	ID        string
	AuthorID  string
	FileCount int
}

// HasFiles reports whether the post carries attachments.
func (r *Ref) HasFiles() bool {
	return r.FileCount > 0
}

// CreateInput is the payload for creating a post.
type CreateInput struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	IsPublic *bool    `json:"is_public"`
	Tags     []string `json:"tags"`
}

// Filter narrows a post listing. Empty fields do not filter.
type Filter struct {
	// Query matches title or body, case-insensitively. Title hits rank first.
	Query string
	// Tag is a raw tag name, normalised before matching.
	Tag string
	// Author is a username, matched case-insensitively.
	Author string
}

// # Constants

const (
	FieldTitle = "title"
	FieldBody  = "body"
	FieldFile  = "file"

	TitleMaxLen    = 200
	BodyMaxLen     = 20000
	FileNameMaxLen = 255
	QueryMaxLen    = 200

	// DefaultContentType is used when an upload does not declare one.
	DefaultContentType = "application/octet-stream"
)
