// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ForumPostTable represents the 'forum.post' table
type ForumPostTable struct {
	Table       string
	ID          string
	AuthorID    string
	Title       string
	Body        string
	IsPublic    string
	PublishedAt string
}

// ForumPost is the schema definition for forum.post
var ForumPost = ForumPostTable{
	Table:       "forum.post",
	ID:          "id",
	AuthorID:    "authorid",
	Title:       "title",
	Body:        "body",
	IsPublic:    "ispublic",
	PublishedAt: "publishedat",
}

func (t ForumPostTable) Columns() []string {
	return []string{t.ID, t.AuthorID, t.Title, t.Body, t.IsPublic, t.PublishedAt}
}

// ForumFileTable represents the 'forum.file' table
type ForumFileTable struct {
	Table       string
	ID          string
	PostID      string
	Name        string
	StorageKey  string
	ContentType string
	Size        string
	CreatedAt   string
}

// ForumFile is the schema definition for forum.file
var ForumFile = ForumFileTable{
	Table:       "forum.file",
	ID:          "id",
	PostID:      "postid",
	Name:        "name",
	StorageKey:  "storagekey",
	ContentType: "contenttype",
	Size:        "size",
	CreatedAt:   "createdat",
}

func (t ForumFileTable) Columns() []string {
	return []string{t.ID, t.PostID, t.Name, t.StorageKey, t.ContentType, t.Size, t.CreatedAt}
}
