// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ForumTagTable represents the 'forum.tag' table
type ForumTagTable struct {
	Table string
	ID    string
	Name  string
}

// ForumTag is the schema definition for forum.tag
var ForumTag = ForumTagTable{
	Table: "forum.tag",
	ID:    "id",
	Name:  "name",
}

// ForumPostTagTable represents the 'forum.posttag' junction table
type ForumPostTagTable struct {
	Table  string
	PostID string
	TagID  string
}

// ForumPostTag is the schema definition for forum.posttag
var ForumPostTag = ForumPostTagTable{
	Table:  "forum.posttag",
	PostID: "postid",
	TagID:  "tagid",
}
