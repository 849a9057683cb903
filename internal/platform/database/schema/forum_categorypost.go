// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ForumCategoryPostTable represents the 'forum.categorypost' membership edge.
type ForumCategoryPostTable struct {
	Table      string
	CategoryID string
	PostID     string
	AddedBy    string
	AddedAt    string
}

// ForumCategoryPost is the schema definition for forum.categorypost
var ForumCategoryPost = ForumCategoryPostTable{
	Table:      "forum.categorypost",
	CategoryID: "categoryid",
	PostID:     "postid",
	AddedBy:    "addedby",
	AddedAt:    "addedat",
}
