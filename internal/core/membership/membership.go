// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package membership places posts into categories.

A post may belong to any number of categories regardless of who wrote it.
Adding requires canPost in the category (plus canAttachFiles when the post has
attachments). Removing is always allowed to the post's author; anyone else
needs canDelete and must outrank the author.
*/
package membership

import "time"

// Membership is the edge recording that a post belongs to a category.
type Membership struct {
	CategoryID string    `json:"category_id"`
	PostID     string    `json:"post_id"`
	AddedBy    string    `json:"added_by"`
	AddedAt    time.Time `json:"added_at"`
	// Created is false when the edge already existed.
	Created bool `json:"created"`
}

// AddInput is the payload for adding a post to a category.
type AddInput struct {
	PostID string `json:"post_id"`
}

const FieldPostID = "post_id"
