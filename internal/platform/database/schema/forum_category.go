// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ForumCategoryTable represents the 'forum.category' table
type ForumCategoryTable struct {
	Table     string
	ID        string
	Name      string
	Slug      string
	IsPublic  string
	OwnerID   string
	CreatedAt string
}

// ForumCategory is the schema definition for forum.category
var ForumCategory = ForumCategoryTable{
	Table:     "forum.category",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	IsPublic:  "ispublic",
	OwnerID:   "ownerid",
	CreatedAt: "createdat",
}

func (t ForumCategoryTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug, t.IsPublic, t.OwnerID, t.CreatedAt}
}
