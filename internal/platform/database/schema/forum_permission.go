// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ForumPermissionTable represents the 'forum.permission' table.
// The primary key is (userid, categoryid).
type ForumPermissionTable struct {
	Table          string
	UserID         string
	CategoryID     string
	CanPost        string
	CanDelete      string
	CanView        string
	CanTimeout     string
	CanAttachFiles string
	CanMute        string
	CanBan         string
	CanPromote     string
	CanModify      string
	Level          string
	CreatedAt      string
	UpdatedAt      string
}

// ForumPermission is the schema definition for forum.permission
var ForumPermission = ForumPermissionTable{
	Table:          "forum.permission",
	UserID:         "userid",
	CategoryID:     "categoryid",
	CanPost:        "canpost",
	CanDelete:      "candelete",
	CanView:        "canview",
	CanTimeout:     "cantimeout",
	CanAttachFiles: "canattachfiles",
	CanMute:        "canmute",
	CanBan:         "canban",
	CanPromote:     "canpromote",
	CanModify:      "canmodify",
	Level:          "level",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

// Columns returns the columns scanned into a permission record, in scan order.
func (t ForumPermissionTable) Columns() []string {
	return []string{
		t.UserID, t.CategoryID,
		t.CanPost, t.CanDelete, t.CanView, t.CanTimeout, t.CanAttachFiles,
		t.CanMute, t.CanBan, t.CanPromote, t.CanModify,
		t.Level, t.CreatedAt, t.UpdatedAt,
	}
}
