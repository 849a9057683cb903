// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ForumModerationLogTable represents the append-only 'forum.moderationlog' table
type ForumModerationLogTable struct {
	Table      string
	ID         string
	CategoryID string
	ActorID    string
	TargetID   string
	Action     string
	LevelAfter string
	CreatedAt  string
}

// ForumModerationLog is the schema definition for forum.moderationlog
var ForumModerationLog = ForumModerationLogTable{
	Table:      "forum.moderationlog",
	ID:         "id",
	CategoryID: "categoryid",
	ActorID:    "actorid",
	TargetID:   "targetid",
	Action:     "action",
	LevelAfter: "levelafter",
	CreatedAt:  "createdat",
}

func (t ForumModerationLogTable) Columns() []string {
	return []string{t.ID, t.CategoryID, t.ActorID, t.TargetID, t.Action, t.LevelAfter, t.CreatedAt}
}
