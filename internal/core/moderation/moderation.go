// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package moderation applies timeout, mute, ban and promote to another user's
permission record in a category.

Each action needs its capability and a strict rank advantage over the target
(see permission.Authorize). The read, the check, the mutation and the log entry
all happen in one transaction with the target's record locked.

Effects:

	timeout  canPost = false
	mute     canPost = false
	ban      canPost = false, canView = false
	promote  level - 1
*/
package moderation

import (
	"time"

	"github.com/taibuivan/yomira-forum/internal/core/permission"
	"github.com/taibuivan/yomira-forum/internal/platform/validate"
)

// # Domain Model

// Input is the payload of a moderation request.
type Input struct {
	TargetUserID string `json:"target_user_id"`
}

// LogEntry records one applied action.
type LogEntry struct {
	ID         string            `json:"id"`
	CategoryID string            `json:"category_id"`
	ActorID    string            `json:"actor_id"`
	ActorName  string            `json:"actor_name,omitempty"`
	TargetID   string            `json:"target_id"`
	TargetName string            `json:"target_name,omitempty"`
	Action     permission.Action `json:"action"`
	LevelAfter int               `json:"level_after"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Result is the outcome of an applied action.
type Result struct {
	Action permission.Action  `json:"action"`
	Target *permission.Record `json:"target"`
	Entry  *LogEntry          `json:"entry"`
}

// # Actions

const (
	FieldAction       = "action"
	FieldTargetUserID = "target_user_id"
)

// revoked lists the capabilities each restricting action clears.
var revoked = map[permission.Action][]permission.Capability{
	permission.ActionTimeout: {permission.CapPost},
	permission.ActionMute:    {permission.CapPost},
	permission.ActionBan:     {permission.CapPost, permission.CapView},
}

// ParseAction accepts only the four moderation action names.
func ParseAction(name string) (permission.Action, error) {
	switch action := permission.Action(name); action {
	case permission.ActionTimeout, permission.ActionMute, permission.ActionBan, permission.ActionPromote:
		return action, nil
	}

	return "", validate.FieldErr(FieldAction, "Must be one of: timeout, mute, ban, promote")
}
