// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package permission

import (
	"fmt"

	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
)

// Request is the input to [Authorize].
type Request struct {
	// Actor is the caller's record in the category; nil when absent.
	Actor *Record
	// Authenticated is false for anonymous callers.
	Authenticated bool
	// CategoryPublic is the category's visibility flag.
	CategoryPublic bool
	Action         Action
	// Target is the affected user's record for delete, moderation and grant.
	Target *Record
	// HasFiles is set when a post being placed in the category has attachments.
	HasFiles bool
}

// Decision is the outcome of [Authorize]. Reason is user-visible.
type Decision struct {
	Allowed bool
	Reason  string

	anonymous bool
}

func allow() Decision { return Decision{Allowed: true} }

func deny(format string, args ...any) Decision {
	return Decision{Reason: fmt.Sprintf(format, args...)}
}

func missing(capability Capability) Decision {
	return deny("missing %s", capability)
}

// Err converts a denial into an error: 401 for anonymous callers, 403 otherwise.
func (d Decision) Err() error {
	switch {
	case d.Allowed:
		return nil
	case d.anonymous:
		return apperr.Unauthorized(d.Reason)
	default:
		return apperr.Forbidden(d.Reason)
	}
}

// moderationCapability is the capability each user-targeting action requires.
var moderationCapability = map[Action]Capability{
	ActionTimeout: CapTimeout,
	ActionMute:    CapMute,
	ActionBan:     CapBan,
	ActionPromote: CapPromote,
}

/*
Authorize decides whether the actor described by request may perform its action.

Everything is denied by default. The only thing an anonymous caller or a
caller without a record can do is view a public category.

Rank rules (lower level = more senior):

  - delete: actor.level < author.level; an author without a record is lowest.
  - timeout, mute, ban: actor.level < target.level.
  - promote: actor.level + 1 < target.level, so the promoted target stays
    strictly below the actor.
  - grant: the actor must outrank the target's existing record, if any.

A missing target record denies timeout, mute, ban and promote.
*/
func Authorize(request Request) Decision {
	if request.Action == ActionView && request.CategoryPublic {
		return allow()
	}

	if !request.Authenticated {
		return Decision{Reason: "authentication required", anonymous: true}
	}

	actor := request.Actor

	switch request.Action {
	case ActionView:
		if !actor.Has(CapView) {
			return missing(CapView)
		}

	case ActionPost:
		if !actor.Has(CapPost) {
			return missing(CapPost)
		}
		if request.HasFiles && !actor.Has(CapAttachFiles) {
			return missing(CapAttachFiles)
		}

	case ActionDelete:
		if !actor.Has(CapDelete) {
			return missing(CapDelete)
		}
		if !actor.Outranks(request.Target) {
			return deny("the author is not ranked below you")
		}

	case ActionTimeout, ActionMute, ActionBan:
		if !actor.Has(moderationCapability[request.Action]) {
			return missing(moderationCapability[request.Action])
		}
		if request.Target == nil {
			return deny("target has no permissions in this category")
		}
		if !actor.Outranks(request.Target) {
			return deny("cannot %s a user of equal or higher rank", request.Action)
		}

	case ActionPromote:
		if !actor.Has(CapPromote) {
			return missing(CapPromote)
		}
		if request.Target == nil {
			return deny("target has no permissions in this category")
		}
		if actor.Rank() >= request.Target.Rank()-1 {
			return deny("promotion would place the target at or above your rank")
		}

	case ActionModify:
		// Listing one's own capabilities only needs an identity.

	case ActionAudit:
		if !actor.Has(CapModify) {
			return missing(CapModify)
		}

	case ActionGrant:
		if !actor.Has(CapModify) {
			return missing(CapModify)
		}
		if request.Target != nil && !actor.Outranks(request.Target) {
			return deny("cannot change permissions of a user of equal or higher rank")
		}

	default:
		return deny("unknown action %q", request.Action)
	}

	return allow()
}
