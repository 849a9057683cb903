// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
)

func recordWith(level int, capabilities ...Capability) *Record {
	record := &Record{UserID: "u", CategoryID: "c", Level: level}
	for _, capability := range capabilities {
		record.Set(capability, true)
	}
	return record
}

var allActions = []Action{
	ActionView, ActionPost, ActionDelete, ActionTimeout, ActionMute,
	ActionBan, ActionPromote, ActionAudit, ActionGrant,
}

/*
TestAuthorize_DefaultDeny: without a record nothing is allowed except viewing
a public category.
*/
func TestAuthorize_DefaultDeny(t *testing.T) {
	for _, action := range allActions {
		for _, public := range []bool{true, false} {
			decision := Authorize(Request{
				Authenticated:  true,
				CategoryPublic: public,
				Action:         action,
				Target:         recordWith(9),
			})

			want := action == ActionView && public
			assert.Equal(t, want, decision.Allowed, "action=%s public=%v", action, public)
		}
	}
}

/*
TestAuthorize_Anonymous yields 401 rather than 403.
*/
func TestAuthorize_Anonymous(t *testing.T) {
	assert.True(t, Authorize(Request{CategoryPublic: true, Action: ActionView}).Allowed)

	decision := Authorize(Request{Action: ActionView})
	assert.False(t, decision.Allowed)
	assert.True(t, apperr.HasCode(decision.Err(), apperr.CodeUnauthorized))

	decision = Authorize(Request{Action: ActionModify, CategoryPublic: true})
	assert.True(t, apperr.HasCode(decision.Err(), apperr.CodeUnauthorized))
}

/*
TestAuthorize_Modify only needs an identity.
*/
func TestAuthorize_Modify(t *testing.T) {
	assert.True(t, Authorize(Request{Authenticated: true, Action: ActionModify}).Allowed)
}

/*
TestAuthorize_View honours canView on private categories.
*/
func TestAuthorize_View(t *testing.T) {
	assert.True(t, Authorize(Request{Authenticated: true, Actor: recordWith(3, CapView), Action: ActionView}).Allowed)

	decision := Authorize(Request{Authenticated: true, Actor: recordWith(3, CapPost), Action: ActionView})
	assert.False(t, decision.Allowed)
	assert.Equal(t, "missing canView", decision.Reason)
	assert.True(t, apperr.HasCode(decision.Err(), apperr.CodeForbidden))
}

/*
TestAuthorize_AttachFileGate: files additionally require canAttachFiles.
*/
func TestAuthorize_AttachFileGate(t *testing.T) {
	poster := recordWith(5, CapPost)

	withFiles := Authorize(Request{Authenticated: true, Actor: poster, Action: ActionPost, HasFiles: true})
	assert.False(t, withFiles.Allowed)
	assert.Equal(t, "missing canAttachFiles", withFiles.Reason)

	assert.True(t, Authorize(Request{Authenticated: true, Actor: poster, Action: ActionPost}).Allowed)

	poster.Set(CapAttachFiles, true)
	assert.True(t, Authorize(Request{Authenticated: true, Actor: poster, Action: ActionPost, HasFiles: true}).Allowed)
}

/*
TestAuthorize_RankMonotonicity: timeout, mute and ban succeed iff the actor holds
the capability and strictly outranks the target.
*/
func TestAuthorize_RankMonotonicity(t *testing.T) {
	for action, capability := range map[Action]Capability{
		ActionTimeout: CapTimeout,
		ActionMute:    CapMute,
		ActionBan:     CapBan,
	} {
		for actorLevel := 0; actorLevel <= 4; actorLevel++ {
			for targetLevel := 0; targetLevel <= 4; targetLevel++ {
				for _, held := range []bool{true, false} {
					actor := recordWith(actorLevel)
					actor.Set(capability, held)

					decision := Authorize(Request{
						Authenticated: true,
						Actor:         actor,
						Action:        action,
						Target:        recordWith(targetLevel),
					})

					want := held && actorLevel < targetLevel
					assert.Equal(t, want, decision.Allowed,
						"%s actor=%d target=%d held=%v", action, actorLevel, targetLevel, held)
				}
			}
		}
	}
}

/*
TestAuthorize_MissingTarget denies moderation of users without a record.
*/
func TestAuthorize_MissingTarget(t *testing.T) {
	owner := Full("owner", "c")
	for _, action := range []Action{ActionTimeout, ActionMute, ActionBan, ActionPromote} {
		decision := Authorize(Request{Authenticated: true, Actor: owner, Action: action})
		assert.False(t, decision.Allowed, action)
	}
}

/*
TestAuthorize_Promote forbids leapfrogging.
*/
func TestAuthorize_Promote(t *testing.T) {
	tests := []struct {
		actor, target int
		allowed       bool
	}{
		{0, 2, true},
		{0, 1, false},
		{0, 0, false},
		{3, 5, true},
		{3, 4, false},
		{4, 3, false},
	}

	for _, tt := range tests {
		decision := Authorize(Request{
			Authenticated: true,
			Actor:         recordWith(tt.actor, CapPromote),
			Action:        ActionPromote,
			Target:        recordWith(tt.target),
		})
		assert.Equal(t, tt.allowed, decision.Allowed, "actor=%d target=%d", tt.actor, tt.target)
	}
}

/*
TestAuthorize_Delete treats an author without a record as lowest rank.
*/
func TestAuthorize_Delete(t *testing.T) {
	moderator := recordWith(2, CapDelete)

	assert.True(t, Authorize(Request{Authenticated: true, Actor: moderator, Action: ActionDelete}).Allowed)
	assert.True(t, Authorize(Request{Authenticated: true, Actor: moderator, Action: ActionDelete, Target: recordWith(3)}).Allowed)
	assert.False(t, Authorize(Request{Authenticated: true, Actor: moderator, Action: ActionDelete, Target: recordWith(2)}).Allowed)
	assert.False(t, Authorize(Request{Authenticated: true, Actor: recordWith(0), Action: ActionDelete}).Allowed)
}

/*
TestAuthorize_OwnerSupremacy: nobody can moderate a level-0 owner.
*/
func TestAuthorize_OwnerSupremacy(t *testing.T) {
	owner := Full("owner", "c")
	peerOwner := Full("other", "c")

	for _, action := range []Action{ActionTimeout, ActionMute, ActionBan, ActionPromote, ActionGrant} {
		decision := Authorize(Request{Authenticated: true, Actor: peerOwner, Action: action, Target: owner})
		assert.False(t, decision.Allowed, action)
	}
}

/*
TestAuthorize_Scenario walks the owner/newcomer story end to end.
*/
func TestAuthorize_Scenario(t *testing.T) {
	owner := Full("A", "C")

	decision := Authorize(Request{Authenticated: true, Action: ActionPost})
	assert.Equal(t, "missing canPost", decision.Reason)

	newcomer := recordWith(5, CapPost)
	assert.True(t, Authorize(Request{Authenticated: true, Actor: newcomer, Action: ActionPost}).Allowed)

	assert.False(t, Authorize(Request{Authenticated: true, Actor: newcomer, Action: ActionBan, Target: owner}).Allowed)
	assert.True(t, Authorize(Request{Authenticated: true, Actor: owner, Action: ActionBan, Target: newcomer}).Allowed)
}

/*
TestAuthorize_Grant requires canModify and outranking an existing record.
*/
func TestAuthorize_Grant(t *testing.T) {
	admin := recordWith(1, CapModify)

	assert.True(t, Authorize(Request{Authenticated: true, Actor: admin, Action: ActionGrant}).Allowed)
	assert.True(t, Authorize(Request{Authenticated: true, Actor: admin, Action: ActionGrant, Target: recordWith(2)}).Allowed)
	assert.False(t, Authorize(Request{Authenticated: true, Actor: admin, Action: ActionGrant, Target: recordWith(1)}).Allowed)
	assert.False(t, Authorize(Request{Authenticated: true, Actor: recordWith(0), Action: ActionGrant}).Allowed)
}

func TestRecord_NilSafety(t *testing.T) {
	var record *Record
	assert.False(t, record.Has(CapView))
	assert.Empty(t, record.Held())
	assert.False(t, record.Outranks(recordWith(100)))

	summary := Summarize("u", "c", record)
	assert.Nil(t, summary.Level)
	assert.Empty(t, summary.Capabilities)
}

func TestFull(t *testing.T) {
	record := Full("owner", "c")
	assert.Equal(t, OwnerLevel, record.Level)
	assert.Equal(t, Capabilities, record.Held())
	assert.False(t, record.Set(Capability("canFly"), true))
	assert.False(t, Capability("canFly").Valid())
}
