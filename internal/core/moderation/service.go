// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package moderation

import (
	"context"
	"log/slog"

	"github.com/taibuivan/yomira-forum/internal/core/permission"
	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
	"github.com/taibuivan/yomira-forum/internal/platform/postgres"
	"github.com/taibuivan/yomira-forum/internal/platform/validate"
	"github.com/taibuivan/yomira-forum/pkg/pagination"
	"github.com/taibuivan/yomira-forum/pkg/uuid"
)

// # Dependencies

// Records is the slice of the permission store moderation mutates.
type Records interface {
	Find(context context.Context, userID, categoryID string) (*permission.Record, error)
	FindForUpdate(context context.Context, userID, categoryID string) (*permission.Record, error)
	SetCapability(context context.Context, userID, categoryID string, capability permission.Capability, value bool) error
	SetLevel(context context.Context, userID, categoryID string, level int) error
}

// Permissions evaluates actions that need no row lock.
type Permissions interface {
	Check(context context.Context, query permission.Query) error
}

// Service applies moderation actions.
type Service struct {
	repo        Repository
	records     Records
	permissions Permissions
	categories  permission.CategoryLookup
	users       permission.UserLookup
	tx          postgres.Transactor
	logger      *slog.Logger
}

// NewService constructs a new moderation [Service].
func NewService(
	repo Repository,
	records Records,
	permissions Permissions,
	categories permission.CategoryLookup,
	users permission.UserLookup,
	tx postgres.Transactor,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:        repo,
		records:     records,
		permissions: permissions,
		categories:  categories,
		users:       users,
		tx:          tx,
		logger:      logger,
	}
}

// # Apply

/*
Apply runs one moderation action by actorID against targetID in categoryID.

Order of checks:
 1. The action name must be one of the four moderation actions (400).
 2. The category and the target user must exist (404).
 3. The caller must be authenticated (401).
 4. Inside the transaction, [permission.Authorize] decides (403).

Returns:
  - *Result: The target's record after the change, and the log entry
  - error: As above, or storage failures
*/
func (service *Service) Apply(ctx context.Context, actorID, categoryID, actionName string, input Input) (*Result, error) {
	action, err := ParseAction(actionName)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldTargetUserID, input.TargetUserID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.categories.Visibility(ctx, categoryID); err != nil {
		return nil, err
	}
	if err := service.users.Exists(ctx, input.TargetUserID); err != nil {
		return nil, err
	}

	if actorID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	result := &Result{Action: action}

	err = service.tx.RunInTx(ctx, func(ctx context.Context) error {
		actor, err := service.records.Find(ctx, actorID, categoryID)
		if err != nil {
			return err
		}

		target, err := service.records.FindForUpdate(ctx, input.TargetUserID, categoryID)
		if err != nil {
			return err
		}

		if err := permission.Authorize(permission.Request{
			Actor:         actor,
			Authenticated: true,
			Action:        action,
			Target:        target,
		}).Err(); err != nil {
			return err
		}

		if err := service.mutate(ctx, action, target); err != nil {
			return err
		}

		entry := &LogEntry{
			ID:         uuid.New(),
			CategoryID: categoryID,
			ActorID:    actorID,
			TargetID:   target.UserID,
			Action:     action,
			LevelAfter: target.Level,
		}
		if err := service.repo.Append(ctx, entry); err != nil {
			return err
		}

		result.Target = target
		result.Entry = entry
		return nil
	})
	if err != nil {
		service.logger.DebugContext(ctx, "moderation_rejected",
			slog.String("action", string(action)),
			slog.String("actor_id", actorID),
			slog.String("target_id", input.TargetUserID),
			slog.String("category_id", categoryID),
			slog.String("reason", err.Error()),
		)
		return nil, err
	}

	service.logger.InfoContext(ctx, "moderation_applied",
		slog.String("action", string(action)),
		slog.String("actor_id", actorID),
		slog.String("target_id", input.TargetUserID),
		slog.String("category_id", categoryID),
		slog.Int("level_after", result.Target.Level),
	)

	return result, nil
}

// mutate writes the action's effect and mirrors it on target.
func (service *Service) mutate(context context.Context, action permission.Action, target *permission.Record) error {
	if action == permission.ActionPromote {
		level := target.Level - 1
		if err := service.records.SetLevel(context, target.UserID, target.CategoryID, level); err != nil {
			return err
		}
		target.Level = level
		return nil
	}

	for _, capability := range revoked[action] {
		if err := service.records.SetCapability(context, target.UserID, target.CategoryID, capability, false); err != nil {
			return err
		}
		target.Set(capability, false)
	}

	return nil
}

// # Audit

// Log pages through the category's moderation log. Requires canModify.
func (service *Service) Log(context context.Context, actorID, categoryID string, params pagination.Params) ([]*LogEntry, int, error) {
	isPublic, err := service.categories.Visibility(context, categoryID)
	if err != nil {
		return nil, 0, err
	}

	if err := service.permissions.Check(context, permission.Query{
		ActorID:        actorID,
		CategoryID:     categoryID,
		CategoryPublic: isPublic,
		Action:         permission.ActionAudit,
	}); err != nil {
		return nil, 0, err
	}

	return service.repo.List(context, categoryID, params)
}
