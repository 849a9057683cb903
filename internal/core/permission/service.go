// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package permission

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
	"github.com/taibuivan/yomira-forum/internal/platform/postgres"
	"github.com/taibuivan/yomira-forum/internal/platform/validate"
)

// # Service Layer

// Service exposes permission records and evaluates actions against them.
type Service struct {
	repo       Repository
	categories CategoryLookup
	users      UserLookup
	tx         postgres.Transactor
	logger     *slog.Logger
}

// NewService constructs a new permission [Service].
func NewService(repo Repository, categories CategoryLookup, users UserLookup, tx postgres.Transactor, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		users:      users,
		tx:         tx,
		logger:     logger,
	}
}

// Query describes an authorization check issued by another domain.
type Query struct {
	ActorID        string // "" for anonymous
	CategoryID     string
	CategoryPublic bool
	Action         Action
	TargetUserID   string // user whose record the rank rule compares against
	HasFiles       bool
}

// # Record Access

// Get returns the record for (userID, categoryID), or nil when absent.
func (service *Service) Get(context context.Context, userID, categoryID string) (*Record, error) {
	return service.repo.Find(context, userID, categoryID)
}

/*
GrantFull gives userID every capability at the owner level in categoryID.

Called inside the category creation transaction.
*/
func (service *Service) GrantFull(context context.Context, userID, categoryID string) (*Record, error) {
	record := Full(userID, categoryID)
	if err := service.repo.Create(context, record); err != nil {
		return nil, err
	}
	return record, nil
}

/*
Check loads the records a query needs and runs [Authorize].

Returns:
  - error: nil when allowed, apperr.Unauthorized or apperr.Forbidden otherwise
*/
func (service *Service) Check(context context.Context, query Query) error {
	request := Request{
		Authenticated:  query.ActorID != "",
		CategoryPublic: query.CategoryPublic,
		Action:         query.Action,
		HasFiles:       query.HasFiles,
	}

	if request.Authenticated {
		actor, err := service.repo.Find(context, query.ActorID, query.CategoryID)
		if err != nil {
			return err
		}
		request.Actor = actor
	}

	if request.Authenticated && query.TargetUserID != "" {
		target, err := service.repo.Find(context, query.TargetUserID, query.CategoryID)
		if err != nil {
			return err
		}
		request.Target = target
	}

	decision := Authorize(request)
	if !decision.Allowed {
		service.logger.DebugContext(context, "permission_denied",
			slog.String("actor_id", query.ActorID),
			slog.String("category_id", query.CategoryID),
			slog.String("action", string(query.Action)),
			slog.String("reason", decision.Reason),
		)
	}

	return decision.Err()
}

// # Caller-facing Views

/*
Mine returns the caller's own capability list for a category.

Returns:
  - *Summary: All-false with no level when the caller has no record
  - error: apperr.Unauthorized for anonymous callers, apperr.NotFound for
    an unknown category
*/
func (service *Service) Mine(context context.Context, actorID, categoryID string) (*Summary, error) {
	if actorID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	if _, err := service.categories.Visibility(context, categoryID); err != nil {
		return nil, err
	}

	record, err := service.repo.Find(context, actorID, categoryID)
	if err != nil {
		return nil, err
	}

	if err := Authorize(Request{Actor: record, Authenticated: true, Action: ActionModify}).Err(); err != nil {
		return nil, err
	}

	return Summarize(actorID, categoryID, record), nil
}

// Roster lists every record in the category. Requires canModify.
func (service *Service) Roster(context context.Context, actorID, categoryID string) ([]*Record, error) {
	isPublic, err := service.categories.Visibility(context, categoryID)
	if err != nil {
		return nil, err
	}

	if err := service.Check(context, Query{
		ActorID:        actorID,
		CategoryID:     categoryID,
		CategoryPublic: isPublic,
		Action:         ActionAudit,
	}); err != nil {
		return nil, err
	}

	return service.repo.ListByCategory(context, categoryID)
}

// # Grant Flow

// GrantInput is the desired state of another user's record.
type GrantInput struct {
	Capabilities map[Capability]bool `json:"capabilities"`
	Level        int                 `json:"level"`
}

/*
Grant creates or replaces targetID's record in categoryID.

Rules:
 1. The actor needs canModify and must outrank any existing target record.
 2. The new level must be strictly below the actor's own rank.
 3. Only capabilities the actor holds may be granted.

The read-check-write runs in one transaction with the target row locked.
*/
func (service *Service) Grant(ctx context.Context, actorID, categoryID, targetID string, input GrantInput) (*Record, error) {
	if actorID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	validator := &validate.Validator{}
	validator.Range(FieldLevel, input.Level, OwnerLevel, MaxLevel)
	for capability := range input.Capabilities {
		validator.Custom(FieldCapabilities, !capability.Valid(), fmt.Sprintf("unknown capability %q", capability))
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.categories.Visibility(ctx, categoryID); err != nil {
		return nil, err
	}
	if err := service.users.Exists(ctx, targetID); err != nil {
		return nil, err
	}

	record := &Record{UserID: targetID, CategoryID: categoryID, Level: input.Level}
	for capability, value := range input.Capabilities {
		record.Set(capability, value)
	}

	err := service.tx.RunInTx(ctx, func(ctx context.Context) error {
		actor, err := service.repo.Find(ctx, actorID, categoryID)
		if err != nil {
			return err
		}

		target, err := service.repo.FindForUpdate(ctx, targetID, categoryID)
		if err != nil {
			return err
		}

		if err := Authorize(Request{Actor: actor, Authenticated: true, Action: ActionGrant, Target: target}).Err(); err != nil {
			return err
		}

		if input.Level <= actor.Level {
			return apperr.Forbidden(fmt.Sprintf("granted level must be greater than your own (%d)", actor.Level))
		}

		for _, capability := range record.Held() {
			if !actor.Has(capability) {
				return apperr.Forbidden(fmt.Sprintf("cannot grant %s without holding it", capability))
			}
		}

		return service.repo.Upsert(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "permission_granted",
		slog.String("actor_id", actorID),
		slog.String("target_id", targetID),
		slog.String("category_id", categoryID),
		slog.Int("level", record.Level),
	)

	return record, nil
}
