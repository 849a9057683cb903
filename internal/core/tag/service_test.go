// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
)

type memRepository struct {
	tags  map[string]int64
	links map[string][]int64
	next  int64
}

func newMemRepository() *memRepository {
	return &memRepository{tags: map[string]int64{}, links: map[string][]int64{}}
}

func (repo *memRepository) Upsert(_ context.Context, names []string) ([]Tag, error) {
	tags := make([]Tag, 0, len(names))
	for _, name := range names {
		id, ok := repo.tags[name]
		if !ok {
			repo.next++
			id = repo.next
			repo.tags[name] = id
		}
		tags = append(tags, Tag{ID: id, Name: name})
	}
	return tags, nil
}

func (repo *memRepository) Attach(_ context.Context, postID string, tagIDs []int64) error {
	repo.links[postID] = append(repo.links[postID], tagIDs...)
	return nil
}

func (repo *memRepository) NamesForPost(_ context.Context, postID string) ([]string, error) {
	var names []string
	for name, id := range repo.tags {
		for _, linked := range repo.links[postID] {
			if linked == id {
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

func (repo *memRepository) NamesForPosts(ctx context.Context, postIDs []string) (map[string][]string, error) {
	result := map[string][]string{}
	for _, postID := range postIDs {
		names, _ := repo.NamesForPost(ctx, postID)
		if len(names) > 0 {
			result[postID] = names
		}
	}
	return result, nil
}

func (repo *memRepository) List(context.Context) ([]*Tag, error) { return nil, nil }

func (repo *memRepository) FindByName(_ context.Context, name string) (*Tag, error) {
	id, ok := repo.tags[name]
	if !ok {
		return nil, apperr.NotFound("Tag")
	}
	return &Tag{ID: id, Name: name}, nil
}

func newTestService() (*Service, *memRepository) {
	repo := newMemRepository()
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func TestService_Attach(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	names, err := service.Attach(ctx, "p1", []string{"Go", "Web Dev", "go"})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "web dev"}, names)
	assert.Equal(t, []int64{repo.tags["go"], repo.tags["web dev"]}, repo.links["p1"])

	_, err = service.Attach(ctx, "p2", []string{"GO!"})
	require.NoError(t, err)
	assert.Len(t, repo.tags, 2)
	assert.Equal(t, repo.links["p1"][0], repo.links["p2"][0])

	stored, err := service.NamesForPost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "web dev"}, stored)

	names, err = service.Attach(ctx, "p3", nil)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Empty(t, repo.links["p3"])
}

func TestService_Get(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	_, err := service.Attach(ctx, "p1", []string{"golang"})
	require.NoError(t, err)

	tag, err := service.Get(ctx, "GoLang")
	require.NoError(t, err)
	assert.Equal(t, "golang", tag.Name)

	_, err = service.Get(ctx, "???")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
