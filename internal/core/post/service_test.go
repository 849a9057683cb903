// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-forum/internal/core/tag"
	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
	"github.com/taibuivan/yomira-forum/internal/platform/storage"
	"github.com/taibuivan/yomira-forum/pkg/pagination"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

type memRepository struct {
	posts      map[string]*Post
	files      map[string]*File
	lastFilter Filter
	listCalls  int
	fileErr    error
	// categories maps a post to the categories it belongs to; canAttach
	// holds "category/user" pairs granted canAttachFiles.
	categories map[string][]string
	canAttach  map[string]bool
}

func newMemRepository(posts ...*Post) *memRepository {
	repo := &memRepository{
		posts:      map[string]*Post{},
		files:      map[string]*File{},
		categories: map[string][]string{},
		canAttach:  map[string]bool{},
	}
	for _, post := range posts {
		repo.posts[post.ID] = post
	}
	return repo
}

func (repo *memRepository) Create(_ context.Context, post *Post) error {
	post.PublishedAt = time.Now()
	repo.posts[post.ID] = post
	return nil
}

func (repo *memRepository) FindByID(_ context.Context, id string) (*Post, error) {
	post, ok := repo.posts[id]
	if !ok {
		return nil, apperr.NotFound("Post")
	}
	clone := *post
	return &clone, nil
}

func (repo *memRepository) List(_ context.Context, viewerID string, filter Filter, _ pagination.Params) ([]*Post, int, error) {
	repo.listCalls++
	repo.lastFilter = filter
	var posts []*Post
	for _, post := range repo.posts {
		if post.VisibleTo(viewerID) {
			clone := *post
			posts = append(posts, &clone)
		}
	}
	return posts, len(posts), nil
}

func (repo *memRepository) CreateFile(_ context.Context, file *File) error {
	if repo.fileErr != nil {
		return repo.fileErr
	}
	file.CreatedAt = time.Now()
	repo.files[file.ID] = file
	return nil
}

func (repo *memRepository) ListFiles(_ context.Context, postID string) ([]*File, error) {
	files := []*File{}
	for _, file := range repo.files {
		if file.PostID == postID {
			files = append(files, file)
		}
	}
	return files, nil
}

func (repo *memRepository) FindFile(_ context.Context, postID, fileID string) (*File, error) {
	file, ok := repo.files[fileID]
	if !ok || file.PostID != postID {
		return nil, apperr.NotFound("File")
	}
	return file, nil
}

func (repo *memRepository) AttachBlocked(_ context.Context, postID, userID string) (bool, error) {
	for _, categoryID := range repo.categories[postID] {
		if !repo.canAttach[categoryID+"/"+userID] {
			return true, nil
		}
	}
	return false, nil
}

func (repo *memRepository) CountFiles(ctx context.Context, postID string) (int, error) {
	files, _ := repo.ListFiles(ctx, postID)
	return len(files), nil
}

// stubTagger keeps normalised tags per post.
type stubTagger struct {
	byPost map[string][]string
}

func (stub *stubTagger) Attach(_ context.Context, postID string, raw []string) ([]string, error) {
	names, err := tag.NormalizeAll(raw)
	if err != nil {
		return nil, err
	}
	stub.byPost[postID] = names
	return names, nil
}

func (stub *stubTagger) NamesForPost(_ context.Context, postID string) ([]string, error) {
	return append([]string{}, stub.byPost[postID]...), nil
}

func (stub *stubTagger) NamesForPosts(_ context.Context, postIDs []string) (map[string][]string, error) {
	result := map[string][]string{}
	for _, id := range postIDs {
		if names := stub.byPost[id]; len(names) > 0 {
			result[id] = names
		}
	}
	return result, nil
}

type inlineTx struct{ calls int }

func (tx *inlineTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++
	return fn(ctx)
}

const (
	alice = "0192b3c4-0000-7000-8000-00000000000a"
	bob   = "0192b3c4-0000-7000-8000-00000000000b"
)

func newTestService(t *testing.T, repo *memRepository) (*Service, *stubTagger) {
	t.Helper()
	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	tagger := &stubTagger{byPost: map[string][]string{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, tagger, blobs, &inlineTx{}, 16, logger), tagger
}

func seededPosts() *memRepository {
	return newMemRepository(
		&Post{ID: "public-post", AuthorID: alice, Title: "Hello", Body: "World", IsPublic: true},
		&Post{ID: "private-post", AuthorID: alice, Title: "Draft", Body: "Secret"},
	)
}

// ---------------------------------------------------------------------------
// Posts
// ---------------------------------------------------------------------------

func TestService_Create(t *testing.T) {
	repo := newMemRepository()
	service, _ := newTestService(t, repo)

	post, err := service.Create(context.Background(), alice, CreateInput{
		Title: "  First post ",
		Body:  "Body text",
		Tags:  []string{"Go", "go!", "Web  Dev"},
	})
	require.NoError(t, err)

	assert.Equal(t, "First post", post.Title)
	assert.True(t, post.IsPublic)
	assert.Equal(t, []string{"go", "web dev"}, post.Tags)
	assert.Contains(t, repo.posts, post.ID)
}

func TestService_Create_Rejects(t *testing.T) {
	repo := newMemRepository()
	service, _ := newTestService(t, repo)
	ctx := context.Background()

	_, err := service.Create(ctx, "", CreateInput{Title: "t", Body: "b"})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = service.Create(ctx, alice, CreateInput{Title: " ", Body: "b"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.Create(ctx, alice, CreateInput{Title: strings.Repeat("t", TitleMaxLen+1), Body: "b"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.Create(ctx, alice, CreateInput{Title: "t", Body: "b", Tags: []string{strings.Repeat("x", tag.NameMaxLen+1)}})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	assert.Empty(t, repo.posts)
}

func TestService_Get_PrivateVisibility(t *testing.T) {
	service, tagger := newTestService(t, seededPosts())
	tagger.byPost["private-post"] = []string{"draft"}
	ctx := context.Background()

	post, err := service.Get(ctx, alice, "private-post")
	require.NoError(t, err)
	assert.Equal(t, []string{"draft"}, post.Tags)
	assert.NotNil(t, post.Files)

	_, err = service.Get(ctx, bob, "private-post")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = service.Get(ctx, "", "private-post")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = service.Get(ctx, "", "public-post")
	assert.NoError(t, err)
}

func TestService_List(t *testing.T) {
	repo := seededPosts()
	service, tagger := newTestService(t, repo)
	tagger.byPost["public-post"] = []string{"hello"}
	ctx := context.Background()
	params := pagination.Params{Page: 1, Limit: 20}

	posts, total, err := service.List(ctx, "", Filter{Tag: "  HELLO!", Query: "  world "}, params)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, []string{"hello"}, posts[0].Tags)
	assert.Equal(t, Filter{Tag: "hello", Query: "world"}, repo.lastFilter)

	posts, total, err = service.List(ctx, "", Filter{Tag: "!!!"}, params)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Zero(t, total)
	assert.Equal(t, 1, repo.listCalls)

	_, total, err = service.List(ctx, alice, Filter{}, params)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	_, _, err = service.List(ctx, "", Filter{Query: strings.Repeat("q", QueryMaxLen+1)}, params)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

// ---------------------------------------------------------------------------
// Attachments
// ---------------------------------------------------------------------------

func TestService_AttachAndOpenFile(t *testing.T) {
	repo := seededPosts()
	service, _ := newTestService(t, repo)
	ctx := context.Background()

	file, err := service.AttachFile(ctx, alice, "public-post", Upload{
		Name:        `C:\Users\alice\notes.txt`,
		ContentType: "text/plain; charset=utf-8",
		Body:        strings.NewReader("attached"),
	})
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", file.Name)
	assert.Equal(t, int64(8), file.Size)
	assert.Equal(t, "text/plain; charset=utf-8", file.ContentType)

	ref, err := service.Ref(ctx, bob, "public-post")
	require.NoError(t, err)
	assert.True(t, ref.HasFiles())
	assert.Equal(t, alice, ref.AuthorID)

	opened, body, err := service.OpenFile(ctx, "", "public-post", file.ID)
	require.NoError(t, err)
	content, err := io.ReadAll(body)
	require.NoError(t, body.Close())
	require.NoError(t, err)
	assert.Equal(t, "attached", string(content))
	assert.Equal(t, file.ID, opened.ID)

	_, _, err = service.OpenFile(ctx, "", "public-post", "missing")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestService_AttachFile_Rejects(t *testing.T) {
	repo := seededPosts()
	service, _ := newTestService(t, repo)
	ctx := context.Background()
	upload := func(body string) Upload {
		return Upload{Name: "a.bin", Body: strings.NewReader(body)}
	}

	_, err := service.AttachFile(ctx, "", "public-post", upload("x"))
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = service.AttachFile(ctx, bob, "public-post", upload("x"))
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = service.AttachFile(ctx, bob, "private-post", upload("x"))
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = service.AttachFile(ctx, alice, "public-post", upload(strings.Repeat("x", 17)))
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.AttachFile(ctx, alice, "public-post", Upload{Name: "..", Body: strings.NewReader("x")})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	ref, err := service.Ref(ctx, alice, "public-post")
	require.NoError(t, err)
	assert.False(t, ref.HasFiles())
}

func TestService_AttachFile_CategoryGate(t *testing.T) {
	repo := seededPosts()
	service, _ := newTestService(t, repo)
	ctx := context.Background()
	upload := func() Upload {
		return Upload{Name: "report.pdf", Body: strings.NewReader("pdf")}
	}

	// Added to "lobby" while it had no files, by an author who may post but not attach.
	repo.categories["public-post"] = []string{"lobby"}

	_, err := service.AttachFile(ctx, alice, "public-post", upload())
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
	assert.Equal(t, "missing canAttachFiles", err.Error())

	ref, err := service.Ref(ctx, alice, "public-post")
	require.NoError(t, err)
	assert.False(t, ref.HasFiles())

	repo.canAttach["lobby/"+alice] = true
	_, err = service.AttachFile(ctx, alice, "public-post", upload())
	require.NoError(t, err)

	// One more category without the grant blocks again.
	repo.categories["public-post"] = append(repo.categories["public-post"], "staff")
	_, err = service.AttachFile(ctx, alice, "public-post", upload())
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
}

func TestCleanContentType(t *testing.T) {
	assert.Equal(t, DefaultContentType, cleanContentType(""))
	assert.Equal(t, DefaultContentType, cleanContentType("not a type;;"))
	assert.Equal(t, "image/png", cleanContentType("IMAGE/PNG"))
}
