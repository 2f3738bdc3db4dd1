package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portalnorte/noticias-backend/internal/domain/entity"
	"github.com/portalnorte/noticias-backend/internal/infrastructure/postgres"
	"github.com/portalnorte/noticias-backend/pkg/filestore"
)

// memStore is an in-memory filestore.Store that tracks live references.
type memStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	seq      int
	storeErr error
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (s *memStore) Store(_ context.Context, r io.Reader, filename, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.storeErr != nil {
		return "", s.storeErr
	}
	if err := filestore.CheckImageType(contentType); err != nil {
		return "", err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.seq++
	ref := fmt.Sprintf("obj-%d", s.seq)
	s.objects[ref] = b
	return ref, nil
}

func (s *memStore) Delete(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, ref)
	return nil
}

func (s *memStore) PublicURL(ref string) string { return "/uploads/" + ref }

func (s *memStore) refs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.objects))
	for ref := range s.objects {
		out = append(out, ref)
	}
	return out
}

// memArticleRepo is an in-memory ArticleRepository with an injectable
// failure for the next write.
type memArticleRepo struct {
	mu       sync.Mutex
	articles map[string]*entity.Article
	failNext error
}

func newMemArticleRepo() *memArticleRepo {
	return &memArticleRepo{articles: map[string]*entity.Article{}}
}

func (r *memArticleRepo) takeFailure() error {
	err := r.failNext
	r.failNext = nil
	return err
}

func (r *memArticleRepo) Create(_ context.Context, a *entity.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return err
	}
	a.ID = uuid.NewString()
	cp := *a
	r.articles[a.ID] = &cp
	return nil
}

func (r *memArticleRepo) GetByID(_ context.Context, id string) (*entity.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.articles[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memArticleRepo) List(_ context.Context, category string) ([]*entity.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Article, 0, len(r.articles))
	for _, a := range r.articles {
		if category == "" || a.Category == category {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memArticleRepo) Search(_ context.Context, q string, limit int) ([]*entity.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q = strings.ToLower(q)
	out := make([]*entity.Article, 0)
	for _, a := range r.articles {
		if len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(a.Title), q) ||
			strings.Contains(strings.ToLower(a.Summary), q) ||
			strings.Contains(strings.ToLower(a.Body), q) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memArticleRepo) Update(_ context.Context, a *entity.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return err
	}
	if _, ok := r.articles[a.ID]; !ok {
		return postgres.ErrNotFound
	}
	cp := *a
	r.articles[a.ID] = &cp
	return nil
}

func (r *memArticleRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[id]; !ok {
		return postgres.ErrNotFound
	}
	delete(r.articles, id)
	return nil
}

func (r *memArticleRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.articles)), nil
}

func pngUpload(content string) *Upload {
	return &Upload{Reader: strings.NewReader(content), Filename: "photo.png", ContentType: "image/png"}
}

func validArticleInput() ArticleInput {
	return ArticleInput{Title: "Title", Summary: "Sum", Body: "Body", Category: "cidade"}
}

func newTestArticleService() (*ArticleService, *memArticleRepo, *memStore) {
	repo := newMemArticleRepo()
	files := newMemStore()
	return NewArticleService(repo, files, nil, nil, ""), repo, files
}

func TestArticleCreateStoresImage(t *testing.T) {
	svc, _, files := newTestArticleService()
	ctx := context.Background()

	a, err := svc.Create(ctx, validArticleInput(), pngUpload("img-bytes"))
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	require.NotEmpty(t, a.ImagePath)
	assert.Equal(t, []string{a.ImagePath}, files.refs())
}

func TestArticleCreateRequiresFields(t *testing.T) {
	svc, _, files := newTestArticleService()
	ctx := context.Background()

	for _, in := range []ArticleInput{
		{Summary: "s", Body: "b", Category: "c"},
		{Title: "t", Summary: "s", Category: "c"},
		{Title: "t", Summary: "s", Body: "b"},
		{Title: "   ", Body: "b", Category: "c"},
	} {
		_, err := svc.Create(ctx, in, pngUpload("x"))
		assert.ErrorIs(t, err, ErrMissingFields)
	}
	// Validation happens before any file is stored.
	assert.Empty(t, files.refs())
}

func TestArticleCreateFailureCleansOrphanFile(t *testing.T) {
	svc, repo, files := newTestArticleService()
	ctx := context.Background()

	repo.failNext = errors.New("db down")
	_, err := svc.Create(ctx, validArticleInput(), pngUpload("img"))
	require.Error(t, err)
	assert.Empty(t, files.refs(), "a failed insert must not leave the stored file behind")
}

func TestArticleUpdateReplacesImageAfterPersist(t *testing.T) {
	svc, _, files := newTestArticleService()
	ctx := context.Background()

	a, err := svc.Create(ctx, validArticleInput(), pngUpload("old"))
	require.NoError(t, err)
	oldRef := a.ImagePath

	in := validArticleInput()
	in.Title = "Updated"
	updated, err := svc.Update(ctx, a.ID, in, pngUpload("new"))
	require.NoError(t, err)

	assert.NotEqual(t, oldRef, updated.ImagePath)
	assert.Equal(t, []string{updated.ImagePath}, files.refs(), "exactly the new file survives")
	assert.Equal(t, "Updated", updated.Title)
}

func TestArticleUpdateFailureKeepsOldImage(t *testing.T) {
	svc, repo, files := newTestArticleService()
	ctx := context.Background()

	a, err := svc.Create(ctx, validArticleInput(), pngUpload("old"))
	require.NoError(t, err)
	oldRef := a.ImagePath

	repo.failNext = errors.New("db down")
	_, err = svc.Update(ctx, a.ID, validArticleInput(), pngUpload("new"))
	require.Error(t, err)

	assert.Equal(t, []string{oldRef}, files.refs(), "the new file is rolled back, the old one stays")

	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, oldRef, got.ImagePath)
}

func TestArticleUpdateWithoutUploadKeepsImage(t *testing.T) {
	svc, _, files := newTestArticleService()
	ctx := context.Background()

	a, err := svc.Create(ctx, validArticleInput(), pngUpload("img"))
	require.NoError(t, err)

	in := validArticleInput()
	in.Title = "Edited"
	updated, err := svc.Update(ctx, a.ID, in, nil)
	require.NoError(t, err)

	assert.Equal(t, a.ImagePath, updated.ImagePath)
	assert.Equal(t, []string{a.ImagePath}, files.refs())
}

func TestArticleDeleteRemovesImage(t *testing.T) {
	svc, _, files := newTestArticleService()
	ctx := context.Background()

	a, err := svc.Create(ctx, validArticleInput(), pngUpload("img"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.Empty(t, files.refs())

	_, err = svc.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArticleDeleteUnknownID(t *testing.T) {
	svc, _, _ := newTestArticleService()
	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.NewString()), ErrNotFound)
}

func TestArticleRejectsNonImageUpload(t *testing.T) {
	svc, _, _ := newTestArticleService()
	up := &Upload{Reader: strings.NewReader("%PDF"), Filename: "doc.pdf", ContentType: "application/pdf"}
	_, err := svc.Create(context.Background(), validArticleInput(), up)
	assert.ErrorIs(t, err, filestore.ErrUnsupportedType)
}

func TestArticleSearchFallsBackWithoutES(t *testing.T) {
	svc, _, _ := newTestArticleService()
	ctx := context.Background()

	in := validArticleInput()
	in.Title = "Enchente na zona norte"
	_, err := svc.Create(ctx, in, nil)
	require.NoError(t, err)

	got, err := svc.Search(ctx, "enchente", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Enchente na zona norte", got[0].Title)

	got, err = svc.Search(ctx, "nomatch", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
