package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/portalnorte/noticias-backend/internal/domain/entity"
	repo "github.com/portalnorte/noticias-backend/internal/domain/repository"
	"github.com/portalnorte/noticias-backend/internal/infrastructure/postgres"
	"github.com/portalnorte/noticias-backend/pkg/filestore"
)

// ArticleService is the media-linked record manager for news articles.
// Image replacement stores the new file before touching the record, so a
// failed store never leaves a dangling reference; the old file is removed
// only after the new state is persisted.
type ArticleService struct {
	Articles       repo.ArticleRepository
	Files          filestore.Store
	Logger         *logrus.Logger
	ES             *elasticsearch.Client
	ESArticleIndex string
}

func NewArticleService(articles repo.ArticleRepository, files filestore.Store, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *ArticleService {
	return &ArticleService{Articles: articles, Files: files, Logger: logger, ES: es, ESArticleIndex: esIndex}
}

// ArticleInput carries the text fields of a create or update.
type ArticleInput struct {
	Title    string
	Summary  string
	Body     string
	Category string
	// ImageRef keeps an existing file-store reference on update when no new
	// file is uploaded. Ignored on create.
	ImageRef string
}

func (in ArticleInput) validate() error {
	if strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Body) == "" ||
		strings.TrimSpace(in.Category) == "" {
		return ErrMissingFields
	}
	return nil
}

func (s *ArticleService) Create(ctx context.Context, in ArticleInput, up *Upload) (*entity.Article, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	ref, err := storeUpload(ctx, s.Files, up)
	if err != nil {
		return nil, err
	}
	a := &entity.Article{
		Title:     in.Title,
		Summary:   in.Summary,
		Body:      in.Body,
		Category:  in.Category,
		ImagePath: ref,
	}
	if err := s.Articles.Create(ctx, a); err != nil {
		// The record never existed, so the stored file is an orphan.
		dropImage(ctx, s.Files, s.Logger, ref)
		return nil, err
	}
	s.index(ctx, a)
	return a, nil
}

func (s *ArticleService) Get(ctx context.Context, id string) (*entity.Article, error) {
	a, err := s.Articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *ArticleService) List(ctx context.Context, category string) ([]*entity.Article, error) {
	return s.Articles.List(ctx, category)
}

func (s *ArticleService) Update(ctx context.Context, id string, in ArticleInput, up *Upload) (*entity.Article, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldRef := a.ImagePath
	newRef := oldRef
	replaced := false
	if up != nil {
		newRef, err = storeUpload(ctx, s.Files, up)
		if err != nil {
			return nil, err
		}
		replaced = true
	} else if in.ImageRef != "" {
		// Explicit "keep this path": persisted as-is, file store untouched.
		newRef = in.ImageRef
	}

	a.Title = in.Title
	a.Summary = in.Summary
	a.Body = in.Body
	a.Category = in.Category
	a.ImagePath = newRef

	if err := s.Articles.Update(ctx, a); err != nil {
		if replaced {
			dropImage(ctx, s.Files, s.Logger, newRef)
		}
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if replaced && oldRef != "" && oldRef != newRef {
		dropImage(ctx, s.Files, s.Logger, oldRef)
	}
	s.index(ctx, a)
	return a, nil
}

func (s *ArticleService) Delete(ctx context.Context, id string) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	dropImage(ctx, s.Files, s.Logger, a.ImagePath)
	if err := s.Articles.Delete(ctx, id); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.deindex(ctx, id)
	return nil
}

// Search uses Elasticsearch when configured, falling back to the
// repository's ILIKE search otherwise.
func (s *ArticleService) Search(ctx context.Context, q string, size int) ([]*entity.Article, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	if s.ES == nil || s.ESArticleIndex == "" {
		return s.Articles.Search(ctx, q, size)
	}

	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "summary", "body"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESArticleIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return s.Articles.Search(ctx, q, size)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return s.Articles.Search(ctx, q, size)
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]*entity.Article, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		if a, err := s.Articles.GetByID(ctx, h.ID); err == nil {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *ArticleService) index(ctx context.Context, a *entity.Article) {
	if s.ES == nil || s.ESArticleIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         a.ID,
		"title":      a.Title,
		"summary":    a.Summary,
		"body":       a.Body,
		"category":   a.Category,
		"created_at": a.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESArticleIndex, DocumentID: a.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("article_id", a.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("article_id", a.ID).Warn("es index response error")
	}
}

func (s *ArticleService) deindex(ctx context.Context, id string) {
	if s.ES == nil || s.ESArticleIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESArticleIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if res, err := req.Do(c, s.ES); err == nil {
		_ = res.Body.Close()
	}
}
