package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/portalnorte/noticias-backend/internal/domain/entity"
	repo "github.com/portalnorte/noticias-backend/internal/domain/repository"
	"github.com/portalnorte/noticias-backend/internal/infrastructure/postgres"
	"github.com/portalnorte/noticias-backend/pkg/filestore"
)

// LeadService manages advertiser submissions, including their attached
// images, under the same replace-then-cleanup rules as articles.
type LeadService struct {
	Leads  repo.LeadRepository
	Files  filestore.Store
	Logger *logrus.Logger
}

func NewLeadService(leads repo.LeadRepository, files filestore.Store, logger *logrus.Logger) *LeadService {
	return &LeadService{Leads: leads, Files: files, Logger: logger}
}

// LeadInput carries the text fields of a submission or admin update.
type LeadInput struct {
	Name    string
	Company string
	Contact string
	Kind    string
	Message string
	Status  string // admin updates only; empty keeps the current status
	// ImageRef keeps an existing reference on update; ignored on create.
	ImageRef string
}

func (in LeadInput) validate() error {
	if strings.TrimSpace(in.Name) == "" ||
		strings.TrimSpace(in.Contact) == "" ||
		strings.TrimSpace(in.Message) == "" {
		return ErrMissingFields
	}
	return nil
}

// Submit is the public entry point: every new lead starts pending.
func (s *LeadService) Submit(ctx context.Context, in LeadInput, up *Upload) (*entity.Lead, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	ref, err := storeUpload(ctx, s.Files, up)
	if err != nil {
		return nil, err
	}
	l := &entity.Lead{
		Name:      in.Name,
		Company:   in.Company,
		Contact:   in.Contact,
		Kind:      in.Kind,
		Message:   in.Message,
		ImagePath: ref,
		Status:    entity.LeadStatusPending,
	}
	if err := s.Leads.Create(ctx, l); err != nil {
		dropImage(ctx, s.Files, s.Logger, ref)
		return nil, err
	}
	return l, nil
}

func (s *LeadService) Get(ctx context.Context, id string) (*entity.Lead, error) {
	l, err := s.Leads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *LeadService) List(ctx context.Context, status string) ([]*entity.Lead, error) {
	return s.Leads.List(ctx, status)
}

func (s *LeadService) Update(ctx context.Context, id string, in LeadInput, up *Upload) (*entity.Lead, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldRef := l.ImagePath
	newRef := oldRef
	replaced := false
	if up != nil {
		newRef, err = storeUpload(ctx, s.Files, up)
		if err != nil {
			return nil, err
		}
		replaced = true
	} else if in.ImageRef != "" {
		newRef = in.ImageRef
	}

	l.Name = in.Name
	l.Company = in.Company
	l.Contact = in.Contact
	l.Kind = in.Kind
	l.Message = in.Message
	l.ImagePath = newRef
	if in.Status != "" {
		l.Status = in.Status
	}

	if err := s.Leads.Update(ctx, l); err != nil {
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
	return l, nil
}

func (s *LeadService) Delete(ctx context.Context, id string) error {
	l, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	dropImage(ctx, s.Files, s.Logger, l.ImagePath)
	if err := s.Leads.Delete(ctx, id); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
