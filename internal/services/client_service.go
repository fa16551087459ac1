package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/serenispa/serenity-api/internal/models"
	"github.com/serenispa/serenity-api/internal/repository"
)

// ClientService handles client records. Reads go through the audit trail
// because client intake data counts as protected health information.
type ClientService struct {
	repo     repository.ClientRepository
	auditSvc *AuditService
}

func NewClientService(repo repository.ClientRepository, auditSvc *AuditService) *ClientService {
	return &ClientService{repo: repo, auditSvc: auditSvc}
}

func (s *ClientService) FindByID(ctx context.Context, id uint, actorID uint, ip, userAgent string) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	s.auditSvc.LogPHIAccess(ctx, actorID, "Client", client.ID,
		fmt.Sprintf("Viewed client record: %s", client.FullName), ip, userAgent)

	return client, nil
}

func (s *ClientService) List(ctx context.Context, query *repository.ListQuery) ([]models.Client, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *ClientService) Create(ctx context.Context, client *models.Client, actorID uint, ip, userAgent string) error {
	client.Email = strings.ToLower(strings.TrimSpace(client.Email))
	if client.Email != "" {
		if existing, err := s.repo.FindByEmail(ctx, client.Email); err == nil && existing != nil {
			return ErrDuplicate
		}
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, models.AuditActionCreate, "Client", client.ID,
		fmt.Sprintf("Client created: %s", client.FullName), ip, userAgent)
}

func (s *ClientService) Update(ctx context.Context, client *models.Client, actorID uint, ip, userAgent string) error {
	if err := s.repo.Update(ctx, client); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, models.AuditActionUpdate, "Client", client.ID,
		fmt.Sprintf("Client updated: %s", client.FullName), ip, userAgent)
}

// Archive soft-deletes a client. The record and its history stay in the
// database for retention; the client just disappears from day-to-day lists.
func (s *ClientService) Archive(ctx context.Context, id uint, actorID uint, ip, userAgent string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNotFound
	}
	if err := s.repo.Archive(ctx, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, models.AuditActionDelete, "Client", id, "Client archived", ip, userAgent)
}

func (s *ClientService) Restore(ctx context.Context, id uint, actorID uint, ip, userAgent string) error {
	if err := s.repo.Restore(ctx, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, models.AuditActionUpdate, "Client", id, "Client restored", ip, userAgent)
}
