package service

import (
	"context"

	"github.com/alexanderramin/workplan/internal/domain"
	"github.com/alexanderramin/workplan/internal/hierarchy"
	"github.com/alexanderramin/workplan/internal/repository"
)

type orgService struct {
	orgs repository.OrgRepo
}

func NewOrgService(orgs repository.OrgRepo) OrgService {
	return &orgService{orgs: orgs}
}

func (s *orgService) GetByID(ctx context.Context, id string) (*domain.OrgUnit, error) {
	return s.orgs.GetByID(ctx, id)
}

func (s *orgService) List(ctx context.Context) ([]*domain.OrgUnit, error) {
	return s.orgs.List(ctx)
}

func (s *orgService) Chain(ctx context.Context, orgID string) ([]domain.ChainEntry, error) {
	return hierarchy.ResolveChain(ctx, s.orgs, orgID)
}

func (s *orgService) Tree(ctx context.Context, rootID string) ([]*domain.OrgUnit, error) {
	root, err := s.orgs.GetByID(ctx, rootID)
	if err != nil {
		return nil, err
	}
	below, err := hierarchy.Descendants(ctx, s.orgs, rootID)
	if err != nil {
		return nil, err
	}
	return append([]*domain.OrgUnit{root}, below...), nil
}

type operationService struct {
	operations repository.OperationRepo
}

func NewOperationService(operations repository.OperationRepo) OperationService {
	return &operationService{operations: operations}
}

func (s *operationService) GetByID(ctx context.Context, id string) (*domain.Operation, error) {
	return s.operations.GetByID(ctx, id)
}

func (s *operationService) List(ctx context.Context) ([]*domain.Operation, error) {
	return s.operations.List(ctx)
}
