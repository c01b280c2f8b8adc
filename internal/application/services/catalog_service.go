package services

import (
	"context"
	"fmt"

	"github.com/scholartrack/core/internal/domain/entities"
	"github.com/scholartrack/core/internal/infrastructure/logger"
	"github.com/scholartrack/core/internal/ports"
)

// CatalogService handles the researcher and resource directories
type CatalogService struct {
	researcherRepo ports.ResearcherRepository
	resourceRepo   ports.ResourceRepository
	logger         *logger.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(researcherRepo ports.ResearcherRepository, resourceRepo ports.ResourceRepository, logger *logger.Logger) *CatalogService {
	return &CatalogService{
		researcherRepo: researcherRepo,
		resourceRepo:   resourceRepo,
		logger:         logger,
	}
}

// CreateResearcher adds a contact to the directory
func (s *CatalogService) CreateResearcher(ctx context.Context, req ports.CreateResearcherRequest) (*entities.Researcher, error) {
	researcher := &entities.Researcher{
		Name:          req.Name,
		Website:       req.Website,
		Affiliation:   req.Affiliation,
		ResearchAreas: req.ResearchAreas,
		Notes:         req.Notes,
	}

	if err := s.researcherRepo.Create(ctx, researcher); err != nil {
		return nil, fmt.Errorf("failed to create researcher: %w", err)
	}

	s.logger.Info("Researcher created", "researcher_id", researcher.ID, "name", researcher.Name)
	return researcher, nil
}

// GetResearcher retrieves a researcher by ID
func (s *CatalogService) GetResearcher(ctx context.Context, id int) (*entities.Researcher, error) {
	return s.researcherRepo.GetByID(ctx, id)
}

// UpdateResearcher updates a researcher's fields
func (s *CatalogService) UpdateResearcher(ctx context.Context, id int, req ports.UpdateResearcherRequest) (*entities.Researcher, error) {
	researcher, err := s.researcherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		researcher.Name = *req.Name
	}
	if req.Website != nil {
		researcher.Website = req.Website
	}
	if req.Affiliation != nil {
		researcher.Affiliation = req.Affiliation
	}
	if req.ResearchAreas != nil {
		researcher.ResearchAreas = req.ResearchAreas
	}
	if req.Notes != nil {
		researcher.Notes = req.Notes
	}

	if err := s.researcherRepo.Update(ctx, researcher); err != nil {
		return nil, fmt.Errorf("failed to update researcher: %w", err)
	}
	return researcher, nil
}

// DeleteResearcher removes a researcher
func (s *CatalogService) DeleteResearcher(ctx context.Context, id int) error {
	return s.researcherRepo.Delete(ctx, id)
}

// ListResearchers returns researchers, optionally filtered by a search term
func (s *CatalogService) ListResearchers(ctx context.Context, search string) ([]*entities.Researcher, error) {
	return s.researcherRepo.List(ctx, search)
}

// CreateResource adds a resource to the directory
func (s *CatalogService) CreateResource(ctx context.Context, req ports.CreateResourceRequest) (*entities.Resource, error) {
	if !req.ResourceType.IsValid() {
		return nil, entities.ErrInvalidCategory
	}

	resource := &entities.Resource{
		Name:         req.Name,
		ResourceType: req.ResourceType,
		Website:      req.Website,
		Description:  req.Description,
		Tags:         req.Tags,
	}

	if err := s.resourceRepo.Create(ctx, resource); err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	s.logger.Info("Resource created", "resource_id", resource.ID, "name", resource.Name)
	return resource, nil
}

// GetResource retrieves a resource by ID
func (s *CatalogService) GetResource(ctx context.Context, id int) (*entities.Resource, error) {
	return s.resourceRepo.GetByID(ctx, id)
}

// UpdateResource updates a resource's fields
func (s *CatalogService) UpdateResource(ctx context.Context, id int, req ports.UpdateResourceRequest) (*entities.Resource, error) {
	resource, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		resource.Name = *req.Name
	}
	if req.ResourceType != nil {
		if !req.ResourceType.IsValid() {
			return nil, entities.ErrInvalidCategory
		}
		resource.ResourceType = *req.ResourceType
	}
	if req.Website != nil {
		resource.Website = req.Website
	}
	if req.Description != nil {
		resource.Description = req.Description
	}
	if req.Tags != nil {
		resource.Tags = req.Tags
	}

	if err := s.resourceRepo.Update(ctx, resource); err != nil {
		return nil, fmt.Errorf("failed to update resource: %w", err)
	}
	return resource, nil
}

// DeleteResource removes a resource
func (s *CatalogService) DeleteResource(ctx context.Context, id int) error {
	return s.resourceRepo.Delete(ctx, id)
}

// ListResources returns resources matching the filter
func (s *CatalogService) ListResources(ctx context.Context, filter ports.ResourceFilter) ([]*entities.Resource, error) {
	return s.resourceRepo.List(ctx, filter)
}

// ResourceTypes returns the distinct resource types in use
func (s *CatalogService) ResourceTypes(ctx context.Context) ([]entities.ResourceType, error) {
	return s.resourceRepo.Types(ctx)
}
