package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/scholartrack/core/internal/domain/entities"
	"github.com/scholartrack/core/internal/ports"
)

// ResearcherRepositoryImpl implements the ResearcherRepository interface
type ResearcherRepositoryImpl struct {
	db *sqlx.DB
}

// NewResearcherRepository creates a new researcher repository
func NewResearcherRepository(db *sqlx.DB) ports.ResearcherRepository {
	return &ResearcherRepositoryImpl{db: db}
}

func (r *ResearcherRepositoryImpl) Create(ctx context.Context, researcher *entities.Researcher) error {
	query := `
		INSERT INTO researchers (name, website, affiliation, research_areas, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		researcher.Name, researcher.Website, researcher.Affiliation,
		researcher.ResearchAreas, researcher.Notes,
	).Scan(&researcher.ID, &researcher.CreatedAt)

	if err != nil {
		return fmt.Errorf("create researcher: %w", err)
	}

	return nil
}

func (r *ResearcherRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.Researcher, error) {
	query := `SELECT id, name, website, affiliation, research_areas, notes, created_at
		FROM researchers WHERE id = $1`

	var researcher entities.Researcher
	err := r.db.GetContext(ctx, &researcher, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrResearcherNotFound
		}
		return nil, fmt.Errorf("get researcher by id: %w", err)
	}

	return &researcher, nil
}

func (r *ResearcherRepositoryImpl) Update(ctx context.Context, researcher *entities.Researcher) error {
	query := `
		UPDATE researchers
		SET name = $2, website = $3, affiliation = $4, research_areas = $5, notes = $6
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		researcher.ID, researcher.Name, researcher.Website, researcher.Affiliation,
		researcher.ResearchAreas, researcher.Notes,
	)
	if err != nil {
		return fmt.Errorf("update researcher: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrResearcherNotFound
	}

	return nil
}

func (r *ResearcherRepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM researchers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete researcher: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrResearcherNotFound
	}

	return nil
}

func (r *ResearcherRepositoryImpl) List(ctx context.Context, search string) ([]*entities.Researcher, error) {
	query := `SELECT id, name, website, affiliation, research_areas, notes, created_at
		FROM researchers`
	args := []interface{}{}

	if search != "" {
		args = append(args, "%"+search+"%")
		query += ` WHERE name ILIKE $1 OR affiliation ILIKE $1 OR research_areas ILIKE $1`
	}

	query += ` ORDER BY name ASC`

	var researchers []*entities.Researcher
	err := r.db.SelectContext(ctx, &researchers, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list researchers: %w", err)
	}

	return researchers, nil
}

// ResourceRepositoryImpl implements the ResourceRepository interface
type ResourceRepositoryImpl struct {
	db *sqlx.DB
}

// NewResourceRepository creates a new resource repository
func NewResourceRepository(db *sqlx.DB) ports.ResourceRepository {
	return &ResourceRepositoryImpl{db: db}
}

func (r *ResourceRepositoryImpl) Create(ctx context.Context, resource *entities.Resource) error {
	query := `
		INSERT INTO resources (name, resource_type, website, description, tags)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		resource.Name, resource.ResourceType, resource.Website,
		resource.Description, resource.Tags,
	).Scan(&resource.ID, &resource.CreatedAt)

	if err != nil {
		return fmt.Errorf("create resource: %w", err)
	}

	return nil
}

func (r *ResourceRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.Resource, error) {
	query := `SELECT id, name, resource_type, website, description, tags, created_at
		FROM resources WHERE id = $1`

	var resource entities.Resource
	err := r.db.GetContext(ctx, &resource, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrResourceNotFound
		}
		return nil, fmt.Errorf("get resource by id: %w", err)
	}

	return &resource, nil
}

func (r *ResourceRepositoryImpl) Update(ctx context.Context, resource *entities.Resource) error {
	query := `
		UPDATE resources
		SET name = $2, resource_type = $3, website = $4, description = $5, tags = $6
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		resource.ID, resource.Name, resource.ResourceType, resource.Website,
		resource.Description, resource.Tags,
	)
	if err != nil {
		return fmt.Errorf("update resource: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrResourceNotFound
	}

	return nil
}

func (r *ResourceRepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrResourceNotFound
	}

	return nil
}

func (r *ResourceRepositoryImpl) List(ctx context.Context, filter ports.ResourceFilter) ([]*entities.Resource, error) {
	query := `SELECT id, name, resource_type, website, description, tags, created_at
		FROM resources WHERE 1=1`
	args := []interface{}{}

	if filter.ResourceType != nil {
		args = append(args, *filter.ResourceType)
		query += fmt.Sprintf(" AND resource_type = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d OR tags ILIKE $%d)", n, n, n)
	}

	query += ` ORDER BY resource_type ASC, name ASC`

	var resources []*entities.Resource
	err := r.db.SelectContext(ctx, &resources, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}

	return resources, nil
}

func (r *ResourceRepositoryImpl) Types(ctx context.Context) ([]entities.ResourceType, error) {
	var types []entities.ResourceType
	err := r.db.SelectContext(ctx, &types, `SELECT DISTINCT resource_type FROM resources ORDER BY resource_type`)
	if err != nil {
		return nil, fmt.Errorf("list resource types: %w", err)
	}

	return types, nil
}
