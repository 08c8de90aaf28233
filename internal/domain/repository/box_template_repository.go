package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hapkiduki/boxspec-go/internal/domain/entity"
	"github.com/hapkiduki/boxspec-go/internal/domain/valueobject"
)

// BoxTemplateFilter contains criteria for listing box templates.
type BoxTemplateFilter struct {
	// SearchTerm matches the name, print colour or notes, case-insensitively.
	SearchTerm string

	// Ply filters templates by ply count.
	Ply *valueobject.Ply

	// Limit specifies the maximum number of results. Zero means no limit.
	Limit int

	// Offset specifies the starting position for pagination
	Offset int
}

// BoxTemplateRepository defines persistance operations for box templates.
//
// Example usage:
//
// repo := sqlite.NewBoxTemplateRepository(db)
// tpl, err := repo.GetByName(ctx, "Shoe Box")
type BoxTemplateRepository interface {
	// Create persists a new template.
	//
	// Parameters:
	//   - ctx: context for cancellation and deadlines
	//   - tpl: The template to create
	//
	// Returns:
	//   - error: ErrDuplicateBoxName if the name is taken
	Create(ctx context.Context, tpl *entity.BoxTemplate) error

	// GetByID retrieves a template by its unique identifier.
	//
	// Returns:
	//   - *entity.BoxTemplate: The retrieved template
	//   - error: ErrBoxTemplateNotFound if it doesn't exist
	GetByID(ctx context.Context, id uuid.UUID) (*entity.BoxTemplate, error)

	// GetByName retrieves a template by its exact name.
	GetByName(ctx context.Context, name string) (*entity.BoxTemplate, error)

	// Update persists changes to an existing template. The stored version
	// must equal tpl.Version; on success tpl.Version is incremented.
	//
	// Returns:
	//   - error: ErrOptimisticLock if version mismatch
	Update(ctx context.Context, tpl *entity.BoxTemplate) error

	// Delete removes a template.
	//
	// Returns:
	//   - error: ErrBoxTemplateNotFound if it doesn't exist
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves templates matching filter, newest first.
	List(ctx context.Context, filter BoxTemplateFilter) ([]*entity.BoxTemplate, error)

	// Count returns the number of templates matching filter, ignoring Limit and Offset.
	Count(ctx context.Context, filter BoxTemplateFilter) (int64, error)

	// ExistsByName checks if a template with the given name exists.
	ExistsByName(ctx context.Context, name string) (bool, error)
}
