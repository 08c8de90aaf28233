// Package service implements the application use cases on top of the
// calculator and the template repository.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hapkiduki/boxspec-go/internal/application/dto"
	"github.com/hapkiduki/boxspec-go/internal/application/port"
	"github.com/hapkiduki/boxspec-go/internal/domain/calculator"
	"github.com/hapkiduki/boxspec-go/internal/domain/entity"
	"github.com/hapkiduki/boxspec-go/internal/domain/repository"
)

// BoxService runs calculations and manages saved box templates.
// It is safe for concurrent use.
type BoxService struct {
	calc      *calculator.Calculator
	templates repository.BoxTemplateRepository
	log       port.Logger
}

// NewBoxService wires a BoxService.
//
// Parameters:
//   - calc: shared calculator
//   - templates: template storage (may be nil when only Calculate is used)
//   - log: application logger
//
// Returns:
//   - *BoxService: ready service
func NewBoxService(calc *calculator.Calculator, templates repository.BoxTemplateRepository, log port.Logger) *BoxService {
	return &BoxService{
		calc:      calc,
		templates: templates,
		log:       log.With("component", "box_service"),
	}
}

// ErrTemplatesUnavailable is returned by template operations when the
// service was built without a repository.
var ErrTemplatesUnavailable = errors.New("box template storage is not configured")

// Calculate computes a box specification.
//
// Returns:
//   - calculator.BoxSpecification: the result
//   - error: *calculator.ValidationError for rejected input
func (s *BoxService) Calculate(ctx context.Context, in calculator.BoxInput) (calculator.BoxSpecification, error) {
	log := s.log.WithContext(ctx)

	spec, err := s.calc.Compute(in)
	if err != nil {
		var verr *calculator.ValidationError
		if errors.As(err, &verr) {
			log.Warn("Box input rejected", "fields", verr.FieldNames())
		}
		return calculator.BoxSpecification{}, err
	}

	log.Debug("Box calculated",
		"box", spec.Input.String(),
		"ups", spec.ProductionMode,
		"cost_per_box", spec.CostEstimate.CostPerUnit,
		"num_boxes", spec.CostEstimate.Quantity,
	)
	return spec, nil
}

// Constants returns the calculator configuration in use.
func (s *BoxService) Constants() calculator.Config {
	return s.calc.Config()
}

// CreateTemplate validates and stores a new box template.
//
// Returns:
//   - *dto.BoxTemplateResponse: the stored template
//   - error: *calculator.ValidationError, repository.ErrDuplicateBoxName or a storage error
func (s *BoxService) CreateTemplate(ctx context.Context, req dto.CreateBoxTemplateRequest) (*dto.BoxTemplateResponse, error) {
	if s.templates == nil {
		return nil, ErrTemplatesUnavailable
	}
	in, err := req.Validate()
	if err != nil {
		return nil, err
	}

	exists, err := s.templates.ExistsByName(ctx, in.Name)
	if err != nil {
		return nil, fmt.Errorf("check box name: %w", err)
	}
	if exists {
		return nil, repository.ErrDuplicateBoxName
	}

	tpl, err := entity.NewBoxTemplate(in.Name, in.Dimensions, in.FluteType, in.Ply, in.GSM)
	if err != nil {
		return nil, err
	}
	if err := tpl.SetPrices(in.Prices); err != nil {
		return nil, err
	}
	if err := tpl.SetBurstFactors(in.BF); err != nil {
		return nil, err
	}
	if err := tpl.SetOrderQuantity(in.OrderQuantity); err != nil {
		return nil, err
	}
	tpl.SetPrintColor(in.PrintColor)
	tpl.SetNotes(in.Notes)

	if err := s.templates.Create(ctx, tpl); err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).Info("Box template created", "template_id", tpl.ID, "box_name", tpl.Name)
	resp := dto.NewBoxTemplateResponse(tpl)
	return &resp, nil
}

// GetTemplate loads a template.
func (s *BoxService) GetTemplate(ctx context.Context, id uuid.UUID) (*dto.BoxTemplateResponse, error) {
	if s.templates == nil {
		return nil, ErrTemplatesUnavailable
	}
	tpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewBoxTemplateResponse(tpl)
	return &resp, nil
}

// ListTemplates returns one page of templates, newest first.
func (s *BoxService) ListTemplates(ctx context.Context, req dto.ListBoxTemplatesRequest) (*dto.PaginateResponse[dto.BoxTemplateResponse], error) {
	if s.templates == nil {
		return nil, ErrTemplatesUnavailable
	}
	filter := repository.BoxTemplateFilter{
		SearchTerm: req.SearchTerm,
		Ply:        req.Ply,
		Limit:      req.Limit,
		Offset:     req.Offset,
	}

	total, err := s.templates.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	templates, err := s.templates.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.BoxTemplateResponse, 0, len(templates))
	for _, tpl := range templates {
		items = append(items, dto.NewBoxTemplateResponse(tpl))
	}
	return dto.NewPaginateResponse(items, total, req.Limit, req.Offset), nil
}

// UpdateTemplate applies a partial update.
//
// Returns:
//   - *dto.BoxTemplateResponse: the updated template
//   - error: repository.ErrOptimisticLock when req.Version is stale
func (s *BoxService) UpdateTemplate(ctx context.Context, id uuid.UUID, req dto.UpdateBoxTemplateRequest) (*dto.BoxTemplateResponse, error) {
	if s.templates == nil {
		return nil, ErrTemplatesUnavailable
	}
	tpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Version != 0 && req.Version != tpl.Version {
		return nil, repository.ErrOptimisticLock
	}
	if err := req.Apply(tpl); err != nil {
		return nil, err
	}

	if err := s.templates.Update(ctx, tpl); err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).Info("Box template updated", "template_id", tpl.ID, "version", tpl.Version)
	resp := dto.NewBoxTemplateResponse(tpl)
	return &resp, nil
}

// DeleteTemplate removes a template.
func (s *BoxService) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	if s.templates == nil {
		return ErrTemplatesUnavailable
	}
	if err := s.templates.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithContext(ctx).Info("Box template deleted", "template_id", id)
	return nil
}

// CalculateTemplate computes the specification of a saved template.
//
// Parameters:
//   - id: template ID
//   - quantity: number of boxes; 0 uses the template order quantity
func (s *BoxService) CalculateTemplate(ctx context.Context, id uuid.UUID, quantity int) (calculator.BoxSpecification, error) {
	if s.templates == nil {
		return calculator.BoxSpecification{}, ErrTemplatesUnavailable
	}
	tpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return calculator.BoxSpecification{}, err
	}
	return s.Calculate(ctx, tpl.ToInput(quantity))
}
