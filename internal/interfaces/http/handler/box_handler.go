package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/hapkiduki/boxspec-go/internal/application/dto"
	"github.com/hapkiduki/boxspec-go/internal/application/port"
	"github.com/hapkiduki/boxspec-go/internal/domain/calculator"
)

// BoxService is the application service used by BoxHandler.
type BoxService interface {
	Calculate(ctx context.Context, in calculator.BoxInput) (calculator.BoxSpecification, error)
	Constants() calculator.Config
	CreateTemplate(ctx context.Context, req dto.CreateBoxTemplateRequest) (*dto.BoxTemplateResponse, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*dto.BoxTemplateResponse, error)
	ListTemplates(ctx context.Context, req dto.ListBoxTemplatesRequest) (*dto.PaginateResponse[dto.BoxTemplateResponse], error)
	UpdateTemplate(ctx context.Context, id uuid.UUID, req dto.UpdateBoxTemplateRequest) (*dto.BoxTemplateResponse, error)
	DeleteTemplate(ctx context.Context, id uuid.UUID) error
	CalculateTemplate(ctx context.Context, id uuid.UUID, quantity int) (calculator.BoxSpecification, error)
}

// BoxHandler serves box calculations and box templates.
type BoxHandler struct {
	svc     BoxService
	log     port.Logger
	version string
	maxBody int64
}

// NewBoxHandler creates a BoxHandler.
//
// Parameters:
//   - svc: application service
//   - log: logger for unexpected errors
//   - version: API version reported in response meta
//   - maxBody: request body limit in bytes; 0 disables the limit
//
// Returns:
//   - *BoxHandler: ready handler
func NewBoxHandler(svc BoxService, log port.Logger, version string, maxBody int64) *BoxHandler {
	return &BoxHandler{svc: svc, log: log.With("component", "box_handler"), version: version, maxBody: maxBody}
}

// Routes registers the API routes on r, relative to /api/v1.
func (h *BoxHandler) Routes(r chi.Router) {
	r.Get("/box-calculations", h.Calculate)
	r.Get("/calculator/constants", h.Constants)

	r.Route("/box-templates", func(r chi.Router) {
		r.Get("/", h.ListTemplates)
		r.Post("/", h.CreateTemplate)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTemplate)
			r.Put("/", h.UpdateTemplate)
			r.Delete("/", h.DeleteTemplate)
			r.Get("/calculation", h.CalculateTemplate)
		})
	})
}

// Calculate handles GET /box-calculations.
func (h *BoxHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	in, err := dto.BindBoxQuery(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	spec, err := h.svc.Calculate(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, dto.NewBoxSpecificationResponse(spec), h.version)
}

// Constants handles GET /calculator/constants.
func (h *BoxHandler) Constants(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, h.svc.Constants(), h.version)
}

// CreateTemplate handles POST /box-templates.
func (h *BoxHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBoxTemplateRequest
	if !h.decode(w, r, &req) {
		return
	}
	tpl, err := h.svc.CreateTemplate(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/box-templates/"+tpl.ID.String())
	respondData(w, r, http.StatusCreated, tpl, h.version)
}

// ListTemplates handles GET /box-templates.
func (h *BoxHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	req, err := dto.BindListQuery(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := h.svc.ListTemplates(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, page, h.version)
}

// GetTemplate handles GET /box-templates/{id}.
func (h *BoxHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.templateID(w, r)
	if !ok {
		return
	}
	tpl, err := h.svc.GetTemplate(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, tpl, h.version)
}

// UpdateTemplate handles PUT /box-templates/{id}.
func (h *BoxHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.templateID(w, r)
	if !ok {
		return
	}
	var req dto.UpdateBoxTemplateRequest
	if !h.decode(w, r, &req) {
		return
	}
	tpl, err := h.svc.UpdateTemplate(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, tpl, h.version)
}

// DeleteTemplate handles DELETE /box-templates/{id}.
func (h *BoxHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.templateID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteTemplate(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CalculateTemplate handles GET /box-templates/{id}/calculation.
func (h *BoxHandler) CalculateTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.templateID(w, r)
	if !ok {
		return
	}
	quantity, err := dto.BindQuantity(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	spec, err := h.svc.CalculateTemplate(r.Context(), id, quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, dto.NewBoxSpecificationResponse(spec), h.version)
}

func (h *BoxHandler) templateID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		verr := &calculator.ValidationError{}
		verr.Add("id", "must be a UUID", chi.URLParam(r, "id"))
		h.fail(w, r, verr)
		return uuid.Nil, false
	}
	return id, true
}

func (h *BoxHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}
	if err := render.DecodeJSON(r.Body, v); err != nil {
		respondCode(w, r, http.StatusBadRequest, CodeInvalidRequest, "Request body must be valid JSON: "+err.Error(), h.version)
		return false
	}
	return true
}

func (h *BoxHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	respondError(w, r, h.log, err, h.version)
}
