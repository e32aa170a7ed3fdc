package controllers

import (
	"net/http"
	"strings"

	"github.com/shoestop/backend/app/services"
	"github.com/shoestop/backend/pkg/response"
	"github.com/shoestop/backend/pkg/router"
	"github.com/shoestop/backend/pkg/upload"
)

type FeatureController struct {
	service *services.FeatureService
}

func NewFeatureController(service *services.FeatureService) *FeatureController {
	return &FeatureController{service: service}
}

// List handles GET /api/feature.
func (c *FeatureController) List(w http.ResponseWriter, r *http.Request) {
	features, err := c.service.List(r.Context())
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"data": features})
}

// Get handles GET /api/feature/{slug}.
func (c *FeatureController) Get(w http.ResponseWriter, r *http.Request) {
	feature, err := c.service.GetBySlug(r.Context(), router.Param(r, "slug"))
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"data": feature})
}

// Create handles POST /api/feature (admin, multipart with image).
func (c *FeatureController) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	in := featureInput(r)
	if in.Title == "" || in.Price <= 0 {
		response.Error(w, http.StatusBadRequest, "Title and a positive price are required")
		return
	}

	image, err := upload.Image(r, "image", "features")
	if err != nil {
		response.Err(w, err)
		return
	}
	in.Image = image

	feature, err := c.service.Create(r.Context(), in)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Created(w, response.M{"data": feature})
}

// Update handles PUT /api/feature/{slug} (admin, multipart, image optional).
func (c *FeatureController) Update(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	in := featureInput(r)
	if _, _, err := r.FormFile("image"); err == nil {
		image, err := upload.Image(r, "image", "features")
		if err != nil {
			response.Err(w, err)
			return
		}
		in.Image = image
	}

	feature, err := c.service.Update(r.Context(), router.Param(r, "slug"), in)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"data": feature})
}

// Delete handles DELETE /api/feature/{slug} (admin).
func (c *FeatureController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(r.Context(), router.Param(r, "slug")); err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"message": "Feature deleted"})
}

func featureInput(r *http.Request) services.FeatureInput {
	return services.FeatureInput{
		Sub:         strings.TrimSpace(r.FormValue("sub")),
		Title:       strings.TrimSpace(r.FormValue("title")),
		Price:       formFloat(r.FormValue("price")),
		Sizes:       formSizes(r.FormValue("sizes")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
}
