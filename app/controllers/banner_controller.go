package controllers

import (
	"net/http"
	"strings"

	"github.com/shoestop/backend/app/services"
	"github.com/shoestop/backend/pkg/response"
	"github.com/shoestop/backend/pkg/router"
	"github.com/shoestop/backend/pkg/upload"
)

// BannerController serves one banner section. The app mounts two instances:
// /api/trending and /api/most-sales.
type BannerController struct {
	service *services.BannerService
	folder  string
}

func NewBannerController(service *services.BannerService, folder string) *BannerController {
	return &BannerController{service: service, folder: folder}
}

// List handles GET /api/{section}.
func (c *BannerController) List(w http.ResponseWriter, r *http.Request) {
	banners, err := c.service.List(r.Context())
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"data": banners})
}

// Get handles GET /api/{section}/{slug}.
func (c *BannerController) Get(w http.ResponseWriter, r *http.Request) {
	banner, err := c.service.GetBySlug(r.Context(), router.Param(r, "slug"))
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"data": banner})
}

// Create handles POST /api/{section} (admin, multipart with image).
func (c *BannerController) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	in := bannerInput(r)
	if in.Heading == "" {
		response.Error(w, http.StatusBadRequest, "Heading is required")
		return
	}

	image, err := upload.Image(r, "image", c.folder)
	if err != nil {
		response.Err(w, err)
		return
	}
	in.Image = image

	banner, err := c.service.Create(r.Context(), in)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Created(w, response.M{"data": banner})
}

// Update handles PUT /api/{section}/{slug} (admin, multipart, image optional).
func (c *BannerController) Update(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	in := bannerInput(r)
	if _, _, err := r.FormFile("image"); err == nil {
		image, err := upload.Image(r, "image", c.folder)
		if err != nil {
			response.Err(w, err)
			return
		}
		in.Image = image
	}

	banner, err := c.service.Update(r.Context(), router.Param(r, "slug"), in)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"data": banner})
}

// Delete handles DELETE /api/{section}/{slug} (admin).
func (c *BannerController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(r.Context(), router.Param(r, "slug")); err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"message": "Banner deleted"})
}

func bannerInput(r *http.Request) services.BannerInput {
	return services.BannerInput{
		Heading:    strings.TrimSpace(r.FormValue("heading")),
		Subheading: strings.TrimSpace(r.FormValue("subheading")),
		BtnText:    strings.TrimSpace(r.FormValue("btnText")),
	}
}
