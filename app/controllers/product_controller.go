package controllers

import (
	"net/http"
	"strings"

	"github.com/shoestop/backend/app/services"
	"github.com/shoestop/backend/pkg/response"
	"github.com/shoestop/backend/pkg/router"
	"github.com/shoestop/backend/pkg/upload"
)

type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// List handles GET /api/product?page=&bestSelling=true.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)

	var bestSelling *bool
	if raw := r.URL.Query().Get("bestSelling"); raw != "" {
		v := formBool(raw)
		bestSelling = &v
	}

	products, pagination, err := c.service.List(r.Context(), page, bestSelling)
	if err != nil {
		response.Err(w, err)
		return
	}

	response.Success(w, response.M{
		"data":       products,
		"pagination": pagination,
	})
}

// Get handles GET /api/product/{slug}.
func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	product, err := c.service.GetBySlug(r.Context(), router.Param(r, "slug"))
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"data": product})
}

// Create handles POST /api/product (admin, multipart with image).
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	in := productInput(r)
	if in.Title == "" || in.Price <= 0 {
		response.Error(w, http.StatusBadRequest, "Title and a positive price are required")
		return
	}

	image, err := upload.Image(r, "image", "products")
	if err != nil {
		response.Err(w, err)
		return
	}
	in.Image = image

	product, err := c.service.Create(r.Context(), in)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Created(w, response.M{"data": product})
}

// Update handles PUT /api/product/{slug} (admin, multipart, image optional).
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	in := productInput(r)
	if _, _, err := r.FormFile("image"); err == nil {
		image, err := upload.Image(r, "image", "products")
		if err != nil {
			response.Err(w, err)
			return
		}
		in.Image = image
	}

	product, err := c.service.Update(r.Context(), router.Param(r, "slug"), in)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"data": product})
}

// Delete handles DELETE /api/product/{slug} (admin).
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(r.Context(), router.Param(r, "slug")); err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, response.M{"message": "Product deleted"})
}

// productInput maps the multipart fields onto the service payload. Image is
// attached separately by the caller.
func productInput(r *http.Request) services.ProductInput {
	return services.ProductInput{
		Sub:           strings.TrimSpace(r.FormValue("sub")),
		Title:         strings.TrimSpace(r.FormValue("title")),
		Price:         formFloat(r.FormValue("price")),
		Sizes:         formSizes(r.FormValue("sizes")),
		Description:   strings.TrimSpace(r.FormValue("description")),
		IsBestSelling: formBool(r.FormValue("bestSelling")),
		Stock:         formIntPtr(r.FormValue("stock")),
	}
}
