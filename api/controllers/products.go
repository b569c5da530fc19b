package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/parshwa-io/adminconsole-backend/api/responses"
	"github.com/parshwa-io/adminconsole-backend/internal/catalog"
	"github.com/parshwa-io/adminconsole-backend/pkg/config"
	pkgerrors "github.com/parshwa-io/adminconsole-backend/pkg/errors"
	"github.com/parshwa-io/adminconsole-backend/pkg/logger"
)

const multipartMemoryLimit = 32 << 20

// CreateProduct accepts a multipart form carrying the product fields and its
// image files and runs the creation workflow.
func CreateProduct(svc catalog.Service, cfg config.CatalogConfig, logg *logger.Logger) http.HandlerFunc {
	maxBody := int64(cfg.MaxUploadMB) << 20
	if maxImages := int64(cfg.MaxImages); maxImages > 0 && maxBody > 0 {
		maxBody = maxBody*maxImages + (1 << 20)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		if maxBody > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		}

		if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		input := catalog.CreateProductInput{
			Title:         r.FormValue("title"),
			Brand:         r.FormValue("brand"),
			Description:   r.FormValue("description"),
			ColorVariants: splitCommaList(r.FormValue("color_variants")),
		}

		var files []interface{ Close() error }
		defer func() {
			for _, f := range files {
				_ = f.Close()
			}
		}()

		for _, header := range r.MultipartForm.File["images"] {
			file, err := header.Open()
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable image part"))
				return
			}
			files = append(files, file)
			input.Images = append(input.Images, catalog.ImageUpload{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Body:        file,
			})
		}

		result, err := svc.Create(r.Context(), input)
		if err != nil {
			if result != nil && len(result.CleanupFailures) > 0 {
				if typed := pkgerrors.As(err); typed != nil {
					err = typed.WithDetails(map[string]any{"cleanup_failures": result.CleanupFailures})
				}
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, catalog.NewProductView(*result.Product))
	}
}

// ListProducts returns the newest page of the catalog.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "limit must be a non-negative integer"))
				return
			}
			limit = parsed
		}

		result, err := svc.List(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]catalog.ProductView, 0, len(result.Products))
		for _, product := range result.Products {
			views = append(views, catalog.NewProductView(product))
		}

		responses.WriteSuccess(w, map[string]any{
			"products": views,
			"has_more": result.HasMore,
		})
	}
}

// DeleteProduct runs the deletion workflow for one product.
func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		result, err := svc.Delete(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"id":             result.ProductID,
			"images_deleted": result.ImagesDeleted,
			"image_failures": result.ImageFailures,
		})
	}
}

func splitCommaList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
