package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/weirdroach/weird-roach-website/internal/printful"
)

// detailFetchLimit caps concurrent product-detail requests against Printful
// so one catalog load does not trip their rate limit.
const detailFetchLimit = 5

// ProductsHandler proxies the Printful catalog so the frontend never sees
// the store token.
type ProductsHandler struct {
	printful *printful.Client
}

func NewProductsHandler(client *printful.Client) *ProductsHandler {
	return &ProductsHandler{printful: client}
}

type ProductVariant struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Size        string            `json:"size"`
	Color       string            `json:"color"`
	Price       string            `json:"price"`
	InStock     bool              `json:"in_stock"`
	PreviewURL  string            `json:"preview_url,omitempty"`
	Files       []json.RawMessage `json:"files,omitempty"`
	MockupFiles []json.RawMessage `json:"mockup_files,omitempty"`
}

type Product struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	ThumbnailURL string           `json:"thumbnail_url"`
	Variants     []ProductVariant `json:"variants"`
}

// ListProducts returns the full catalog with variants. Details for each
// product are fetched concurrently since Printful's list endpoint only
// returns summaries.
func (h *ProductsHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	summaries, err := h.printful.GetStoreProducts(ctx)
	if err != nil {
		slog.Error("failed to list printful products", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to load products")
	}

	products := make([]Product, len(summaries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailFetchLimit)

	for i, summary := range summaries {
		i, summary := i, summary
		g.Go(func() error {
			detail, err := h.printful.GetStoreProduct(gctx, summary.ID)
			if err != nil {
				return err
			}
			products[i] = toProduct(detail)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("failed to load product details", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to load products")
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=300")
	return c.JSON(http.StatusOK, products)
}

// GetProduct returns one product with its variants.
func (h *ProductsHandler) GetProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID")
	}

	detail, err := h.printful.GetStoreProduct(c.Request().Context(), id)
	if err != nil {
		var apiErr *printful.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		slog.Error("failed to load product", "error", err, "product_id", id)
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to load product")
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=300")
	return c.JSON(http.StatusOK, toProduct(detail))
}

func toProduct(detail *printful.ProductDetail) Product {
	p := Product{
		ID:           detail.SyncProduct.ID,
		Name:         detail.SyncProduct.Name,
		Description:  detail.SyncProduct.Description,
		ThumbnailURL: detail.SyncProduct.ThumbnailURL,
		Variants:     make([]ProductVariant, 0, len(detail.SyncVariants)),
	}
	for _, v := range detail.SyncVariants {
		p.Variants = append(p.Variants, ProductVariant{
			ID:          v.ID,
			Name:        v.Name,
			Size:        v.Size,
			Color:       v.Color,
			Price:       v.RetailPrice,
			InStock:     v.InStock,
			PreviewURL:  v.PreviewURL,
			Files:       v.Files,
			MockupFiles: v.MockupFiles,
		})
	}
	return p
}
