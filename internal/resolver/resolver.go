package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v80"
)

// MetadataKey is the Stripe Product metadata field holding the Printful sync
// variant ID. Maintained at product-creation time; see scripts/backfill-metadata
// for the migration that populates it on older products.
const MetadataKey = "printful_variant_id"

// FallbackVariantID is substituted for unresolvable items only when the
// resolver is configured with AllowFallback. Never used silently.
const FallbackVariantID int64 = 3287825741

// ErrUnresolved means no strategy produced a variant ID for the item.
var ErrUnresolved = errors.New("no printful variant mapping")

// knownVariants maps product-name fragments to variant IDs for products that
// predate mandatory metadata. Ordered: "pullover" must be checked before
// "french elephant" so the French Elephant Pullover maps to the pullover
// variant.
var knownVariants = []struct {
	fragment string
	id       int64
}{
	{"pullover", 14902},
	{"phuture", 14903},
	{"french elephant", 14904},
}

// ProductLister lists active Stripe products for the duplicate-record
// workaround (strategy 2).
type ProductLister interface {
	ListActiveProducts(ctx context.Context) ([]*stripe.Product, error)
}

// Resolver maps a purchased line item to a Printful sync variant ID.
// Strategies, in order of reliability: product metadata, normalized-name
// match against a metadata-carrying duplicate product, the known-product
// table, and (only when AllowFallback is set) the fallback constant.
type Resolver struct {
	products      ProductLister
	AllowFallback bool
}

func New(products ProductLister) *Resolver {
	return &Resolver{products: products}
}

// Resolve returns the sync variant ID for one expanded line item.
func (r *Resolver) Resolve(ctx context.Context, item *stripe.LineItem) (int64, error) {
	// Strategy 1: explicit metadata. A hit is authoritative and no other
	// lookups run.
	if id, ok := variantFromMetadata(productOf(item)); ok {
		return id, nil
	}

	// Strategy 2: an active product with the same normalized name may carry
	// the metadata this one lacks (stale/duplicate product records).
	if id, ok := r.variantFromNameMatch(ctx, item); ok {
		return id, nil
	}

	// Strategy 3: known-product table keyed on description fragments.
	if id, ok := variantFromKnownTable(item.Description); ok {
		slog.Info("resolved variant from known-product table",
			"description", item.Description, "variant_id", id)
		return id, nil
	}

	if r.AllowFallback {
		slog.Warn("no variant mapping found, substituting fallback variant",
			"description", item.Description, "variant_id", FallbackVariantID)
		return FallbackVariantID, nil
	}

	return 0, fmt.Errorf("%w for item %q", ErrUnresolved, item.Description)
}

func productOf(item *stripe.LineItem) *stripe.Product {
	if item.Price == nil {
		return nil
	}
	return item.Price.Product
}

func variantFromMetadata(product *stripe.Product) (int64, bool) {
	if product == nil || product.Metadata == nil {
		return 0, false
	}
	raw, ok := product.Metadata[MetadataKey]
	if !ok || raw == "" {
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		slog.Warn("product carries malformed variant metadata",
			"product_id", product.ID, "value", raw)
		return 0, false
	}
	return id, true
}

func (r *Resolver) variantFromNameMatch(ctx context.Context, item *stripe.LineItem) (int64, bool) {
	product := productOf(item)
	if product == nil || product.Name == "" {
		return 0, false
	}

	products, err := r.products.ListActiveProducts(ctx)
	if err != nil {
		slog.Error("failed to list products for name matching", "error", err)
		return 0, false
	}

	want := NormalizeName(product.Name)
	for _, candidate := range products {
		if candidate.ID == product.ID {
			continue
		}
		if NormalizeName(candidate.Name) != want {
			continue
		}
		if id, ok := variantFromMetadata(candidate); ok {
			slog.Info("resolved variant from duplicate product record",
				"product_id", product.ID, "matched_product_id", candidate.ID,
				"variant_id", id)
			return id, true
		}
	}
	return 0, false
}

func variantFromKnownTable(description string) (int64, bool) {
	desc := strings.ToLower(description)
	for _, known := range knownVariants {
		if strings.Contains(desc, known.fragment) {
			return known.id, true
		}
	}
	return 0, false
}

// NormalizeName lowercases a product name and collapses runs of whitespace,
// so "French  Elephant " and "french elephant" compare equal.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
