package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stripe/stripe-go/v80"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	products []*stripe.Product
	err      error
	calls    int
}

func (f *fakeLister) ListActiveProducts(ctx context.Context) ([]*stripe.Product, error) {
	f.calls++
	return f.products, f.err
}

func lineItem(description string, product *stripe.Product) *stripe.LineItem {
	return &stripe.LineItem{
		Description: description,
		Price:       &stripe.Price{Product: product},
	}
}

func TestResolveFromMetadata(t *testing.T) {
	lister := &fakeLister{}
	r := New(lister)

	item := lineItem("Moth Tee - Black (M)", &stripe.Product{
		ID:       "prod_123",
		Name:     "Moth Tee",
		Metadata: map[string]string{MetadataKey: "14905"},
	})

	id, err := r.Resolve(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, int64(14905), id)
	assert.Equal(t, 0, lister.calls, "metadata hit should not trigger a product listing")
}

func TestResolveMalformedMetadataFallsThrough(t *testing.T) {
	r := New(&fakeLister{})

	item := lineItem("Phuture Times - Black (L)", &stripe.Product{
		ID:       "prod_123",
		Name:     "Phuture Times",
		Metadata: map[string]string{MetadataKey: "not-a-number"},
	})

	id, err := r.Resolve(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, int64(14903), id, "should fall through to the known-product table")
}

func TestResolveFromDuplicateProduct(t *testing.T) {
	lister := &fakeLister{
		products: []*stripe.Product{
			{ID: "prod_stale", Name: "Midnight Hoodie"},
			{
				ID:       "prod_fresh",
				Name:     "midnight  hoodie",
				Metadata: map[string]string{MetadataKey: "22001"},
			},
		},
	}
	r := New(lister)

	item := lineItem("Midnight Hoodie - Black (S)", &stripe.Product{
		ID:   "prod_stale",
		Name: "Midnight Hoodie",
	})

	id, err := r.Resolve(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, int64(22001), id)
}

func TestResolveNameMatchSkipsSameProduct(t *testing.T) {
	// The only name match is the product itself, which carries no metadata.
	lister := &fakeLister{
		products: []*stripe.Product{
			{ID: "prod_self", Name: "Unknown Shirt"},
		},
	}
	r := New(lister)

	item := lineItem("Unknown Shirt - Black (S)", &stripe.Product{
		ID:   "prod_self",
		Name: "Unknown Shirt",
	})

	_, err := r.Resolve(context.Background(), item)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestResolveKnownTable(t *testing.T) {
	tests := []struct {
		description string
		want        int64
	}{
		{"French Elephant Pullover - Black (XL)", 14902},
		{"French Elephant - Black (M)", 14904},
		{"Phuture Times - Black (2XL)", 14903},
	}

	r := New(&fakeLister{err: errors.New("listing unavailable")})
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			id, err := r.Resolve(context.Background(), lineItem(tt.description, &stripe.Product{ID: "p", Name: tt.description}))
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestResolvePulloverWinsOverFrenchElephant(t *testing.T) {
	r := New(&fakeLister{})

	// The name contains both "pullover" and "french elephant"; the pullover
	// mapping must win.
	id, err := r.Resolve(context.Background(), lineItem("French Elephant Pullover - Black (S)", nil))
	require.NoError(t, err)
	assert.Equal(t, int64(14902), id)
}

func TestResolveUnresolvedAborts(t *testing.T) {
	r := New(&fakeLister{})

	_, err := r.Resolve(context.Background(), lineItem("Mystery Product", &stripe.Product{ID: "p", Name: "Mystery Product"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolved)
	assert.Contains(t, err.Error(), "Mystery Product")
}

func TestResolveFallbackWhenAllowed(t *testing.T) {
	r := New(&fakeLister{})
	r.AllowFallback = true

	id, err := r.Resolve(context.Background(), lineItem("Mystery Product", nil))
	require.NoError(t, err)
	assert.Equal(t, FallbackVariantID, id)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "french elephant", NormalizeName("  French   Elephant "))
	assert.Equal(t, "phuture times", NormalizeName("PHUTURE TIMES"))
	assert.Equal(t, "", NormalizeName("   "))
}
