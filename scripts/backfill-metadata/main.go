// Backfills printful_variant_id metadata on Stripe products that predate
// mandatory metadata, so webhook-time variant resolution never has to fall
// back to name matching for them.
//
// Usage: STRIPE_SECRET_KEY=sk_... go run ./scripts/backfill-metadata [-dry-run]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/product"
)

// variantByName maps exact product names (as they appear in Stripe) to
// Printful sync variant IDs. Size suffixes all map to the same variant.
var variantByName = map[string]string{
	"French Elephant - Black (S)":   "14904",
	"French Elephant - Black (M)":   "14904",
	"French Elephant - Black (L)":   "14904",
	"French Elephant - Black (XL)":  "14904",
	"French Elephant - Black (2XL)": "14904",

	"French Elephant Pullover - Black (S)":   "14902",
	"French Elephant Pullover - Black (M)":   "14902",
	"French Elephant Pullover - Black (L)":   "14902",
	"French Elephant Pullover - Black (XL)":  "14902",
	"French Elephant Pullover - Black (2XL)": "14902",

	"Phuture Times - Black (S)":   "14903",
	"Phuture Times - Black (M)":   "14903",
	"Phuture Times - Black (L)":   "14903",
	"Phuture Times - Black (XL)":  "14903",
	"Phuture Times - Black (2XL)": "14903",
}

const metadataKey = "printful_variant_id"

func main() {
	dryRun := flag.Bool("dry-run", false, "report what would change without writing")
	flag.Parse()

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		log.Fatal("STRIPE_SECRET_KEY is required")
	}

	params := &stripe.ProductListParams{Active: stripe.Bool(true)}
	params.Limit = stripe.Int64(100)

	updated, skipped, unmatched := 0, 0, 0

	iter := product.List(params)
	for iter.Next() {
		p := iter.Product()

		if existing := p.Metadata[metadataKey]; existing != "" {
			fmt.Printf("skip  %-45s already has variant %s\n", p.Name, existing)
			skipped++
			continue
		}

		variantID, ok := variantByName[p.Name]
		if !ok {
			variantID, ok = variantByFuzzyName(p.Name)
		}
		if !ok {
			fmt.Printf("?     %-45s no known variant mapping\n", p.Name)
			unmatched++
			continue
		}

		if *dryRun {
			fmt.Printf("would %-45s -> variant %s\n", p.Name, variantID)
			updated++
			continue
		}

		updateParams := &stripe.ProductParams{}
		updateParams.AddMetadata(metadataKey, variantID)
		if _, err := product.Update(p.ID, updateParams); err != nil {
			log.Fatalf("failed to update %s (%s): %v", p.Name, p.ID, err)
		}
		fmt.Printf("set   %-45s -> variant %s\n", p.Name, variantID)
		updated++
	}
	if err := iter.Err(); err != nil {
		log.Fatalf("failed to list products: %v", err)
	}

	fmt.Printf("\ndone: %d updated, %d already set, %d unmatched\n", updated, skipped, unmatched)
	if unmatched > 0 {
		fmt.Println("unmatched products need a manual mapping added to variantByName")
	}
}

// variantByFuzzyName catches products whose names drifted from the exact
// table entries (extra whitespace, missing size suffix).
func variantByFuzzyName(name string) (string, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "french elephant pullover"):
		return "14902", true
	case strings.Contains(lower, "french elephant"):
		return "14904", true
	case strings.Contains(lower, "phuture"):
		return "14903", true
	}
	return "", false
}
