package search

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/Aman-CERP/storefront/internal/catalog"
)

var (
	benchBrands = []string{"Samsung", "Apple", "Xiaomi", "Oppo", "Realme", "Honor", "Vivo"}
	benchLines  = []string{"Galaxy", "iPhone", "Redmi", "Find", "Note", "Magic", "Reno", "Pixel"}
	benchSuffix = []string{"Ultra", "Pro", "Plus", "Lite", "Max", "Mini", ""}
	benchColors = []catalog.Color{
		{Key: "black", Label: "أسود"},
		{Key: "blue", Label: "أزرق"},
		{Key: "green", Label: "Green"},
		{Key: "silver", Label: "Silver"},
	}
	benchStorage  = []string{"128GB", "256GB", "512GB", "1TB"}
	benchKeywords = []string{"جالاكسي", "ايفون", "ريدمي"}
)

// generateBenchCatalog builds n reproducible listings.
func generateBenchCatalog(n int) []catalog.Item {
	rng := rand.New(rand.NewSource(42))
	items := make([]catalog.Item, n)
	for i := range items {
		id := fmt.Sprintf("phone-%d", i)
		name := fmt.Sprintf("%s %d %s", benchLines[rng.Intn(len(benchLines))], rng.Intn(30)+1, benchSuffix[rng.Intn(len(benchSuffix))])
		variants := make([]catalog.Variant, rng.Intn(3)+1)
		for j := range variants {
			variants[j] = catalog.Variant{
				ID:      fmt.Sprintf("%s-v%d", id, j),
				RAM:     fmt.Sprintf("%dGB", 4<<rng.Intn(3)),
				Storage: benchStorage[rng.Intn(len(benchStorage))],
				Price:   float64(5000 + rng.Intn(70000)),
			}
		}
		avail := catalog.InStock
		if rng.Intn(5) == 0 {
			avail = catalog.OutOfStock
		}
		items[i] = catalog.Item{
			ID:           id,
			Name:         name,
			Brand:        benchBrands[rng.Intn(len(benchBrands))],
			Variants:     variants,
			Colors:       []catalog.Color{benchColors[rng.Intn(len(benchColors))]},
			Keywords:     []string{benchKeywords[rng.Intn(len(benchKeywords))]},
			Availability: avail,
		}
	}
	return items
}

var benchQueries = []string{"galaxy", "ultra 512gb", "أسود", "pro max", "note 12", "iphone blue", "nokia"}

// BenchmarkEngineQuery_Scale runs composed queries at various catalog sizes.
func BenchmarkEngineQuery_Scale(b *testing.B) {
	for _, scale := range []int{100, 1000, 10000} {
		b.Run(fmt.Sprintf("scale_%d", scale), func(b *testing.B) {
			idx := catalog.NewIndex(generateBenchCatalog(scale))
			engine := NewEngine(WithCacheSize(scale))
			ctx := context.Background()

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				req := Request{Query: benchQueries[i%len(benchQueries)], AvailableOnly: i%2 == 0, Limit: 20}
				if _, err := engine.Query(ctx, idx, req); err != nil {
					b.Fatalf("query failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkEngineQuery_ColdCache measures blob construction when the
// cache is smaller than the catalog.
func BenchmarkEngineQuery_ColdCache(b *testing.B) {
	idx := catalog.NewIndex(generateBenchCatalog(5000))
	engine := NewEngine(WithCacheSize(16))
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := engine.Query(ctx, idx, Request{Query: "galaxy ultra"}); err != nil {
			b.Fatalf("query failed: %v", err)
		}
	}
}

// BenchmarkEngineQuery_Parallel tests concurrent query performance.
func BenchmarkEngineQuery_Parallel(b *testing.B) {
	idx := catalog.NewIndex(generateBenchCatalog(10000))
	engine := NewEngine(WithCacheSize(10000))
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if _, err := engine.Query(ctx, idx, Request{Query: benchQueries[i%len(benchQueries)], Limit: 20}); err != nil {
				b.Errorf("query failed: %v", err)
				return
			}
			i++
		}
	})
}

func BenchmarkHighlight(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Highlight("Galaxy S24 Ultra 12GB 512GB", "galaxy ultra")
	}
}
