package voice

import (
	"slices"
	"strings"

	"github.com/nikolayk812/cartstore/internal/domain"
)

// MatchProduct finds the product a spoken phrase most likely refers to.
// Candidates are tried in order: exact title, exact category and exact brand
// (highest rated wins), title substring (earliest occurrence wins), and
// finally keyword scoring.
func MatchProduct(products []domain.Product, phrase string) (domain.Product, bool) {
	name := strings.ToLower(strings.TrimSpace(phrase))
	if name == "" || len(products) == 0 {
		return domain.Product{}, false
	}

	for _, p := range products {
		if strings.ToLower(p.Title) == name {
			return p, true
		}
	}

	if p, ok := bestRated(products, func(p domain.Product) bool { return strings.ToLower(p.Category) == name }); ok {
		return p, true
	}
	if p, ok := bestRated(products, func(p domain.Product) bool { return strings.ToLower(p.Brand) == name }); ok {
		return p, true
	}

	best, bestIdx := domain.Product{}, -1
	for _, p := range products {
		idx := strings.Index(strings.ToLower(p.Title), name)
		if idx >= 0 && (bestIdx < 0 || idx < bestIdx) {
			best, bestIdx = p, idx
		}
	}
	if bestIdx >= 0 {
		return best, true
	}

	keywords := slices.DeleteFunc(strings.Fields(name), func(k string) bool { return len(k) <= 2 })
	if len(keywords) == 0 {
		if len(name) < 2 {
			return domain.Product{}, false
		}
		return bestRated(products, func(p domain.Product) bool {
			return containsFold(p.Title, name) || containsFold(p.Brand, name) || containsFold(p.Category, name)
		})
	}

	var highest float64
	for _, p := range products {
		if score := keywordScore(p, keywords); score > highest {
			best, highest = p, score
		}
	}
	if highest > 1 {
		return best, true
	}

	return domain.Product{}, false
}

// keywordScore weights title word hits 3, title substring hits 2, brand 1.5 and
// category 1, then favours short titles and well rated products.
func keywordScore(p domain.Product, keywords []string) float64 {
	title := strings.ToLower(p.Title)
	words := strings.Fields(title)
	brand := strings.ToLower(p.Brand)
	category := strings.ToLower(p.Category)

	var score float64
	for _, k := range keywords {
		if strings.Contains(title, k) {
			if slices.Contains(words, k) {
				score += 3
			} else {
				score += 2
			}
		}
		if strings.Contains(brand, k) {
			score += 1.5
		}
		if strings.Contains(category, k) {
			score++
		}
	}

	score *= 1 + 1/float64(max(len(words), 1))
	score *= 1 + p.Rating/10

	return score
}

func bestRated(products []domain.Product, match func(domain.Product) bool) (domain.Product, bool) {
	var (
		best  domain.Product
		found bool
	)
	for _, p := range products {
		if match(p) && (!found || p.Rating > best.Rating) {
			best, found = p, true
		}
	}
	return best, found
}

func containsFold(haystack, needle string) bool {
	return haystack != "" && strings.Contains(strings.ToLower(haystack), needle)
}
