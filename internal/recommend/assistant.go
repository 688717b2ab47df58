package recommend

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/nikolayk812/cartstore/internal/catalog"
	"github.com/nikolayk812/cartstore/internal/domain"
	"github.com/shopspring/decimal"
)

// Reply is the assistant's answer to a shopper's message.
type Reply struct {
	Text            string
	Recommendations []Recommendation
}

var (
	greetings = []string{"hi", "hello", "hey", "hola", "greetings", "howdy"}

	priceWords       = []string{"under", "less than", "cheaper", "below"}
	bestWords        = []string{"best", "top", "recommended"}
	suggestWords     = []string{"recommend", "suggest", "suggestion", "suggestions", "show me", "what should"}
	helpWords        = []string{"help", "how", "what"}
	bareProductWords = []string{"product", "products"}

	firstNumber = regexp.MustCompile(`\d+`)
)

// Respond answers a free-text shopping question with up to three products.
// The first matching rule wins: greeting, category, brand, price ceiling,
// best/top, suggestion request, help, the product being viewed, and finally
// popular products. product may be nil.
func (r *Recommender) Respond(query string, product *domain.Product) Reply {
	q := newQuery(query)

	if slices.Contains(greetings, q.first()) {
		return r.reply("Hello! Welcome to Amazon. Here are some popular products you might like today:",
			r.catalog.Popular(maxRecommendations), nil)
	}

	for _, category := range r.catalog.Categories() {
		if q.has(strings.ToLower(category)) {
			return r.reply(fmt.Sprintf("Here are some great %s products I found for you:", category),
				r.topRated(catalog.Filter{Categories: []string{category}}), nil)
		}
	}

	for _, brand := range r.catalog.Brands() {
		if q.has(strings.ToLower(brand)) {
			return r.reply(fmt.Sprintf("Here are some popular %s products:", brand),
				r.topRated(catalog.Filter{Brands: []string{brand}}), nil)
		}
	}

	if q.hasAny(priceWords) {
		if limit, ok := q.number(); ok {
			return r.reply(fmt.Sprintf("Here are some great products under ₹%d:", limit),
				r.cheaperThan(limit), nil)
		}
	}

	switch {
	case q.hasAny(bestWords):
		return r.reply("Here are some of our top-rated products across all categories:",
			r.catalog.Popular(maxRecommendations), nil)
	case q.hasAny(suggestWords) || slices.Contains(bareProductWords, q.text):
		return r.reply("Here are some great products I recommend for you:",
			r.catalog.Popular(maxRecommendations), nil)
	case q.hasAny(helpWords):
		return r.reply("I can help you find products based on category, brand, price range, or features. Here are some popular items you might like:",
			r.catalog.Popular(maxRecommendations), nil)
	case product != nil:
		return r.reply(fmt.Sprintf("Based on your interest in %s, you might also like these similar products:", product.Title),
			r.similarTo(*product), []domain.CartItem{{ID: product.ID, Category: product.Category, Brand: product.Brand}})
	}

	text := "I'm not sure exactly what you're looking for, but here are some popular products you might like:"
	switch {
	case len(q.text) < 5:
		text = "Here are some popular products you might be interested in:"
	case strings.HasSuffix(q.text, "?"):
		text = "I'll help you find what you're looking for. Meanwhile, check out these popular items:"
	}

	return r.reply(text, r.catalog.Popular(maxRecommendations), nil)
}

func (r *Recommender) reply(text string, products []domain.Product, seen []domain.CartItem) Reply {
	return Reply{Text: text, Recommendations: r.explain(products, seen)}
}

func (r *Recommender) topRated(f catalog.Filter) []domain.Product {
	f.Sort = catalog.SortRating
	products := r.catalog.Filter(f)
	return products[:min(len(products), maxRecommendations)]
}

// cheaperThan keeps products priced strictly below limit.
func (r *Recommender) cheaperThan(limit int64) []domain.Product {
	ceiling := decimal.NewFromInt(limit)

	var out []domain.Product
	for _, p := range r.catalog.Filter(catalog.Filter{Sort: catalog.SortRating}) {
		if len(out) == maxRecommendations {
			break
		}
		if p.Price.LessThan(ceiling) {
			out = append(out, p)
		}
	}
	return out
}

func (r *Recommender) similarTo(product domain.Product) []domain.Product {
	var out []domain.Product
	for _, p := range r.catalog.Filter(catalog.Filter{Categories: []string{product.Category}, Sort: catalog.SortRating}) {
		if len(out) == maxRecommendations {
			break
		}
		if p.ID != product.ID {
			out = append(out, p)
		}
	}
	return out
}

// query is a lower-cased message split into words, so that keywords match
// whole words only: "laptop" does not contain "top".
type query struct {
	text  string
	words string
	raw   string
}

func newQuery(s string) query {
	text := strings.ToLower(strings.TrimSpace(s))
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	return query{
		text:  text,
		words: " " + strings.Join(words, " ") + " ",
		raw:   s,
	}
}

func (q query) first() string {
	words := strings.Fields(q.words)
	if len(words) == 0 {
		return ""
	}
	return words[0]
}

// has reports whether phrase occurs as a run of whole words.
func (q query) has(phrase string) bool {
	return strings.Contains(q.words, " "+phrase+" ")
}

func (q query) hasAny(phrases []string) bool {
	return slices.ContainsFunc(phrases, q.has)
}

func (q query) number() (int64, bool) {
	n, err := strconv.ParseInt(firstNumber.FindString(q.raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
