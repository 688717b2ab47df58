package voice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nikolayk812/cartstore/internal/catalog"
	"github.com/nikolayk812/cartstore/internal/domain"
)

var (
	ErrNotUnderstood = errors.New("command not understood")
	ErrNoMatch       = errors.New("no matching product")
)

type Destination string

const (
	DestinationNone     Destination = ""
	DestinationCart     Destination = "cart"
	DestinationCheckout Destination = "checkout"
)

// Cart is the part of the cart store voice commands drive.
type Cart interface {
	Cart(ctx context.Context) domain.Cart
	Add(ctx context.Context, productLike any) (domain.Cart, error)
	Remove(ctx context.Context, id domain.ItemID) domain.Cart
	Clear(ctx context.Context) domain.Cart
}

type Result struct {
	Command  Command
	Product  *domain.Product
	Products []domain.Product
	Cart     domain.Cart
	Navigate Destination
	Message  string
}

type Executor struct {
	catalog *catalog.Catalog
	cart    Cart
	log     *slog.Logger
}

func NewExecutor(c *catalog.Catalog, cart Cart, log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{catalog: c, cart: cart, log: log}
}

// Execute parses text and applies it. Adding and buying go through the cart
// store exactly like any other add.
func (e *Executor) Execute(ctx context.Context, text string) (Result, error) {
	cmd := Parse(text)
	res := Result{Command: cmd}

	e.log.DebugContext(ctx, "voice command",
		slog.String("text", text),
		slog.String("action", string(cmd.Action)),
		slog.String("phrase", cmd.Phrase),
	)

	switch cmd.Action {
	case ActionAdd, ActionBuy:
		product, ok := MatchProduct(e.catalog.All(), cmd.Phrase)
		if !ok {
			return res, fmt.Errorf("%w: %q", ErrNoMatch, cmd.Phrase)
		}
		cart, err := e.cart.Add(ctx, product)
		if err != nil {
			return res, fmt.Errorf("cart.Add: %w", err)
		}
		res.Product, res.Cart = &product, cart
		res.Message = fmt.Sprintf("Added %s to your cart", product.Title)
		if cmd.Action == ActionBuy {
			res.Navigate = DestinationCheckout
		}

	case ActionRemove:
		current := e.cart.Cart(ctx)
		product, ok := MatchProduct(cartProducts(current), cmd.Phrase)
		if !ok {
			return res, fmt.Errorf("%w in cart: %q", ErrNoMatch, cmd.Phrase)
		}
		res.Product = &product
		res.Cart = e.cart.Remove(ctx, product.ID)
		res.Message = fmt.Sprintf("Removed %s from your cart", product.Title)

	case ActionSearch:
		res.Products = e.catalog.Filter(catalog.Filter{Search: cmd.Phrase})
		res.Cart = e.cart.Cart(ctx)
		res.Message = fmt.Sprintf("Found %d products for %q", len(res.Products), cmd.Phrase)

	case ActionShowCart:
		res.Cart = e.cart.Cart(ctx)
		res.Navigate = DestinationCart
		res.Message = "Opening your cart"

	case ActionCheckout:
		res.Cart = e.cart.Cart(ctx)
		res.Navigate = DestinationCheckout
		res.Message = "Proceeding to checkout"

	case ActionClear:
		res.Cart = e.cart.Clear(ctx)
		res.Message = "Your cart is now empty"

	default:
		return res, fmt.Errorf("%w: %q", ErrNotUnderstood, text)
	}

	return res, nil
}

func cartProducts(cart domain.Cart) []domain.Product {
	products := make([]domain.Product, 0, len(cart.Items))
	for _, item := range cart.Items {
		products = append(products, domain.Product{
			ID:       item.ID,
			Title:    item.Title,
			Price:    item.Price,
			Category: item.Category,
			Brand:    item.Brand,
			Rating:   item.Rating,
			Reviews:  item.Reviews,
			Image:    item.Image,
		})
	}
	return products
}
