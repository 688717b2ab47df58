package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultTitle = "Product"
	DefaultImage = "https://m.media-amazon.com/images/I/51UW1849rJL._SX679_.jpg"
)

// DefaultPrice is used when a product carries no usable price.
var DefaultPrice = decimal.NewFromInt(999)

const (
	fieldID       = "id"
	fieldTitle    = "title"
	fieldPrice    = "price"
	fieldImage    = "image"
	fieldQty      = "qty"
	fieldRating   = "rating"
	fieldReviews  = "reviews"
	fieldCategory = "category"
	fieldBrand    = "brand"
)

// NewCartItem coerces a product-like value into a valid CartItem.
//
// Accepted inputs are Product, *Product, CartItem, map[string]any,
// json.RawMessage and []byte holding a JSON object. Missing or unusable
// title, price, image and qty fields are defaulted. Anything that is not an
// object, or an object without a usable id, yields ErrInvalidInput.
func NewCartItem(productLike any) (CartItem, error) {
	fields, err := objectFields(productLike)
	if err != nil {
		return CartItem{}, err
	}

	item, err := cartItemFromFields(fields)
	if err != nil {
		return CartItem{}, err
	}
	if item.Qty < 1 {
		item.Qty = 1
	}

	return item, nil
}

// DecodeCartItem reads one persisted cart entry. It applies the same field
// defaults as NewCartItem but keeps the stored quantity as is, so callers can
// drop entries whose quantity is no longer positive.
func DecodeCartItem(raw json.RawMessage) (CartItem, error) {
	fields, err := objectFields(raw)
	if err != nil {
		return CartItem{}, err
	}

	return cartItemFromFields(fields)
}

func objectFields(productLike any) (map[string]json.RawMessage, error) {
	var data []byte

	switch v := productLike.(type) {
	case nil:
		return nil, fmt.Errorf("%w: product is nil", ErrInvalidInput)
	case *Product:
		if v == nil {
			return nil, fmt.Errorf("%w: product is nil", ErrInvalidInput)
		}
		return objectFields(*v)
	case json.RawMessage:
		data = v
	case []byte:
		data = v
	case Product, CartItem, map[string]any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: json.Marshal: %v", ErrInvalidInput, err)
		}
		data = encoded
	default:
		return nil, fmt.Errorf("%w: product of type %T is not an object", ErrInvalidInput, productLike)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("%w: product is not an object", ErrInvalidInput)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: json.Unmarshal: %v", ErrInvalidInput, err)
	}

	return fields, nil
}

func cartItemFromFields(fields map[string]json.RawMessage) (CartItem, error) {
	rawID, ok := fields[fieldID]
	if !ok || isNull(rawID) {
		return CartItem{}, fmt.Errorf("%w: id is missing", ErrInvalidInput)
	}

	var id ItemID
	if err := json.Unmarshal(rawID, &id); err != nil {
		return CartItem{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	item := CartItem{
		ID:    id,
		Title: DefaultTitle,
		Price: DefaultPrice,
		Image: DefaultImage,
		Qty:   1,
	}

	if title, ok := decodeString(fields[fieldTitle]); ok {
		item.Title = title
	}
	if image, ok := decodeString(fields[fieldImage]); ok {
		item.Image = image
	}
	if price, ok := decodeNumber(fields[fieldPrice]); ok && !price.IsNegative() {
		item.Price = price
	}
	if qty, ok := decodeNumber(fields[fieldQty]); ok {
		item.Qty = quantity(qty)
	}

	for key, raw := range fields {
		if isNull(raw) {
			continue
		}

		switch key {
		case fieldID, fieldTitle, fieldPrice, fieldImage, fieldQty:
			continue
		case fieldRating:
			if n, ok := decodeNumber(raw); ok {
				item.Rating = n.InexactFloat64()
				continue
			}
		case fieldReviews:
			if n, ok := decodeNumber(raw); ok && !n.IsNegative() && n.LessThanOrEqual(maxReviews) {
				item.Reviews = int(n.IntPart())
				continue
			}
		case fieldCategory:
			if s, ok := decodeString(raw); ok {
				item.Category = s
				continue
			}
		case fieldBrand:
			if s, ok := decodeString(raw); ok {
				item.Brand = s
				continue
			}
		}

		if item.Extra == nil {
			item.Extra = make(map[string]json.RawMessage)
		}
		item.Extra[key] = raw
	}

	return item, nil
}

// MarshalJSON writes the persisted item layout. Passthrough fields are
// emitted first so that the recognised fields always win.
func (i CartItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(i.Extra)+9)
	for k, v := range i.Extra {
		out[k] = v
	}

	out[fieldID] = i.ID
	out[fieldTitle] = i.Title
	out[fieldPrice] = json.RawMessage(i.Price.String())
	out[fieldImage] = i.Image
	out[fieldQty] = i.Qty

	if i.Rating != 0 {
		out[fieldRating] = i.Rating
	}
	if i.Reviews != 0 {
		out[fieldReviews] = i.Reviews
	}
	if i.Category != "" {
		out[fieldCategory] = i.Category
	}
	if i.Brand != "" {
		out[fieldBrand] = i.Brand
	}

	return json.Marshal(out)
}

// NormalizeQty turns an arbitrary requested quantity into a stored one:
// fractions are truncated, anything below one becomes one and anything above
// MaxQty becomes MaxQty.
func NormalizeQty(qty decimal.Decimal) int {
	return clampQty(qty)
}

func clampQty(qty decimal.Decimal) int {
	return max(quantity(qty), 1)
}

func decodeString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	if strings.TrimSpace(s) == "" {
		return "", false
	}

	return s, true
}

func decodeNumber(raw json.RawMessage) (decimal.Decimal, bool) {
	if len(raw) == 0 || isNull(raw) {
		return decimal.Decimal{}, false
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Decimal{}, false
		}
		text = strings.TrimSpace(text)
	}

	d, err := ParseDecimal(text)
	if err != nil {
		return decimal.Decimal{}, false
	}

	return d, true
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
