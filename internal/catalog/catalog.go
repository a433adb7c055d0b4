// Package catalog is the read-only product source the engine shops from. The
// page-rendering layer owns the data; the engine never mutates it.
package catalog

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/khusimart/storefront/pkg/errors"
	"github.com/khusimart/storefront/pkg/money"
)

// DefaultDescription fills in for products listed without their own copy.
const DefaultDescription = "This is a premium quality product. Stylish, comfortable, and perfect for the new season. Limited stock available!"

// Product is the name/price/image triple the storefront renders. Name is the
// de-facto identity key across cart, wishlist and recently-viewed entries.
type Product struct {
	Name         string          `json:"name" validate:"required"`
	Price        decimal.Decimal `json:"price"`
	DisplayPrice string          `json:"display_price"`
	Image        string          `json:"image" validate:"required"`
	Description  string          `json:"description"`
}

var validate = validator.New()

// Validate checks the reference is well formed: name and image present,
// price non-negative.
func (p Product) Validate() error {
	if err := validate.Struct(p); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product reference")
	}
	if p.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "product price must be non-negative").WithDetails(p.Name)
	}
	return nil
}

// Catalog holds the immutable product listing for a page session.
type Catalog struct {
	products []Product
}

// New validates every product and fills presentation defaults: display price
// from the numeric price, description from the stock fallback.
func New(products []Product) (*Catalog, error) {
	normalized := make([]Product, 0, len(products))
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if p.DisplayPrice == "" {
			p.DisplayPrice = money.Display(p.Price)
		}
		if p.Description == "" {
			p.Description = DefaultDescription
		}
		normalized = append(normalized, p)
	}
	return &Catalog{products: normalized}, nil
}

// List returns a copy of the product listing.
func (c *Catalog) List() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// FindByName looks a product up by its display name.
func (c *Catalog) FindByName(name string) (Product, bool) {
	for _, p := range c.products {
		if p.Name == name {
			return p, true
		}
	}
	return Product{}, false
}
