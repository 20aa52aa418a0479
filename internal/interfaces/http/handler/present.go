package handler

import (
	"github.com/shopspring/decimal"

	cartdomain "github.com/ecomm/storefront/internal/domain/cart"
	"github.com/ecomm/storefront/internal/domain/catalog"
	"github.com/ecomm/storefront/internal/view"
)

// productView is the product shape served to pages: the canonical
// product plus its display-formatted price
type productView struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	DisplayPrice string          `json:"display_price"`
	Description  string          `json:"description"`
	Stock        int             `json:"stock"`
	InStock      bool            `json:"in_stock"`
	Category     string          `json:"category,omitempty"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	ImagePath    string          `json:"image_path,omitempty"`
	Images       []imageView     `json:"images,omitempty"`
	CreatedAt    string          `json:"created_at,omitempty"`
	UpdatedAt    string          `json:"updated_at,omitempty"`
}

type imageView struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	AltText string `json:"alt_text,omitempty"`
	Primary bool   `json:"is_primary"`
}

func presentProduct(p *catalog.Product) productView {
	pv := productView{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		DisplayPrice: view.FormatPrice(p.Price),
		Description:  p.Description,
		Stock:        p.Stock,
		InStock:      p.InStock(),
		Category:     p.Category,
		Manufacturer: p.Manufacturer,
		ImagePath:    p.ImagePath,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	for _, img := range p.Images {
		pv.Images = append(pv.Images, imageView{
			ID:      img.ID,
			Path:    img.Path,
			AltText: img.AltText,
			Primary: img.Primary,
		})
	}
	return pv
}

func presentProducts(products []catalog.Product) []productView {
	views := make([]productView, 0, len(products))
	for i := range products {
		views = append(views, presentProduct(&products[i]))
	}
	return views
}

// cartView mirrors the cart with display-formatted line and cart totals
type cartView struct {
	Items        []cartItemView  `json:"items"`
	Total        decimal.Decimal `json:"total"`
	DisplayTotal string          `json:"display_total"`
	ItemCount    int             `json:"item_count"`
}

type cartItemView struct {
	ProductID        string          `json:"product_id"`
	Name             string          `json:"name"`
	Price            decimal.Decimal `json:"price"`
	DisplayPrice     string          `json:"display_price"`
	ImagePath        string          `json:"image_url,omitempty"`
	Quantity         int             `json:"quantity"`
	LineTotal        decimal.Decimal `json:"line_total"`
	DisplayLineTotal string          `json:"display_line_total"`
}

func presentCart(c *cartdomain.Cart) cartView {
	cv := cartView{
		Items:        make([]cartItemView, 0, len(c.Items)),
		Total:        c.Total,
		DisplayTotal: view.FormatPrice(c.Total),
		ItemCount:    c.ItemCount(),
	}
	for i := range c.Items {
		item := &c.Items[i]
		cv.Items = append(cv.Items, cartItemView{
			ProductID:        item.ProductID,
			Name:             item.Name,
			Price:            item.Price,
			DisplayPrice:     view.FormatPrice(item.Price),
			ImagePath:        item.ImagePath,
			Quantity:         item.Quantity,
			LineTotal:        item.LineTotal(),
			DisplayLineTotal: view.FormatPrice(item.LineTotal()),
		})
	}
	return cv
}
