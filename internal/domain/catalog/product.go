// Package catalog holds the canonical product shape and the
// normalization that maps the storage service's drifting field names
// onto it.
package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Defaults applied when upstream fields are missing
const (
	DefaultName        = "Unnamed Product"
	DefaultDescription = "No description available"
)

// Image is one product image reference. Content is always served by
// path, never embedded.
type Image struct {
	ID      string
	Path    string
	AltText string
	Primary bool
}

// Product is the canonical, normalized product shape. After
// normalization ID, Name, Price, Description, and Stock are always
// defined.
type Product struct {
	ID           string
	Name         string
	Price        decimal.Decimal
	Description  string
	Stock        int
	Category     string
	Manufacturer string
	ImagePath    string
	Images       []Image
	CreatedAt    string
	UpdatedAt    string
}

// PrimaryImage returns the designated primary image, the first image
// when none is flagged, or nil when the product has no gallery
func (p *Product) PrimaryImage() *Image {
	for i := range p.Images {
		if p.Images[i].Primary {
			return &p.Images[i]
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0]
	}
	return nil
}

// InStock reports whether any stock is available
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// rawProduct mirrors the union of field names the storage service has
// used across API revisions
type rawProduct struct {
	ProductID     flexString  `json:"product_id"`
	ID            flexString  `json:"id"`
	Name          string      `json:"name"`
	Price         flexDecimal `json:"price"`
	Description   string      `json:"description"`
	StockQuantity flexInt     `json:"stock_quantity"`
	Stock         flexInt     `json:"stock"`
	Category      string      `json:"category"`
	Manufacturer  string      `json:"manufacturer"`
	ImageURL      string      `json:"image_url"`
	Image         string      `json:"image"`
	Images        []rawImage  `json:"images"`
	CreatedAt     string      `json:"created_at"`
	UpdatedAt     string      `json:"updated_at"`
}

type rawImage struct {
	ImageID   flexString `json:"image_id"`
	ID        flexString `json:"id"`
	Path      string     `json:"path"`
	URL       string     `json:"url"`
	AltText   string     `json:"alt_text"`
	IsPrimary flexBool   `json:"is_primary"`
}

// Normalize maps one raw upstream product object onto the canonical
// shape, defaulting missing fields to safe placeholders
func Normalize(raw json.RawMessage) (Product, error) {
	var rp rawProduct
	if err := json.Unmarshal(raw, &rp); err != nil {
		return Product{}, err
	}
	return rp.normalize(), nil
}

func (rp rawProduct) normalize() Product {
	p := Product{
		ID:           firstNonEmpty(string(rp.ProductID), string(rp.ID)),
		Name:         firstNonEmpty(rp.Name, DefaultName),
		Price:        decimal.Decimal(rp.Price),
		Description:  firstNonEmpty(rp.Description, DefaultDescription),
		Stock:        firstNonZero(int(rp.StockQuantity), int(rp.Stock)),
		Category:     rp.Category,
		Manufacturer: rp.Manufacturer,
		ImagePath:    firstNonEmpty(rp.ImageURL, rp.Image),
		CreatedAt:    rp.CreatedAt,
		UpdatedAt:    rp.UpdatedAt,
	}

	for _, ri := range rp.Images {
		path := firstNonEmpty(ri.Path, ri.URL)
		if path == "" {
			continue
		}
		p.Images = append(p.Images, Image{
			ID:      firstNonEmpty(string(ri.ImageID), string(ri.ID)),
			Path:    path,
			AltText: ri.AltText,
			Primary: bool(ri.IsPrimary),
		})
	}

	return p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

// flexString accepts both string and numeric JSON values
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

// flexDecimal accepts numeric and string prices; anything unparseable
// becomes zero
type flexDecimal decimal.Decimal

func (f *flexDecimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	s := strings.Trim(string(b), `"`)
	d, err := decimal.NewFromString(s)
	if err != nil {
		*f = flexDecimal(decimal.Zero)
		return nil
	}
	*f = flexDecimal(d)
	return nil
}

// flexInt accepts numeric and numeric-string values; anything
// unparseable becomes zero
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	s := strings.Trim(string(b), `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		// Tolerate floats like 5.0 from loosely typed backends
		fl, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			*f = 0
			return nil
		}
		n = int(fl)
	}
	*f = flexInt(n)
	return nil
}

// flexBool accepts true/false and the storage service's 1/0 flags,
// quoted or not
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	switch s {
	case "true", "1":
		*f = true
	default:
		*f = false
	}
	return nil
}
