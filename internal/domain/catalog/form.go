package catalog

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Field-level validation messages shown inline next to the offending
// input
const (
	MsgNameRequired        = "Product name is required"
	MsgInvalidPrice        = "Please enter a valid price"
	MsgInvalidStock        = "Please enter a valid stock quantity"
	MsgDescriptionRequired = "Product description is required"
)

// Form carries the raw admin-form input for creating or updating a
// product. Price and Stock stay strings until validation because they
// arrive as free text.
type Form struct {
	Name         string `json:"name" validate:"trimmed_required"`
	Price        string `json:"price" validate:"required,price"`
	Stock        string `json:"stock" validate:"required,stock"`
	Description  string `json:"description" validate:"trimmed_required"`
	Category     string `json:"category"`
	Manufacturer string `json:"manufacturer"`
}

// FieldErrors maps form field names to inline error messages
type FieldErrors map[string]string

// validate is shared and safe for concurrent use
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// required with surrounding whitespace stripped first
	_ = v.RegisterValidation("trimmed_required", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	// a parseable, non-negative decimal
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && !d.IsNegative()
	})

	// a parseable, non-negative integer
	_ = v.RegisterValidation("stock", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil && n >= 0
	})

	return v
}

// Validate checks the form and returns inline messages per offending
// field. An empty result means the form is valid.
func (f *Form) Validate() FieldErrors {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	errs := make(FieldErrors)
	for _, fe := range err.(validator.ValidationErrors) {
		switch fe.Field() {
		case "Name":
			errs["name"] = MsgNameRequired
		case "Price":
			errs["price"] = MsgInvalidPrice
		case "Stock":
			errs["stock"] = MsgInvalidStock
		case "Description":
			errs["description"] = MsgDescriptionRequired
		}
	}
	return errs
}

// Payload builds the request body for the storage service. Call only
// after Validate returned no errors.
type Payload struct {
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description"`
	Stock        int             `json:"stock"`
	Category     string          `json:"category"`
	Manufacturer string          `json:"manufacturer"`
}

// Payload converts the validated form into the wire shape
func (f *Form) Payload() Payload {
	price, _ := decimal.NewFromString(strings.TrimSpace(f.Price))
	stock, _ := strconv.Atoi(strings.TrimSpace(f.Stock))
	return Payload{
		Name:         strings.TrimSpace(f.Name),
		Price:        price,
		Description:  strings.TrimSpace(f.Description),
		Stock:        stock,
		Category:     f.Category,
		Manufacturer: f.Manufacturer,
	}
}
