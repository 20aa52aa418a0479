package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validForm() Form {
	return Form{
		Name:        "Widget",
		Price:       "19.99",
		Stock:       "5",
		Description: "A fine widget",
		Category:    "tools",
	}
}

func TestForm_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Form)
		wantKey string
		wantMsg string
	}{
		{
			name:   "valid form passes",
			mutate: func(f *Form) {},
		},
		{
			name:    "empty name",
			mutate:  func(f *Form) { f.Name = "" },
			wantKey: "name",
			wantMsg: MsgNameRequired,
		},
		{
			name:    "whitespace-only name",
			mutate:  func(f *Form) { f.Name = "   " },
			wantKey: "name",
			wantMsg: MsgNameRequired,
		},
		{
			name:    "negative price",
			mutate:  func(f *Form) { f.Price = "-1" },
			wantKey: "price",
			wantMsg: MsgInvalidPrice,
		},
		{
			name:    "non-numeric price",
			mutate:  func(f *Form) { f.Price = "abc" },
			wantKey: "price",
			wantMsg: MsgInvalidPrice,
		},
		{
			name:    "negative stock",
			mutate:  func(f *Form) { f.Stock = "-3" },
			wantKey: "stock",
			wantMsg: MsgInvalidStock,
		},
		{
			name:    "fractional stock",
			mutate:  func(f *Form) { f.Stock = "2.5" },
			wantKey: "stock",
			wantMsg: MsgInvalidStock,
		},
		{
			name:    "empty description",
			mutate:  func(f *Form) { f.Description = " " },
			wantKey: "description",
			wantMsg: MsgDescriptionRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			errs := form.Validate()
			if tt.wantKey == "" {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, tt.wantMsg, errs[tt.wantKey])
		})
	}
}

func TestForm_ValidateCollectsAllErrors(t *testing.T) {
	form := Form{Price: "x", Stock: "y"}
	errs := form.Validate()
	assert.Len(t, errs, 4)
}

func TestForm_ZeroPriceAndStockAllowed(t *testing.T) {
	form := validForm()
	form.Price = "0"
	form.Stock = "0"
	assert.Empty(t, form.Validate())
}

func TestForm_Payload(t *testing.T) {
	form := validForm()
	form.Name = "  Widget  "
	form.Price = " 19.99 "

	p := form.Payload()
	assert.Equal(t, "Widget", p.Name)
	assert.True(t, decimal.RequireFromString("19.99").Equal(p.Price))
	assert.Equal(t, 5, p.Stock)
	assert.Equal(t, "tools", p.Category)
}
