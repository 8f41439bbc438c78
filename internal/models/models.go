package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the fixed precision of every monetary, rate and area value.
const MoneyPlaces = 2

// Round2 rounds d to two decimal places, half away from zero.
// All stored values are non-negative, so this is round-half-up.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// Product represents a flooring material in the catalog
type Product struct {
	ProductType            string          `json:"product_type"`
	CostPerSquareFoot      decimal.Decimal `json:"cost_per_square_foot"`
	LaborCostPerSquareFoot decimal.Decimal `json:"labor_cost_per_square_foot"`
}

// State represents a tax jurisdiction
type State struct {
	Abbreviation string          `json:"abbreviation"`
	Name         string          `json:"name"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
}

// Order represents a priced flooring installation order
type Order struct {
	OrderNumber            int             `json:"order_number"`
	CustomerName           string          `json:"customer_name"`
	State                  string          `json:"state"`
	TaxRate                decimal.Decimal `json:"tax_rate"`
	ProductType            string          `json:"product_type"`
	Area                   decimal.Decimal `json:"area"`
	CostPerSquareFoot      decimal.Decimal `json:"cost_per_square_foot"`
	LaborCostPerSquareFoot decimal.Decimal `json:"labor_cost_per_square_foot"`
	MaterialCost           decimal.Decimal `json:"material_cost"`
	LaborCost              decimal.Decimal `json:"labor_cost"`
	Tax                    decimal.Decimal `json:"tax"`
	Total                  decimal.Decimal `json:"total"`
}

// Equal reports whether two orders carry the same values, comparing
// decimals numerically.
func (o Order) Equal(other Order) bool {
	return o.OrderNumber == other.OrderNumber &&
		o.CustomerName == other.CustomerName &&
		o.State == other.State &&
		o.ProductType == other.ProductType &&
		o.TaxRate.Equal(other.TaxRate) &&
		o.Area.Equal(other.Area) &&
		o.CostPerSquareFoot.Equal(other.CostPerSquareFoot) &&
		o.LaborCostPerSquareFoot.Equal(other.LaborCostPerSquareFoot) &&
		o.MaterialCost.Equal(other.MaterialCost) &&
		o.LaborCost.Equal(other.LaborCost) &&
		o.Tax.Equal(other.Tax) &&
		o.Total.Equal(other.Total)
}

func (o Order) String() string {
	return fmt.Sprintf("Order{orderNumber=%d, customerName=%s}", o.OrderNumber, o.CustomerName)
}

// PartialOrder carries the user-supplied fields of an order. Blank strings
// and an invalid Area mean "not supplied" when merging into an existing order.
type PartialOrder struct {
	CustomerName string              `json:"customer_name,omitempty"`
	State        string              `json:"state,omitempty"`
	ProductType  string              `json:"product_type,omitempty"`
	Area         decimal.NullDecimal `json:"area"`
}

// NewPartialOrder builds a partial order with every field supplied.
func NewPartialOrder(customer, state, product string, area decimal.Decimal) PartialOrder {
	return PartialOrder{
		CustomerName: customer,
		State:        state,
		ProductType:  product,
		Area:         decimal.NewNullDecimal(area),
	}
}

// ToOrder returns an unpriced order holding the partial's fields.
func (p PartialOrder) ToOrder() Order {
	o := Order{
		CustomerName: p.CustomerName,
		State:        p.State,
		ProductType:  p.ProductType,
	}
	if p.Area.Valid {
		o.Area = Round2(p.Area.Decimal)
	}
	return o
}

// DateOnly truncates t to its calendar date in UTC, the key under which
// orders are grouped.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
