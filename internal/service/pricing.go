package service

import (
	"regexp"
	"strings"

	"flooring-orders/internal/models"

	"github.com/shopspring/decimal"
)

var (
	customerNamePattern = regexp.MustCompile(`^[a-zA-Z0-9 .]+$`)

	// MinArea is the smallest orderable area, inclusive.
	MinArea = decimal.NewFromInt(100)

	hundred = decimal.NewFromInt(100)
)

// Catalog is the reference data an order is priced against
type Catalog struct {
	Products map[string]models.Product
	States   map[string]models.State
}

// PriceOrder validates the user-supplied fields of order and fills in every
// derived field. Checks run in a fixed order and stop at the first failure:
// state, customer name, product, area.
func PriceOrder(order models.Order, catalog Catalog) (models.Order, error) {
	state, ok := catalog.States[order.State]
	if !ok {
		return models.Order{}, newError(KindStateNotFound, "state %q was not found", order.State)
	}

	name, err := ValidateCustomerName(order.CustomerName)
	if err != nil {
		return models.Order{}, err
	}
	order.CustomerName = name

	product, ok := catalog.Products[order.ProductType]
	if !ok {
		return models.Order{}, newError(KindProductNotFound, "product %q was not found", order.ProductType)
	}

	order.Area = models.Round2(order.Area)
	if order.Area.LessThan(MinArea) {
		return models.Order{}, newError(KindInvalidArea, "area %s must be at least %s sq ft", order.Area.StringFixed(2), MinArea.String())
	}

	order.CostPerSquareFoot = models.Round2(product.CostPerSquareFoot)
	order.LaborCostPerSquareFoot = models.Round2(product.LaborCostPerSquareFoot)
	order.TaxRate = models.Round2(state.TaxRate)

	return computeCosts(order), nil
}

// computeCosts derives material, labor, tax and total from area and rates.
// Each value is rounded when assigned, and later values build on the
// rounded ones.
func computeCosts(order models.Order) models.Order {
	order.MaterialCost = models.Round2(order.Area.Mul(order.CostPerSquareFoot))
	order.LaborCost = models.Round2(order.Area.Mul(order.LaborCostPerSquareFoot))

	subtotal := order.MaterialCost.Add(order.LaborCost)
	order.Tax = models.Round2(order.TaxRate.Div(hundred).Mul(subtotal))
	order.Total = models.Round2(subtotal.Add(order.Tax))
	return order
}

// ValidateCustomerName trims name and checks it holds only letters, digits,
// spaces and periods. An empty name is invalid.
func ValidateCustomerName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if !customerNamePattern.MatchString(trimmed) {
		return "", newError(KindInvalidCustomerName, "customer name %q must be letters, numbers, dots, or spaces", name)
	}
	return trimmed, nil
}

// MergeOrder overlays the supplied fields of partial onto existing. Blank
// strings and a null area leave the existing value untouched. Derived fields
// are not recomputed; run PriceOrder on the result.
func MergeOrder(existing models.Order, partial models.PartialOrder) models.Order {
	merged := existing
	if strings.TrimSpace(partial.CustomerName) != "" {
		merged.CustomerName = partial.CustomerName
	}
	if strings.TrimSpace(partial.State) != "" {
		merged.State = strings.TrimSpace(partial.State)
	}
	if strings.TrimSpace(partial.ProductType) != "" {
		merged.ProductType = strings.TrimSpace(partial.ProductType)
	}
	if partial.Area.Valid {
		merged.Area = models.Round2(partial.Area.Decimal)
	}
	return merged
}
