package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"flooring-orders/internal/models"
	"flooring-orders/internal/store"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
)

var (
	accent = lipgloss.Color("#D97706")
	fg     = lipgloss.Color("#E8E6E3")
	dim    = lipgloss.Color("#6B7280")
	danger = lipgloss.Color("#EF4444")
	good   = lipgloss.Color("#22C55E")
)

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Border(lipgloss.NormalBorder(), true, false).
			BorderForeground(accent).
			Padding(0, 2)

	labelStyle   = lipgloss.NewStyle().Foreground(dim).Width(22)
	valueStyle   = lipgloss.NewStyle().Foreground(fg)
	totalStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(danger)
	successStyle = lipgloss.NewStyle().Foreground(good)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

func banner(title string) string {
	return bannerStyle.Render(title)
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(models.MoneyPlaces)
}

func isoDate(date time.Time) string {
	return date.Format("2006-01-02")
}

// RenderOrder renders the details of one order. Unnumbered orders (previews)
// omit the order number line.
func RenderOrder(title string, date time.Time, o models.Order) string {
	var b strings.Builder
	b.WriteString(banner(title))
	b.WriteString("\n")

	line := func(label, value string) {
		fmt.Fprintf(&b, "%s%s\n", labelStyle.Render(label), valueStyle.Render(value))
	}

	line("Order date:", isoDate(date))
	if o.OrderNumber > 0 {
		line("Order number:", strconv.Itoa(o.OrderNumber))
	}
	line("Customer name:", o.CustomerName)
	line("State:", o.State)
	line("Tax rate:", o.TaxRate.StringFixed(models.MoneyPlaces)+"%")
	line("Product type:", o.ProductType)
	line("Area:", o.Area.StringFixed(models.MoneyPlaces)+" sq ft")
	line("Cost per sq ft:", money(o.CostPerSquareFoot))
	line("Labor cost per sq ft:", money(o.LaborCostPerSquareFoot))
	line("Material cost:", money(o.MaterialCost))
	line("Labor cost:", money(o.LaborCost))
	line("Tax:", money(o.Tax))
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("Total:"), totalStyle.Render(money(o.Total)))
	return b.String()
}

// RenderOrders renders every order of a date as a table, by order number
func RenderOrders(date time.Time, orders map[int]models.Order) string {
	t := newTable("#", "Customer", "State", "Product", "Area", "Material", "Labor", "Tax", "Total")
	for _, o := range store.SortedOrders(orders) {
		t.Row(
			strconv.Itoa(o.OrderNumber),
			o.CustomerName,
			o.State,
			o.ProductType,
			o.Area.StringFixed(models.MoneyPlaces),
			money(o.MaterialCost),
			money(o.LaborCost),
			money(o.Tax),
			money(o.Total),
		)
	}
	return banner("Orders on "+isoDate(date)) + "\n" + t.Render() + "\n"
}

// RenderProducts renders the product catalog sorted by product type
func RenderProducts(products map[string]models.Product) string {
	names := make([]string, 0, len(products))
	for name := range products {
		names = append(names, name)
	}
	sort.Strings(names)

	t := newTable("Product", "Cost / sq ft", "Labor / sq ft")
	for _, name := range names {
		p := products[name]
		t.Row(p.ProductType, money(p.CostPerSquareFoot), money(p.LaborCostPerSquareFoot))
	}
	return banner("Products") + "\n" + t.Render() + "\n"
}

// RenderStates renders the tax catalog sorted by abbreviation
func RenderStates(states map[string]models.State) string {
	abbrs := make([]string, 0, len(states))
	for abbr := range states {
		abbrs = append(abbrs, abbr)
	}
	sort.Strings(abbrs)

	t := newTable("State", "Name", "Tax rate")
	for _, abbr := range abbrs {
		st := states[abbr]
		t.Row(st.Abbreviation, st.Name, st.TaxRate.StringFixed(models.MoneyPlaces)+"%")
	}
	return banner("States") + "\n" + t.Render() + "\n"
}

// RenderError renders an error message for the terminal
func RenderError(err error) string {
	return errorStyle.Render("ERROR: ") + err.Error() + "\n"
}

func renderSuccess(msg string) string {
	return successStyle.Render(msg) + "\n"
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(dim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}
