package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"flooring-orders/internal/models"

	"github.com/shopspring/decimal"
)

// File headers
const (
	OrderHeader   = "OrderNumber,CustomerName,State,TaxRate,ProductType,Area,CostPerSquareFoot,LaborCostPerSquareFoot,MaterialCost,LaborCost,Tax,Total"
	ExportHeader  = OrderHeader + ",OrderDate"
	ProductHeader = "ProductType,CostPerSquareFoot,LaborCostPerSquareFoot"
	TaxHeader     = "State,StateName,TaxRate"
)

const (
	orderFields   = 12
	exportFields  = orderFields + 1
	productFields = 3
	taxFields     = 3

	orderFilePrefix = "Orders_"
	orderFileSuffix = ".txt"
	fileDateLayout  = "01022006"
	// ExportDateLayout formats the trailing OrderDate column of the export file.
	ExportDateLayout = "01-02-2006"
)

// OrderFileName returns the per-date file name, e.g. Orders_10182026.txt.
func OrderFileName(date time.Time) string {
	return orderFilePrefix + date.Format(fileDateLayout) + orderFileSuffix
}

// ParseOrderFileName extracts the order date from a per-date file name.
func ParseOrderFileName(name string) (time.Time, error) {
	if !strings.HasPrefix(name, orderFilePrefix) || !strings.HasSuffix(name, orderFileSuffix) {
		return time.Time{}, fmt.Errorf("unexpected order file name %q", name)
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(name, orderFilePrefix), orderFileSuffix)
	if len(digits) != len(fileDateLayout) {
		return time.Time{}, fmt.Errorf("order file %q has invalid date", name)
	}
	date, err := time.Parse(fileDateLayout, digits)
	if err != nil {
		return time.Time{}, fmt.Errorf("order file %q has invalid date: %w", name, err)
	}
	return date, nil
}

func fixed(d decimal.Decimal) string {
	return d.StringFixed(models.MoneyPlaces)
}

// EncodeOrder renders an order as its twelve row fields.
func EncodeOrder(o models.Order) []string {
	return []string{
		strconv.Itoa(o.OrderNumber),
		o.CustomerName,
		o.State,
		fixed(o.TaxRate),
		o.ProductType,
		fixed(o.Area),
		fixed(o.CostPerSquareFoot),
		fixed(o.LaborCostPerSquareFoot),
		fixed(o.MaterialCost),
		fixed(o.LaborCost),
		fixed(o.Tax),
		fixed(o.Total),
	}
}

// EncodeExportRow renders an order plus its order date column.
func EncodeExportRow(date time.Time, o models.Order) []string {
	return append(EncodeOrder(o), date.Format(ExportDateLayout))
}

// DecodeOrder parses twelve row fields back into an order.
func DecodeOrder(fields []string) (models.Order, error) {
	if len(fields) != orderFields {
		return models.Order{}, fmt.Errorf("order row has %d fields, want %d", len(fields), orderFields)
	}

	number, err := strconv.Atoi(fields[0])
	if err != nil {
		return models.Order{}, fmt.Errorf("order number %q: %w", fields[0], err)
	}
	if number <= 0 {
		return models.Order{}, fmt.Errorf("order number %d is not positive", number)
	}

	o := models.Order{
		OrderNumber:  number,
		CustomerName: fields[1],
		State:        fields[2],
		ProductType:  fields[4],
	}

	amounts := []struct {
		dst   *decimal.Decimal
		index int
	}{
		{&o.TaxRate, 3},
		{&o.Area, 5},
		{&o.CostPerSquareFoot, 6},
		{&o.LaborCostPerSquareFoot, 7},
		{&o.MaterialCost, 8},
		{&o.LaborCost, 9},
		{&o.Tax, 10},
		{&o.Total, 11},
	}
	for _, a := range amounts {
		if *a.dst, err = parseAmount(fields[a.index]); err != nil {
			return models.Order{}, err
		}
	}
	return o, nil
}

// DecodeExportRow parses a thirteen-field export row.
func DecodeExportRow(fields []string) (time.Time, models.Order, error) {
	if len(fields) != exportFields {
		return time.Time{}, models.Order{}, fmt.Errorf("export row has %d fields, want %d", len(fields), exportFields)
	}
	o, err := DecodeOrder(fields[:orderFields])
	if err != nil {
		return time.Time{}, models.Order{}, err
	}
	date, err := time.Parse(ExportDateLayout, fields[orderFields])
	if err != nil {
		return time.Time{}, models.Order{}, fmt.Errorf("order date %q: %w", fields[orderFields], err)
	}
	return date, o, nil
}

func decodeProduct(fields []string) (models.Product, error) {
	cost, err := parseAmount(fields[1])
	if err != nil {
		return models.Product{}, err
	}
	labor, err := parseAmount(fields[2])
	if err != nil {
		return models.Product{}, err
	}
	return models.Product{
		ProductType:            strings.TrimSpace(fields[0]),
		CostPerSquareFoot:      cost,
		LaborCostPerSquareFoot: labor,
	}, nil
}

func decodeState(fields []string) (models.State, error) {
	rate, err := parseAmount(fields[2])
	if err != nil {
		return models.State{}, err
	}
	return models.State{
		Abbreviation: strings.TrimSpace(fields[0]),
		Name:         strings.TrimSpace(fields[1]),
		TaxRate:      rate,
	}, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount %q: %w", s, err)
	}
	return models.Round2(d), nil
}

// readRows reads a delimited file body, skipping the header line.
func readRows(r io.Reader, fields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("header: %w", err)
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
}

// writeRows writes a header line followed by rows.
func writeRows(w io.Writer, header string, rows [][]string) error {
	if _, err := io.WriteString(w, header+"\n"); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
