package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"flooring-orders/internal/models"
)

// OrderStore owns the per-date order files and the order number counter.
// Every operation reloads the orders directory first, so the in-memory view
// always reflects what is on disk.
type OrderStore struct {
	dir        string
	exportFile string
	seqFile    string

	orders         map[time.Time]map[int]models.Order
	maxOrderNumber int
}

// NewOrderStore creates the orders directory if needed and loads existing orders
func NewOrderStore(dir, exportFile, seqFile string) (*OrderStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, persistenceErr("create orders directory", dir, err)
	}

	s := &OrderStore{
		dir:        dir,
		exportFile: exportFile,
		seqFile:    seqFile,
		orders:     make(map[time.Time]map[int]models.Order),
	}

	if err := s.loadSequence(); err != nil {
		return nil, err
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// AddOrder assigns the next order number and persists the order under date
func (s *OrderStore) AddOrder(date time.Time, order models.Order) (models.Order, error) {
	if err := s.load(); err != nil {
		return models.Order{}, err
	}
	date = models.DateOnly(date)

	s.maxOrderNumber++
	order.OrderNumber = s.maxOrderNumber
	if err := s.saveSequence(); err != nil {
		return models.Order{}, err
	}

	dateOrders, ok := s.orders[date]
	if !ok {
		dateOrders = make(map[int]models.Order)
		s.orders[date] = dateOrders
	}
	dateOrders[order.OrderNumber] = order

	if err := s.saveDate(date); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// GetOrder returns a single order; ok is false when it does not exist
func (s *OrderStore) GetOrder(date time.Time, orderNumber int) (models.Order, bool, error) {
	if err := s.load(); err != nil {
		return models.Order{}, false, err
	}
	order, ok := s.orders[models.DateOnly(date)][orderNumber]
	return order, ok, nil
}

// GetAllOrders returns a copy of the orders for date keyed by order number.
// ok is false when no orders exist for the date.
func (s *OrderStore) GetAllOrders(date time.Time) (map[int]models.Order, bool, error) {
	if err := s.load(); err != nil {
		return nil, false, err
	}
	dateOrders, ok := s.orders[models.DateOnly(date)]
	if !ok {
		return nil, false, nil
	}

	out := make(map[int]models.Order, len(dateOrders))
	for n, o := range dateOrders {
		out[n] = o
	}
	return out, true, nil
}

// EditOrder replaces an existing order in place and returns the previous one.
// The order number of newOrder is forced to orderNumber.
func (s *OrderStore) EditOrder(date time.Time, orderNumber int, newOrder models.Order) (models.Order, error) {
	if err := s.load(); err != nil {
		return models.Order{}, err
	}
	date = models.DateOnly(date)

	dateOrders, ok := s.orders[date]
	if !ok {
		return models.Order{}, ErrNoOrders
	}
	previous, ok := dateOrders[orderNumber]
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}

	newOrder.OrderNumber = orderNumber
	dateOrders[orderNumber] = newOrder
	if err := s.saveDate(date); err != nil {
		return models.Order{}, err
	}
	return previous, nil
}

// RemoveOrder deletes an order and returns it. Removing the last order of a
// date deletes that date's file.
func (s *OrderStore) RemoveOrder(date time.Time, orderNumber int) (models.Order, error) {
	if err := s.load(); err != nil {
		return models.Order{}, err
	}
	date = models.DateOnly(date)

	dateOrders, ok := s.orders[date]
	if !ok {
		return models.Order{}, ErrNoOrders
	}
	removed, ok := dateOrders[orderNumber]
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}

	delete(dateOrders, orderNumber)
	if err := s.saveDate(date); err != nil {
		return models.Order{}, err
	}
	return removed, nil
}

// ExportAllData writes every order of every date to the export file, with
// the order date appended as a trailing column. Rows are ordered by date,
// then order number.
func (s *OrderStore) ExportAllData() error {
	if err := s.load(); err != nil {
		return err
	}

	var rows [][]string
	for _, date := range s.dates() {
		for _, o := range sortedOrders(s.orders[date]) {
			rows = append(rows, EncodeExportRow(date, o))
		}
	}

	err := writeFileAtomic(s.exportFile, func(w io.Writer) error {
		return writeRows(w, ExportHeader, rows)
	})
	if err != nil {
		return persistenceErr("export orders", s.exportFile, err)
	}
	return nil
}

// MaxOrderNumber returns the highest order number ever assigned or seen
func (s *OrderStore) MaxOrderNumber() int {
	return s.maxOrderNumber
}

// Dates returns every date that currently has orders, ascending
func (s *OrderStore) Dates() ([]time.Time, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	return s.dates(), nil
}

func (s *OrderStore) dates() []time.Time {
	dates := make([]time.Time, 0, len(s.orders))
	for d := range s.orders {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// SortedOrders returns the orders of a date map ordered by order number
func SortedOrders(orders map[int]models.Order) []models.Order {
	return sortedOrders(orders)
}

func sortedOrders(orders map[int]models.Order) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber < out[j].OrderNumber })
	return out
}

// load replaces the in-memory orders with the contents of the orders
// directory. Header-only files are deleted. The counter never decreases.
func (s *OrderStore) load() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return persistenceErr("load orders", s.dir, err)
	}

	orders := make(map[time.Time]map[int]models.Order)
	maxSeen := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(s.dir, name)

		date, err := ParseOrderFileName(name)
		if err != nil {
			return persistenceErr("load orders", path, err)
		}

		dateOrders, err := loadOrderFile(path)
		if err != nil {
			return persistenceErr("load orders", path, err)
		}
		if len(dateOrders) == 0 {
			if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return persistenceErr("remove empty order file", path, err)
			}
			continue
		}

		for n := range dateOrders {
			if n > maxSeen {
				maxSeen = n
			}
		}
		orders[models.DateOnly(date)] = dateOrders
	}

	s.orders = orders
	if maxSeen > s.maxOrderNumber {
		s.maxOrderNumber = maxSeen
	}
	return nil
}

func loadOrderFile(path string) (map[int]models.Order, error) {
	rows, err := readFile(path, orderFields)
	if err != nil {
		return nil, err
	}

	dateOrders := make(map[int]models.Order, len(rows))
	for i, row := range rows {
		o, err := DecodeOrder(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		if _, dup := dateOrders[o.OrderNumber]; dup {
			return nil, fmt.Errorf("line %d: duplicate order number %d", i+2, o.OrderNumber)
		}
		dateOrders[o.OrderNumber] = o
	}
	return dateOrders, nil
}

// saveDate rewrites the file for date, or deletes it when the date has no
// orders left.
func (s *OrderStore) saveDate(date time.Time) error {
	path := filepath.Join(s.dir, OrderFileName(date))

	dateOrders := s.orders[date]
	if len(dateOrders) == 0 {
		delete(s.orders, date)
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return persistenceErr("remove empty order file", path, err)
		}
		return nil
	}

	rows := make([][]string, 0, len(dateOrders))
	for _, o := range sortedOrders(dateOrders) {
		rows = append(rows, EncodeOrder(o))
	}

	err := writeFileAtomic(path, func(w io.Writer) error {
		return writeRows(w, OrderHeader, rows)
	})
	if err != nil {
		return persistenceErr("save orders", path, err)
	}
	return nil
}

func (s *OrderStore) loadSequence() error {
	if s.seqFile == "" {
		return nil
	}

	data, err := os.ReadFile(s.seqFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return persistenceErr("load order sequence", s.seqFile, err)
	}

	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || n < 0 {
		return persistenceErr("load order sequence", s.seqFile, fmt.Errorf("invalid value %q", strings.TrimSpace(string(data))))
	}
	s.maxOrderNumber = n
	return nil
}

func (s *OrderStore) saveSequence() error {
	if s.seqFile == "" {
		return nil
	}

	err := writeFileAtomic(s.seqFile, func(w io.Writer) error {
		_, err := io.WriteString(w, strconv.Itoa(s.maxOrderNumber)+"\n")
		return err
	})
	if err != nil {
		return persistenceErr("save order sequence", s.seqFile, err)
	}
	return nil
}
