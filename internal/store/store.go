package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"flooring-orders/internal/models"
)

// CatalogStore reads the product and tax reference files
type CatalogStore struct {
	productsFile string
	taxesFile    string
}

// NewCatalogStore creates a catalog store over the given files
func NewCatalogStore(productsFile, taxesFile string) *CatalogStore {
	return &CatalogStore{
		productsFile: productsFile,
		taxesFile:    taxesFile,
	}
}

// GetAllProducts reads every product, keyed by product type.
// The file is read on each call so edits are picked up without a restart.
func (s *CatalogStore) GetAllProducts() (map[string]models.Product, error) {
	rows, err := readFile(s.productsFile, productFields)
	if err != nil {
		return nil, persistenceErr("load products", s.productsFile, err)
	}

	products := make(map[string]models.Product, len(rows))
	for i, row := range rows {
		p, err := decodeProduct(row)
		if err != nil {
			return nil, persistenceErr("load products", s.productsFile, fmt.Errorf("line %d: %w", i+2, err))
		}
		products[p.ProductType] = p
	}
	return products, nil
}

// GetAllStates reads every tax jurisdiction, keyed by abbreviation
func (s *CatalogStore) GetAllStates() (map[string]models.State, error) {
	rows, err := readFile(s.taxesFile, taxFields)
	if err != nil {
		return nil, persistenceErr("load states", s.taxesFile, err)
	}

	states := make(map[string]models.State, len(rows))
	for i, row := range rows {
		st, err := decodeState(row)
		if err != nil {
			return nil, persistenceErr("load states", s.taxesFile, fmt.Errorf("line %d: %w", i+2, err))
		}
		states[st.Abbreviation] = st
	}
	return states, nil
}

func readFile(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readRows(f, fields)
}

// writeFileAtomic writes path through a hidden temp file in the same
// directory and renames it into place.
func writeFileAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
