package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	domrepo "CollegeROI/internal/domain/repository"
	"CollegeROI/pkg/logger"
	xutil "CollegeROI/pkg/util"
)

// CostTable is an immutable institution name -> annual net price map.
type CostTable struct {
	prices map[string]float64
	names  []string
}

var _ domrepo.CostDataset = (*CostTable)(nil)

// CostTableOptions selects the CSV columns.
type CostTableOptions struct {
	NameColumn  string
	PriceColumn string
}

// LoadCostTable reads a CSV file with a header row.
func LoadCostTable(path string, opts CostTableOptions, l *logger.Logger) (*CostTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cost dataset: %w", err)
	}
	defer f.Close()

	t, err := ReadCostTable(f, opts, l)
	if err != nil {
		return nil, fmt.Errorf("read cost dataset %s: %w", path, err)
	}
	return t, nil
}

// ReadCostTable parses CSV from r. Rows with a blank name or a missing, non-numeric
// or negative price are skipped. A name seen twice keeps its first price.
func ReadCostTable(r io.Reader, opts CostTableOptions, l *logger.Logger) (*CostTable, error) {
	if l == nil {
		l = logger.NewNop()
	}
	if opts.NameColumn == "" {
		opts.NameColumn = "INSTNM"
	}
	if opts.PriceColumn == "" {
		opts.PriceColumn = "COMBINED_NET_PRICE"
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty dataset")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	nameIdx, priceIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case opts.NameColumn:
			nameIdx = i
		case opts.PriceColumn:
			priceIdx = i
		}
	}
	if nameIdx < 0 || priceIdx < 0 {
		return nil, fmt.Errorf("header must contain %q and %q", opts.NameColumn, opts.PriceColumn)
	}

	t := &CostTable{prices: make(map[string]float64)}
	skipped := 0
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if nameIdx >= len(rec) || priceIdx >= len(rec) {
			skipped++
			continue
		}

		name := rec[nameIdx]
		if strings.TrimSpace(name) == "" {
			skipped++
			continue
		}
		price, ok := xutil.ParseFloat(rec[priceIdx])
		if !ok || price < 0 {
			skipped++
			l.Debug("cost row skipped",
				logger.Int("line", line),
				logger.String("institution", name),
				logger.String("price", rec[priceIdx]),
			)
			continue
		}
		if _, dup := t.prices[name]; dup {
			continue
		}
		t.prices[name] = price
		t.names = append(t.names, name)
	}
	sort.Strings(t.names)

	if skipped > 0 {
		l.Warn("cost dataset rows skipped", logger.Int("skipped", skipped), logger.Int("loaded", len(t.names)))
	}
	return t, nil
}

// NewCostTable builds a table from a map. Used by tests and the CLI.
func NewCostTable(prices map[string]float64) *CostTable {
	t := &CostTable{prices: make(map[string]float64, len(prices))}
	for name, p := range prices {
		t.prices[name] = p
		t.names = append(t.names, name)
	}
	sort.Strings(t.names)
	return t
}

// Lookup is an exact, case-sensitive match on the stored name.
func (t *CostTable) Lookup(name string) (float64, bool) {
	p, ok := t.prices[name]
	return p, ok
}

// AnnualCost returns the price or 0 when the institution is unknown.
func (t *CostTable) AnnualCost(name string) float64 {
	p, _ := t.Lookup(name)
	return p
}

// Names returns the institution names in sorted order. The slice is shared.
func (t *CostTable) Names() []string {
	return t.names
}

func (t *CostTable) Len() int {
	return len(t.names)
}
