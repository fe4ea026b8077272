package dto

import (
	"fmt"
	"github.com/ougirez/covidstat/internal/domain"
	"sync"
)

// Workbook collects decoded sheets in workbook order.
type Workbook struct {
	Tables   map[string]*domain.Table
	Order    []string
	Metadata string
	tablesMx sync.Mutex
}

func NewWorkbook() *Workbook {
	return &Workbook{Tables: make(map[string]*domain.Table)}
}

func (w *Workbook) PutTable(table *domain.Table) error {
	w.tablesMx.Lock()
	defer w.tablesMx.Unlock()

	if _, ok := w.Tables[table.Name]; ok {
		return fmt.Errorf("duplicate sheet %q", table.Name)
	}

	w.Tables[table.Name] = table
	w.Order = append(w.Order, table.Name)
	return nil
}

func (w *Workbook) GetTable(name string) (*domain.Table, bool) {
	w.tablesMx.Lock()
	defer w.tablesMx.Unlock()

	table, ok := w.Tables[name]
	return table, ok
}

// Missing returns the names from required that the workbook does not contain.
func (w *Workbook) Missing(required []string) []string {
	w.tablesMx.Lock()
	defer w.tablesMx.Unlock()

	var missing []string
	for _, name := range required {
		if _, ok := w.Tables[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
