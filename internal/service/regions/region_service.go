package regions

import (
	"fmt"
	"github.com/ougirez/covidstat/internal/domain"
	"github.com/ougirez/covidstat/internal/pkg/constants"
	"github.com/ougirez/covidstat/internal/pkg/metrics"
)

const (
	opListRegionNames = "list_region_names"
	opRegionSummary   = "region_summary"
	opChoropleth      = "choropleth_values"
)

// Service answers dashboard queries from a dataset loaded once at startup.
// Nothing in it changes after NewRegionService returns, so it is safe for concurrent use.
type Service struct {
	dataset       *domain.Dataset
	aggregate     *Aggregate
	defaultRegion string
}

func NewRegionService(dataset *domain.Dataset, defaultRegion string) (*Service, error) {
	table, _ := dataset.Table(domain.SheetRegionTotals)
	agg, err := NewAggregate(table)
	if err != nil {
		return nil, fmt.Errorf("NewAggregate: %w", err)
	}

	if _, ok := agg.Lookup(defaultRegion); !ok {
		return nil, fmt.Errorf("default region %q: %w", defaultRegion, constants.ErrRegionNotFound)
	}

	metrics.SetRegionsLoaded(agg.Len())

	return &Service{
		dataset:       dataset,
		aggregate:     agg,
		defaultRegion: defaultRegion,
	}, nil
}

// ListRegionNames returns the region names in sheet order. The slice is a fresh copy.
func (s *Service) ListRegionNames() []string {
	names := make([]string, 0, s.aggregate.Len())
	for _, r := range s.aggregate.records {
		names = append(names, r.Name)
	}

	metrics.ObserveQuery(opListRegionNames, nil)
	return names
}

func (s *Service) RegionSummary(name string) (record domain.RegionRecord, err error) {
	defer func() {
		metrics.ObserveQuery(opRegionSummary, err)
	}()

	record, ok := s.aggregate.Lookup(name)
	if !ok {
		return domain.RegionRecord{}, fmt.Errorf("region %q: %w", name, constants.ErrRegionNotFound)
	}

	return record, nil
}

// ChoroplethValues projects one metric across all regions, in sheet order.
func (s *Service) ChoroplethValues(field domain.Metric) (values []domain.RegionValue, err error) {
	defer func() {
		metrics.ObserveQuery(opChoropleth, err)
	}()

	if !field.Valid() {
		return nil, fmt.Errorf("field %q: %w", field, constants.ErrUnknownField)
	}

	values = make([]domain.RegionValue, 0, s.aggregate.Len())
	for _, r := range s.aggregate.records {
		v, _ := r.Value(field)
		values = append(values, domain.RegionValue{Name: r.Name, Value: v})
	}

	return values, nil
}

func (s *Service) GrandTotals() domain.GrandTotals {
	return s.aggregate.Totals()
}

func (s *Service) DefaultRegion() string {
	return s.defaultRegion
}

// Metadata is the publication note of the workbook.
func (s *Service) Metadata() string {
	return s.dataset.Metadata
}

// Tables describes every loaded sheet in workbook order.
func (s *Service) Tables() []domain.TableInfo {
	infos := make([]domain.TableInfo, 0, len(s.dataset.SheetOrder))
	for _, name := range s.dataset.SheetOrder {
		if t, ok := s.dataset.Table(name); ok {
			infos = append(infos, t.Info())
		}
	}
	return infos
}

// Boundaries exposes the region polygons for the map renderer.
func (s *Service) Boundaries() *domain.Boundaries {
	return s.dataset.Boundaries
}

// MissingBoundaries lists regions that have data but no polygon; they are invisible on the maps.
func (s *Service) MissingBoundaries() []string {
	var missing []string
	for _, r := range s.aggregate.records {
		if !s.dataset.Boundaries.Has(r.Name) {
			missing = append(missing, r.Name)
		}
	}
	return missing
}
