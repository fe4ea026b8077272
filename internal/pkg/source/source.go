package source

import (
	"context"
	"fmt"
	"github.com/labstack/gommon/bytes"
	"github.com/ougirez/covidstat/internal/domain"
	"github.com/ougirez/covidstat/internal/domain/dto"
	"github.com/ougirez/covidstat/internal/pkg/logger"
	"github.com/ougirez/covidstat/internal/pkg/metrics"
	"golang.org/x/sync/errgroup"
	"net/http"
	"time"
)

type Options struct {
	// SpreadsheetURL is an http(s) URL or a local path to the FHM workbook.
	SpreadsheetURL string
	GeoJSONPath    string
	// FeatureIDKey is the feature property holding the region name.
	FeatureIDKey string
	// MetadataSheet is the name prefix of the sheet whose first cell is the publication note.
	MetadataSheet string
	Timeout       time.Duration
	// Retries is the number of extra fetch attempts; 0 means one attempt.
	Retries       uint64
	RetryInterval time.Duration
}

type Loader struct {
	opts   Options
	client *http.Client
}

func NewLoader(opts Options) *Loader {
	return &Loader{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
	}
}

// WithHTTPClient replaces the client used for remote spreadsheets.
func (l *Loader) WithHTTPClient(client *http.Client) *Loader {
	l.client = client
	return l
}

// Load fetches the workbook and the boundary file. Either both succeed and a complete
// dataset is returned, or nothing is.
func (l *Loader) Load(ctx context.Context) (ds *domain.Dataset, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveLoad(time.Since(start), err)
	}()

	var (
		workbook   *dto.Workbook
		boundaries *domain.Boundaries
		size       int
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		data, fetchErr := l.fetch(egCtx)
		if fetchErr != nil {
			return fmt.Errorf("fetch, url-%s: %w", l.opts.SpreadsheetURL, fetchErr)
		}
		size = len(data)

		wb, decodeErr := decodeWorkbook(data, l.opts.MetadataSheet)
		if decodeErr != nil {
			return fmt.Errorf("decodeWorkbook: %w", decodeErr)
		}

		workbook = wb
		return nil
	})
	eg.Go(func() error {
		b, loadErr := loadBoundaries(l.opts.GeoJSONPath, l.opts.FeatureIDKey)
		if loadErr != nil {
			return fmt.Errorf("loadBoundaries, path-%s: %w", l.opts.GeoJSONPath, loadErr)
		}

		boundaries = b
		return nil
	})

	if err = eg.Wait(); err != nil {
		logger.Errorf(ctx, "source.Load: %s", err.Error())
		return nil, err
	}

	ds = &domain.Dataset{
		Tables:     workbook.Tables,
		SheetOrder: workbook.Order,
		Metadata:   workbook.Metadata,
		Boundaries: boundaries,
		Source:     l.opts.SpreadsheetURL,
		LoadedAt:   time.Now(),
	}

	logger.Infof(ctx, "loaded %d sheets (%s) and %d boundaries in %s",
		len(ds.SheetOrder), bytes.Format(int64(size)), len(boundaries.Features), time.Since(start).Round(time.Millisecond))

	return ds, nil
}
