package source

import (
	"fmt"
	"github.com/ougirez/covidstat/internal/domain"
	"github.com/ougirez/covidstat/internal/pkg/constants"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"os"
	"strings"
)

// loadBoundaries decodes the region polygons. The region name found under key is copied
// into the "name" property, which is what the map renderer joins data on.
func loadBoundaries(path, key string) (*domain.Boundaries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: os.ReadFile: %w", constants.ErrSourceUnavailable, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: geojson.UnmarshalFeatureCollection: %w", constants.ErrSourceMalformed, err)
	}

	features := make(map[string]orb.Geometry, len(fc.Features))
	for i, f := range fc.Features {
		name, _ := f.Properties[key].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: feature %d has no %q property", constants.ErrSourceMalformed, i, key)
		}
		if _, ok := features[name]; ok {
			return nil, fmt.Errorf("%w: duplicate feature %q", constants.ErrSourceMalformed, name)
		}

		if f.Properties == nil {
			f.Properties = geojson.Properties{}
		}
		f.Properties["name"] = name
		features[name] = f.Geometry
	}

	doc, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("%w: fc.MarshalJSON: %w", constants.ErrSourceMalformed, err)
	}

	return &domain.Boundaries{Features: features, Document: doc}, nil
}
