package main

import (
	"context"

	"github.com/sells-group/leadindex/internal/config"
	"github.com/sells-group/leadindex/internal/dataset"
	"github.com/sells-group/leadindex/internal/model"
	"github.com/sells-group/leadindex/internal/source"
)

// initService validates cfg for mode and opens the dataset service.
func initService(ctx context.Context, mode string) (*dataset.Service, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	return dataset.New(ctx,
		source.NewLocator(cfg.Sources.Roots...),
		source.NewReader(sourcePolicy(cfg.Sources)),
		dataset.Options{
			IndexPath:    cfg.Index.Path,
			Concurrency:  cfg.Index.Concurrency,
			DefaultLimit: cfg.Search.DefaultLimit,
			MaxLimit:     cfg.Search.MaxLimit,
		},
	)
}

// sourcePolicy maps the configured precedence markers onto a reader policy.
func sourcePolicy(c config.SourcesConfig) source.Policy {
	p := source.DefaultPolicy()
	if len(c.FinalMarkers.Company) > 0 {
		p.FinalMarkers[model.KindCompany] = c.FinalMarkers.Company
	}
	if len(c.FinalMarkers.Person) > 0 {
		p.FinalMarkers[model.KindPerson] = c.FinalMarkers.Person
	}
	if c.RegistryPrefix != "" {
		p.RegistryPrefix = c.RegistryPrefix
	}
	return p
}
