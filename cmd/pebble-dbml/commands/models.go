package commands

import (
	"errors"
	"fmt"

	"github.com/marshallshelly/pebble-dbml/pkg/classify"
	"github.com/marshallshelly/pebble-dbml/pkg/generator"
	"github.com/marshallshelly/pebble-dbml/pkg/loader"
	"github.com/marshallshelly/pebble-dbml/pkg/registry"
	"go.uber.org/zap"
)

// errNoSources is returned by commands that need models when none are configured.
var errNoSources = errors.New("no model sources, pass --models or --manifest")

// loadRegistry fills a fresh registry from the configured sources.
func loadRegistry() (*registry.Registry, error) {
	if len(cfg.Models) == 0 && len(cfg.Manifests) == 0 {
		return nil, errNoSources
	}

	reg := registry.NewRegistry()

	for _, path := range cfg.Models {
		n, err := loader.LoadModelsFromPath(path, reg)
		if err != nil {
			return nil, err
		}
		log.Info("loaded models", zap.String("path", path), zap.Int("count", n))
	}

	for _, path := range cfg.Manifests {
		n, err := loader.LoadManifest(path, reg)
		if err != nil {
			return nil, err
		}
		log.Info("loaded manifest", zap.String("path", path), zap.Int("count", n))
	}

	return reg, nil
}

// selectModels loads the registry, links references and applies the
// selectors.
func selectModels(selectors []string) ([]*registry.Model, error) {
	reg, err := loadRegistry()
	if err != nil {
		return nil, err
	}

	selected, err := reg.Select(selectors...)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no models found in the configured sources")
	}
	return selected, nil
}

// newAssembler builds an Assembler from the naming, typing and logging
// settings shared by every command.
func newAssembler(extra ...generator.Option) (*generator.Assembler, error) {
	mappings, err := classify.ParseMappings(cfg.TypeMap)
	if err != nil {
		return nil, err
	}

	opts := []generator.Option{
		generator.WithStrategy(cfg.TableFormat),
		generator.WithPrefix(cfg.TablePrefix),
		generator.WithTypeMappings(mappings),
		generator.WithStrict(cfg.Strict),
		generator.WithLogger(log),
	}
	return generator.New(append(opts, extra...)...)
}
