package loader

import (
	"fmt"
	"os"

	"github.com/marshallshelly/pebble-dbml/pkg/naming"
	"github.com/marshallshelly/pebble-dbml/pkg/registry"
	"gopkg.in/yaml.v3"
)

// Manifest declares apps and models without Go sources. JSON manifests are
// read the same way since JSON is valid YAML.
type Manifest struct {
	Apps []ManifestApp `yaml:"apps"`
}

// ManifestApp is one application and its models.
type ManifestApp struct {
	Label  string          `yaml:"label"`
	Module string          `yaml:"module"`
	Models []ManifestModel `yaml:"models"`
}

// ManifestModel is one model. Module defaults to "<app module>.models".
type ManifestModel struct {
	Name   string          `yaml:"name"`
	Module string          `yaml:"module"`
	Doc    string          `yaml:"doc"`
	Fields []ManifestField `yaml:"fields"`
}

// ManifestField is one field descriptor.
type ManifestField struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Null        bool   `yaml:"null"`
	PrimaryKey  bool   `yaml:"primary_key"`
	Unique      bool   `yaml:"unique"`
	HelpText    string `yaml:"help_text"`
	To          string `yaml:"to"`
	TargetField string `yaml:"target_field"`
	DBTable     string `yaml:"db_table"`
}

// ParseManifest decodes a manifest document.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// LoadManifest reads a manifest file and registers its apps and models.
func LoadManifest(path string, registrar ModelRegistrar) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read manifest: %w", err)
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}

	return manifest.Register(registrar)
}

// Register adds the manifest's apps and models to registrar.
func (m *Manifest) Register(registrar ModelRegistrar) (int, error) {
	modelsRegistered := 0

	for _, app := range m.Apps {
		if app.Label == "" {
			return modelsRegistered, fmt.Errorf("%w: app without a label", registry.ErrInvalidModel)
		}
		registrar.RegisterApp(app.Label, app.Module)

		for _, mm := range app.Models {
			model := mm.model(app)
			if err := registrar.RegisterModel(model); err != nil {
				return modelsRegistered, fmt.Errorf("failed to register %s: %w", model.Label(), err)
			}
			modelsRegistered++
		}
	}

	return modelsRegistered, nil
}

func (mm ManifestModel) model(app ManifestApp) *registry.Model {
	module := mm.Module
	if module == "" && app.Module != "" {
		module = app.Module + "." + naming.ModelsSegment
	}

	m := &registry.Model{
		App:    app.Label,
		Name:   mm.Name,
		Module: module,
		Doc:    mm.Doc,
		Fields: make([]*registry.Field, 0, len(mm.Fields)),
	}

	for _, mf := range mm.Fields {
		f := registry.NewField(mf.Name, mf.Type)
		f.Nullable = mf.Null
		f.PrimaryKey = mf.PrimaryKey
		f.Unique = mf.Unique
		f.HelpText = mf.HelpText
		f.RelatedLabel = mf.To
		f.TargetField = mf.TargetField
		f.JoinTable = mf.DBTable
		m.Fields = append(m.Fields, f)
	}

	return m
}
