package registry

import "strings"

// Select resolves "app_label" and "app_label.ModelName" selectors into models.
// With no selectors every registered model is returned in registry order.
// The references of the returned models are linked; models outside the
// selection are left untouched.
func (r *Registry) Select(selectors ...string) ([]*Model, error) {
	models, err := r.selectModels(selectors)
	if err != nil {
		return nil, err
	}
	if err := r.Link(models...); err != nil {
		return nil, err
	}
	return models, nil
}

func (r *Registry) selectModels(selectors []string) ([]*Model, error) {
	if len(selectors) == 0 {
		return r.Models(), nil
	}

	var models []*Model
	for _, selector := range selectors {
		appLabel, modelName, hasModel := strings.Cut(selector, ".")

		app, err := r.App(appLabel)
		if err != nil {
			return nil, err
		}

		if !hasModel {
			r.mu.RLock()
			models = append(models, app.models...)
			r.mu.RUnlock()
			continue
		}

		m, err := r.Model(appLabel + "." + modelName)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}

	return models, nil
}
