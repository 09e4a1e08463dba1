package model

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Model kinds understood by Spec.Build
const (
	KindLinear   = "linear"
	KindLogistic = "logistic"
)

// Spec describes a linear or logistic model by feature name. It is read from
// YAML; JSON documents parse as YAML too.
type Spec struct {
	Kind          string                        `yaml:"kind" json:"kind"`
	Intercept     float64                       `yaml:"intercept" json:"intercept"`
	Coefficients  map[string]float64            `yaml:"coefficients" json:"coefficients,omitempty"`
	Interactions  []InteractionSpec             `yaml:"interactions" json:"interactions,omitempty"`
	Categorical   map[string]map[string]float64 `yaml:"categorical" json:"categorical,omitempty"`
	PostTransform string                        `yaml:"post_transform" json:"post_transform,omitempty"`
}

// InteractionSpec is a product term
type InteractionSpec struct {
	Features    []string `yaml:"features" json:"features"`
	Coefficient float64  `yaml:"coefficient" json:"coefficient"`
}

// LoadSpec reads a model specification file
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model spec: %w", err)
	}
	return ParseSpec(data)
}

// ParseSpec parses a YAML or JSON model specification
func ParseSpec(data []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse model spec: %w", err)
	}
	if spec.Kind == "" {
		spec.Kind = KindLinear
	}
	return &spec, nil
}

// Build resolves feature names against the data columns and returns a fitted
// model. Unnamed data can be addressed by column position ("0", "1", ...).
func (s *Spec) Build(columns []string) (any, error) {
	resolve := func(name string) (int, error) {
		for j, col := range columns {
			if col == name {
				return j, nil
			}
		}
		if j, err := strconv.Atoi(name); err == nil && j >= 0 && (len(columns) == 0 || j < len(columns)) {
			return j, nil
		}
		return -1, fmt.Errorf("model spec references unknown feature %q", name)
	}

	linear := NewLinearModel(s.Intercept)
	for _, name := range sortedKeys(s.Coefficients) {
		j, err := resolve(name)
		if err != nil {
			return nil, err
		}
		linear.Terms = append(linear.Terms, Term{Features: []int{j}, Coefficient: s.Coefficients[name]})
	}
	for _, inter := range s.Interactions {
		if len(inter.Features) < 2 {
			return nil, fmt.Errorf("interaction term needs at least two features, got %v", inter.Features)
		}
		term := Term{Coefficient: inter.Coefficient}
		for _, name := range inter.Features {
			j, err := resolve(name)
			if err != nil {
				return nil, err
			}
			term.Features = append(term.Features, j)
		}
		linear.Terms = append(linear.Terms, term)
	}
	for _, name := range sortedKeys(s.Categorical) {
		j, err := resolve(name)
		if err != nil {
			return nil, err
		}
		linear.WithLevels(j, s.Categorical[name])
	}

	switch strings.ToLower(s.Kind) {
	case KindLinear:
		switch strings.ToLower(s.PostTransform) {
		case "", "none", "identity":
			return linear, nil
		case "log":
			return NewLogRegressor(linear)
		case "exp":
			return &ExpRegressor{Linear: linear}, nil
		}
		return nil, fmt.Errorf("unknown post transform %q", s.PostTransform)
	case KindLogistic:
		if s.PostTransform != "" {
			return nil, fmt.Errorf("post transform %q is not supported for logistic models", s.PostTransform)
		}
		return &LogisticModel{Linear: linear}, nil
	}
	return nil, fmt.Errorf("unknown model kind %q", s.Kind)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
