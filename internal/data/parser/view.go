package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-timeline-view/internal/core/model"
	"github.com/penwyp/go-timeline-view/internal/util"
	"gopkg.in/yaml.v3"
)

// DescriptionFormat is the encoding of a view or plan description file.
type DescriptionFormat string

const (
	FormatJSON DescriptionFormat = "json"
	FormatYAML DescriptionFormat = "yaml"
)

// DescriptionFormatFor picks the encoding from a file extension. Anything
// other than .yaml/.yml is read as JSON.
func DescriptionFormatFor(path string) DescriptionFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type resourceViewFile struct {
	Name           string   `json:"name" yaml:"name"`
	Kind           string   `json:"kind" yaml:"kind"`
	DiscreteValues []string `json:"discrete_values" yaml:"discrete_values"`
	Resolution     string   `json:"resolution" yaml:"resolution"`
}

type viewFile struct {
	Resources []resourceViewFile `json:"resources" yaml:"resources"`
}

// LoadView reads a view description from path.
func LoadView(path string) (*model.View, error) {
	util.LogDebug(fmt.Sprintf("Reading view file: %s", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read view file: %w", err)
	}

	view, err := ParseView(data, DescriptionFormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("invalid view file %s: %w", path, err)
	}
	return view, nil
}

// ParseView decodes a view description.
func ParseView(data []byte, format DescriptionFormat) (*model.View, error) {
	var vf viewFile
	if err := decode(data, format, &vf); err != nil {
		return nil, err
	}

	resources := make([]model.ResourceView, 0, len(vf.Resources))
	for _, r := range vf.Resources {
		resolution, err := ParseDuration(r.Resolution)
		if err != nil {
			return nil, fmt.Errorf("resource '%s': %w", r.Name, err)
		}
		kind, err := model.NewKind(r.Kind, r.DiscreteValues, resolution)
		if err != nil {
			return nil, fmt.Errorf("resource '%s': %w", r.Name, err)
		}
		resources = append(resources, model.ResourceView{Name: r.Name, Kind: kind})
	}

	return model.NewView(resources)
}

type planFile struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// LoadPlan reads a plan description from path. Only its time window is used.
func LoadPlan(path string) (*model.Plan, error) {
	util.LogDebug(fmt.Sprintf("Reading plan file: %s", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	plan, err := ParsePlan(data, DescriptionFormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("invalid plan file %s: %w", path, err)
	}
	return plan, nil
}

// ParsePlan decodes a plan description. Fields other than start and end are
// ignored.
func ParsePlan(data []byte, format DescriptionFormat) (*model.Plan, error) {
	var pf planFile
	if err := decode(data, format, &pf); err != nil {
		return nil, err
	}

	start, err := ParseTimestamp(pf.Start)
	if err != nil {
		return nil, fmt.Errorf("plan start: %w", err)
	}
	end, err := ParseTimestamp(pf.End)
	if err != nil {
		return nil, fmt.Errorf("plan end: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("plan ends (%s) before it starts (%s)", pf.End, pf.Start)
	}
	return &model.Plan{Start: start, End: end}, nil
}

func decode(data []byte, format DescriptionFormat, out any) error {
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
	default:
		if err := sonic.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
	}
	return nil
}
