package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PlanDocument is the file format for plan content, in JSON or YAML.
type PlanDocument struct {
	Profile           ProfileImport      `json:"profile" yaml:"profile"`
	TeachingStaff     []StaffImport      `json:"teaching_staff,omitempty" yaml:"teaching_staff,omitempty"`
	SchoolProfileRows []ProfileRowImport `json:"school_profile_rows,omitempty" yaml:"school_profile_rows,omitempty"`
	Goals             []GoalImport       `json:"goals" yaml:"goals"`
}

type ProfileImport struct {
	Name    string `json:"name" yaml:"name"`
	Subject string `json:"subject,omitempty" yaml:"subject,omitempty"`
	Contact string `json:"contact,omitempty" yaml:"contact,omitempty"`
}

type StaffImport struct {
	Name    string `json:"name" yaml:"name"`
	Role    string `json:"role,omitempty" yaml:"role,omitempty"`
	Subject string `json:"subject,omitempty" yaml:"subject,omitempty"`
}

type ProfileRowImport struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

type GoalImport struct {
	Title string       `json:"title" yaml:"title"`
	Tasks []TaskImport `json:"tasks" yaml:"tasks"`
}

type TaskImport struct {
	Title  string `json:"title" yaml:"title"`
	Status string `json:"status,omitempty" yaml:"status,omitempty"`
	Note   string `json:"note,omitempty" yaml:"note,omitempty"`
}

// LoadPlanDocument reads a plan document, choosing the decoder by file
// extension (.json, .yaml, .yml).
func LoadPlanDocument(path string) (*PlanDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePlanDocument(data, filepath.Ext(path))
}

// ParsePlanDocument decodes data in the given format ("json", "yaml" or
// "yml", with or without a leading dot).
func ParsePlanDocument(data []byte, format string) (*PlanDocument, error) {
	var doc PlanDocument
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing plan document: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing plan document: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported plan document format %q (use .json, .yaml or .yml)", format)
	}
	return &doc, nil
}
