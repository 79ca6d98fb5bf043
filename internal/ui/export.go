package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ryo246912/gh-merge-ready/internal/analyzer"
)

// AnalysisView is an analysis as exported, with the computed verdict included
type AnalysisView struct {
	analyzer.Analysis `yaml:",inline"`
	IsMergeable       bool `json:"is_mergeable" yaml:"is_mergeable"`
}

// NewAnalysisView wraps a for export
func NewAnalysisView(a *analyzer.Analysis) AnalysisView {
	return AnalysisView{Analysis: *a, IsMergeable: a.IsMergeable()}
}

// Report is the machine-readable export for one user
type Report struct {
	Username     string         `json:"username" yaml:"username"`
	GeneratedAt  time.Time      `json:"generated_at" yaml:"generated_at"`
	Summary      Summary        `json:"summary" yaml:"summary"`
	PullRequests []AnalysisView `json:"pull_requests" yaml:"pull_requests"`
}

// NewReport assembles the export document
func NewReport(username string, generatedAt time.Time, analyses []*analyzer.Analysis) Report {
	views := make([]AnalysisView, 0, len(analyses))
	for _, a := range analyses {
		views = append(views, NewAnalysisView(a))
	}
	return Report{
		Username:     username,
		GeneratedAt:  generatedAt,
		Summary:      Summarize(analyses),
		PullRequests: views,
	}
}

// WriteJSON writes v as indented JSON
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteYAML writes v as YAML
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return nil
}
