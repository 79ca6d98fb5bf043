package ui

import "github.com/ryo246912/gh-merge-ready/internal/analyzer"

// Prompter defines interface for user interaction
type Prompter interface {
	SelectAnalysis(analyses []*analyzer.Analysis) (int, error)
}

// DefaultPrompter implements the actual prompting logic
type DefaultPrompter struct{}

// SelectAnalysis prompts user to pick one PR and returns its index
func (p *DefaultPrompter) SelectAnalysis(analyses []*analyzer.Analysis) (int, error) {
	return SelectAnalysis(analyses)
}

// MockPrompter for testing
type MockPrompter struct {
	SelectedIndex  int
	SelectionError error

	// Call tracking
	SelectAnalysisCalled bool
	LastChoices          int
}

// SelectAnalysis mocks PR selection
func (m *MockPrompter) SelectAnalysis(analyses []*analyzer.Analysis) (int, error) {
	m.SelectAnalysisCalled = true
	m.LastChoices = len(analyses)
	return m.SelectedIndex, m.SelectionError
}
