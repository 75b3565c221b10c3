// Package analysis implements the statistical detectors that turn tabular
// datasets into typed, explainable insights. Detection failures are
// contained: a detector that cannot run logs and returns nothing.
package analysis

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/common"
)

// Service runs the statistical detectors over datasets
type Service struct {
	config common.AnalysisConfig
	logger arbor.ILogger
}

// NewService creates a new analysis service
func NewService(config common.AnalysisConfig, logger arbor.ILogger) *Service {
	return &Service{
		config: config,
		logger: logger,
	}
}

// Config returns the detector parameters in effect
func (s *Service) Config() common.AnalysisConfig {
	return s.config
}
