package common

import "testing"

func TestIsProduction(t *testing.T) {
	tests := []struct {
		environment string
		expected    bool
	}{
		{"production", true},
		{"prod", true},
		{"PRODUCTION", true},
		{"  production  ", true},
		{"development", false},
		{"dev", false},
		{"", false},
	}

	for _, tt := range tests {
		config := NewDefaultConfig()
		config.Environment = tt.environment
		if got := config.IsProduction(); got != tt.expected {
			t.Errorf("IsProduction(%q) = %v, expected %v", tt.environment, got, tt.expected)
		}
	}
}

func TestDeepCloneConfig(t *testing.T) {
	original := NewDefaultConfig()
	original.Logging.Output = []string{"console", "file"}

	clone := DeepCloneConfig(original)
	if clone == original {
		t.Fatal("clone must be a distinct struct")
	}

	clone.Server.Port = 9999
	clone.Logging.Output[0] = "changed"

	if original.Server.Port == 9999 {
		t.Error("mutating the clone changed the original port")
	}
	if original.Logging.Output[0] != "console" {
		t.Error("mutating the clone changed the original logging output")
	}
}

func TestDeepCloneConfigNil(t *testing.T) {
	if DeepCloneConfig(nil) != nil {
		t.Error("expected nil clone for nil config")
	}
}

func TestVisualizationFor(t *testing.T) {
	tests := []struct {
		insightType string
		expected    string
	}{
		{"trend", "line_chart"},
		{"anomaly", "scatter_plot"},
		{"correlation", "scatter_plot"},
		{"comparison", "bar_chart"},
		{"unknown", ""},
	}

	for _, tt := range tests {
		if got := VisualizationFor(tt.insightType); got != tt.expected {
			t.Errorf("VisualizationFor(%q) = %q, expected %q", tt.insightType, got, tt.expected)
		}
	}
}
