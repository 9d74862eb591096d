package model

import "testing"

func TestPhase_IsActive(t *testing.T) {
	tests := []struct {
		phase    Phase
		expected bool
	}{
		{PhaseInitializing, true},
		{PhaseDownloading, true},
		{PhaseVerifying, true},
		{PhaseDelivering, true},
		{PhaseCompleted, false},
		{PhaseFailed, false},
	}

	for _, test := range tests {
		result := test.phase.IsActive()
		if result != test.expected {
			t.Errorf("Phase(%s).IsActive() = %v, expected %v", test.phase, result, test.expected)
		}
	}
}

func TestPhase_IsTerminal(t *testing.T) {
	tests := []struct {
		phase    Phase
		expected bool
	}{
		{PhaseInitializing, false},
		{PhaseDownloading, false},
		{PhaseVerifying, false},
		{PhaseDelivering, false},
		{PhaseCompleted, true},
		{PhaseFailed, true},
	}

	for _, test := range tests {
		result := test.phase.IsTerminal()
		if result != test.expected {
			t.Errorf("Phase(%s).IsTerminal() = %v, expected %v", test.phase, result, test.expected)
		}
	}
}
