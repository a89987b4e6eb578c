package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPausesBoundary(t *testing.T) {
	tests := []struct {
		name      string
		nextStart float64
		detected  bool
	}{
		{"exactly 5s qualifies", 7.0, true},
		{"4.999s does not", 6.999, false},
		{"well above", 30.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transcript := []Utterance{
				{Role: RoleAgent, StartTimestamp: 0, EndTimestamp: 2},
				{Role: RoleCustomer, StartTimestamp: tt.nextStart, EndTimestamp: tt.nextStart + 1},
			}
			pauses := DetectPauses(transcript)
			if !tt.detected {
				assert.Nil(t, pauses)
				return
			}
			require.Len(t, pauses, 1)
			assert.Equal(t, 2.0, pauses[0].Start)
			assert.Equal(t, tt.nextStart, pauses[0].End)
			assert.InDelta(t, tt.nextStart-2.0, pauses[0].Duration, 1e-9)
		})
	}
}

func TestDetectPausesRequiresTwoUtterances(t *testing.T) {
	assert.Nil(t, DetectPauses([]Utterance{{Role: RoleAgent, StartTimestamp: 0, EndTimestamp: 1}}))
	assert.Nil(t, DetectPauses(nil))
}

func TestDetectInterruptionsBoundary(t *testing.T) {
	tests := []struct {
		name      string
		nextStart float64
		detected  bool
	}{
		{"exactly 0.5s overlap qualifies", 1.5, true},
		{"0.4s overlap does not", 1.6, false},
		{"no overlap", 2.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transcript := []Utterance{
				{Role: RoleAgent, StartTimestamp: 0, EndTimestamp: 2},
				{Role: RoleCustomer, StartTimestamp: tt.nextStart, EndTimestamp: 4},
			}
			ints := DetectInterruptions(transcript)
			if !tt.detected {
				assert.Nil(t, ints)
				return
			}
			require.Len(t, ints, 1)
			assert.Equal(t, tt.nextStart, ints[0].Start)
			assert.Equal(t, 2.0, ints[0].End)
		})
	}
}
