package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmptyInput(t *testing.T) {
	assert.Nil(t, Normalize(nil))
	assert.Nil(t, Normalize([]RawEntry{}))
}

func TestNormalizeSkipsEntriesWithoutWords(t *testing.T) {
	entries := []RawEntry{
		{Role: RoleAgent, Content: "Hello"},
		{Role: RoleCustomer, Content: "Hi", Words: []Word{{Word: "Hi", Start: 1.0, End: 1.5}}},
	}

	out := Normalize(entries)
	require.Len(t, out, 1)
	assert.Equal(t, RoleCustomer, out[0].Role)
}

func TestNormalizeClampsOverlappingStart(t *testing.T) {
	entries := []RawEntry{
		{Role: RoleAgent, Content: "first", Words: []Word{{Word: "first", Start: 0.0, End: 2.0}}},
		{Role: RoleCustomer, Content: "second", Words: []Word{{Word: "second", Start: 1.2, End: 3.0}}},
	}

	out := Normalize(entries)
	require.Len(t, out, 2)
	assert.Equal(t, 2.0, out[1].StartTimestamp)
	assert.Equal(t, 3.0, out[1].EndTimestamp)
}

func TestNormalizeEnforcesMinimumSpan(t *testing.T) {
	entries := []RawEntry{
		{Role: RoleAgent, Content: "a", Words: []Word{{Word: "a", Start: 0.0, End: 5.0}}},
		// starts and "ends" entirely inside the previous turn
		{Role: RoleCustomer, Content: "b", Words: []Word{{Word: "b", Start: 3.0, End: 4.0}}},
	}

	out := Normalize(entries)
	require.Len(t, out, 2)
	assert.Equal(t, 5.0, out[1].StartTimestamp)
	assert.Equal(t, 5.1, out[1].EndTimestamp)
}

func TestNormalizeSortsWordsAndRounds(t *testing.T) {
	entries := []RawEntry{
		{Role: RoleAgent, Content: "out of order", Words: []Word{
			{Word: "order", Start: 1.23456, End: 2.00049},
			{Word: "of", Start: 0.9, End: 1.2},
			{Word: "out", Start: 0.12345, End: 0.8},
		}},
	}

	out := Normalize(entries)
	require.Len(t, out, 1)
	assert.Equal(t, 0.123, out[0].StartTimestamp)
	assert.Equal(t, 2.0, out[0].EndTimestamp)
}

func TestNormalizeOutputIsMonotonic(t *testing.T) {
	entries := []RawEntry{
		{Role: RoleAgent, Content: "a", Words: []Word{{Start: 0, End: 1.4}}},
		{Role: RoleCustomer, Content: "b", Words: []Word{{Start: 1.1, End: 2.2}}},
		{Role: RoleAgent, Content: "c", Words: []Word{{Start: 2.0, End: 2.1}}},
		{Role: RoleCustomer, Content: "d", Words: []Word{{Start: 9.5, End: 12.75}}},
	}

	out := Normalize(entries)
	require.Len(t, out, 4)
	for i, u := range out {
		assert.Greater(t, u.EndTimestamp, u.StartTimestamp)
		if i > 0 {
			assert.GreaterOrEqual(t, u.StartTimestamp, out[i-1].EndTimestamp)
		}
	}
}
