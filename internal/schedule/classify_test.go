package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shrimpsizemoose/kardemumma/internal/models"
)

func TestClassify(t *testing.T) {
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	joinLead := 1 * time.Hour
	leaveLead := 2 * time.Hour

	makeSlot := func(startIn time.Duration, max int, signups ...int) models.Slot {
		return models.Slot{
			StartTime:       now.Add(startIn),
			EndTime:         now.Add(startIn + time.Hour),
			MaxMembers:      max,
			SignupMemberIDs: signups,
		}
	}

	testCases := []struct {
		name     string
		slot     models.Slot
		expected State
	}{
		{
			name:     "Far future slot is open",
			slot:     makeSlot(3*time.Hour, 2),
			expected: StateOpen,
		},
		{
			name:     "Exactly at leave threshold is closing",
			slot:     makeSlot(2*time.Hour, 2),
			expected: StateClosing,
		},
		{
			name:     "Between thresholds is closing",
			slot:     makeSlot(90*time.Minute, 2),
			expected: StateClosing,
		},
		{
			name:     "Exactly at join threshold is locked",
			slot:     makeSlot(1*time.Hour, 2),
			expected: StateLocked,
		},
		{
			name:     "Inside join lead is locked",
			slot:     makeSlot(30*time.Minute, 2),
			expected: StateLocked,
		},
		{
			name:     "Already started is locked",
			slot:     makeSlot(-10*time.Minute, 2),
			expected: StateLocked,
		},
		{
			name:     "Full wins over time",
			slot:     makeSlot(3*time.Hour, 2, 11, 12),
			expected: StateFull,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.slot, now, joinLead, leaveLead))
		})
	}
}

func TestOverlaps(t *testing.T) {
	day := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time {
		return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	}

	testCases := []struct {
		name     string
		s1, e1   time.Time
		s2, e2   time.Time
		expected bool
	}{
		{
			name: "Partial overlap collides",
			s1:   at(10, 0), e1: at(11, 0),
			s2: at(10, 30), e2: at(11, 30),
			expected: true,
		},
		{
			name: "Containment collides",
			s1:   at(10, 0), e1: at(12, 0),
			s2: at(10, 30), e2: at(11, 0),
			expected: true,
		},
		{
			name: "Touching at boundary does not collide",
			s1:   at(10, 0), e1: at(11, 0),
			s2: at(11, 0), e2: at(12, 0),
			expected: false,
		},
		{
			name: "Disjoint does not collide",
			s1:   at(10, 0), e1: at(11, 0),
			s2: at(14, 0), e2: at(15, 0),
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, overlaps(tc.s1, tc.e1, tc.s2, tc.e2))
			assert.Equal(t, tc.expected, overlaps(tc.s2, tc.e2, tc.s1, tc.e1))
		})
	}
}
