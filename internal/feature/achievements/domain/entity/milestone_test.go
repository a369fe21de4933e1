package entity

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMilestoneCatalog_ThresholdsAscending(t *testing.T) {
	t.Parallel()

	for typ, rule := range MilestoneCatalog {
		thresholds := make([]int, 0, len(rule.Milestones))
		for _, m := range rule.Milestones {
			thresholds = append(thresholds, m.Threshold)
		}
		assert.True(t, sort.IntsAreSorted(thresholds), "thresholds of %s must be ascending", typ)
	}
}

func TestMilestoneCatalog_PracticeHours(t *testing.T) {
	t.Parallel()

	rule, ok := MilestoneCatalog[TypePracticeHours]
	require.True(t, ok)
	require.Len(t, rule.Milestones, 4)
	assert.True(t, rule.TrackProgress)
	assert.False(t, rule.Once)

	m := rule.Milestones[2]
	assert.Equal(t, 50, m.Threshold)
	assert.Equal(t, "50 Hours on the Road", m.Title["en"])
	assert.Equal(t, "50 Heures sur la Route", m.Title["fr"])
	assert.Equal(t, "50 uur rijervaring opgedaan", m.Description["nl"])
	assert.Equal(t, "50 Stunden Fahrpraxis absolviert", m.Description["de"])
}

func TestMilestoneCatalog_AllCopyLocalized(t *testing.T) {
	t.Parallel()

	for typ, rule := range MilestoneCatalog {
		for _, m := range rule.Milestones {
			for _, lang := range []string{"en", "fr", "nl", "de"} {
				assert.NotEmpty(t, m.Title[lang], "%s/%d title %s", typ, m.Threshold, lang)
				assert.NotEmpty(t, m.Description[lang], "%s/%d description %s", typ, m.Threshold, lang)
			}
		}
	}
}

func TestMilestoneCatalog_ReservedTypesAbsent(t *testing.T) {
	t.Parallel()

	for _, typ := range []Type{TypeTheoryMaster, TypeNightDriver, TypeDistanceCovered, TypeQuizStreak} {
		_, ok := MilestoneCatalog[typ]
		assert.False(t, ok, "%s is reserved", typ)
	}
}
