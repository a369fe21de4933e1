package entity

import "fmt"

// Milestone is one threshold of a MilestoneRule together with the copy shown
// to the user when it is reached.
type Milestone struct {
	Threshold   int
	Title       LocalizedText
	Description LocalizedText
}

// MilestoneRule describes how values of one achievement type turn into records.
type MilestoneRule struct {
	// Milestones are ordered by ascending threshold.
	Milestones []Milestone

	// Once limits the type to a single record per user, whatever the milestone.
	Once bool

	// TrackProgress stores progress = maxProgress = threshold on each record.
	TrackProgress bool
}

// MilestoneCatalog is the configuration table of evaluated achievement types.
// Types absent from the catalogue are reserved and never earned.
var MilestoneCatalog = map[Type]MilestoneRule{
	TypePracticeHours: {
		Milestones:    hourMilestones(10, 20, 50, 100),
		TrackProgress: true,
	},
	TypePerfectSpeed: {
		Milestones: []Milestone{{
			Threshold: 5,
			Title: LocalizedText{
				"en": "Speed Master",
				"fr": "Maître de la Vitesse",
				"nl": "Snelheidsmeester",
				"de": "Geschwindigkeitsmeister",
			},
			Description: LocalizedText{
				"en": "Completed 5 sessions without speed violations",
				"fr": "5 sessions sans excès de vitesse",
				"nl": "5 sessies zonder snelheidsovertredingen",
				"de": "5 Sitzungen ohne Geschwindigkeitsübertretungen",
			},
		}},
		Once: true,
	},
}

var (
	hourTitles = LocalizedText{
		"en": "%d Hours on the Road",
		"fr": "%d Heures sur la Route",
		"nl": "%d Uur op de Weg",
		"de": "%d Stunden auf der Straße",
	}
	hourDescriptions = LocalizedText{
		"en": "Completed %d hours of driving practice",
		"fr": "Effectué %d heures de pratique de conduite",
		"nl": "%d uur rijervaring opgedaan",
		"de": "%d Stunden Fahrpraxis absolviert",
	}
)

func hourMilestones(thresholds ...int) []Milestone {
	out := make([]Milestone, 0, len(thresholds))
	for _, h := range thresholds {
		out = append(out, Milestone{
			Threshold:   h,
			Title:       format(hourTitles, h),
			Description: format(hourDescriptions, h),
		})
	}
	return out
}

func format(templates LocalizedText, n int) LocalizedText {
	out := make(LocalizedText, len(templates))
	for lang, tmpl := range templates {
		out[lang] = fmt.Sprintf(tmpl, n)
	}
	return out
}
