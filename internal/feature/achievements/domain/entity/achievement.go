// Package entity defines the domain entities for the achievements feature.
package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Type identifies what an achievement rewards.
type Type string

const (
	TypePracticeHours   Type = "practice_hours"
	TypePerfectSpeed    Type = "perfect_speed"
	TypeTheoryMaster    Type = "theory_master"
	TypeNightDriver     Type = "night_driver"
	TypeDistanceCovered Type = "distance_covered"
	TypeQuizStreak      Type = "quiz_streak"
)

// KnownTypes lists every achievement type accepted by the data model, including
// the reserved ones that have no milestones yet.
var KnownTypes = []Type{
	TypePracticeHours, TypePerfectSpeed, TypeTheoryMaster,
	TypeNightDriver, TypeDistanceCovered, TypeQuizStreak,
}

// LocalizedText maps a language code (en, fr, nl, de) to a translated string.
type LocalizedText map[string]string

// Achievement is an earned milestone. Records are append-only.
// Threshold identifies the milestone; a user earns each (type, threshold) at most once,
// which the unique index enforces even when two evaluations race.
type Achievement struct {
	ID          string                            `gorm:"primaryKey;size:36"`
	UserID      string                            `gorm:"size:36;not null;index:idx_achievements_user_type;uniqueIndex:idx_achievements_milestone"`
	Type        Type                              `gorm:"size:32;not null;index:idx_achievements_user_type;uniqueIndex:idx_achievements_milestone"`
	Threshold   int                               `gorm:"not null;default:0;uniqueIndex:idx_achievements_milestone"`
	Title       datatypes.JSONType[LocalizedText] `gorm:"not null"`
	Description datatypes.JSONType[LocalizedText] `gorm:"not null"`
	Progress    *int
	MaxProgress *int
	EarnedAt    time.Time `gorm:"not null;index"`
}
