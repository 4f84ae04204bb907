package models

import (
	"strings"
	"time"
)

// ContextType classifies the social situation a memory was captured in.
type ContextType string

const (
	ContextWorkMeeting ContextType = "work_meeting"
	ContextSocialEvent ContextType = "social_event"
	ContextOneOnOne    ContextType = "one_on_one"
	ContextNetworking  ContextType = "networking"
	ContextFamily      ContextType = "family"
	ContextDefault     ContextType = "default"
)

// TimeBucket is the coarse time-of-life bucket a moment falls into.
type TimeBucket string

const (
	BucketWorkHours TimeBucket = "work_hours"
	BucketEvening   TimeBucket = "evening"
	BucketWeekend   TimeBucket = "weekend"
	BucketLateNight TimeBucket = "late_night"
)

// CaptureContext is the categorical snapshot taken when a memory is created.
// Immutable once set.
type CaptureContext struct {
	// TimeOfDay is the hour bucket, e.g. "morning", "afternoon", "evening".
	TimeOfDay string `json:"time_of_day"`

	DayOfWeek time.Weekday `json:"day_of_week"`

	TimeBucket TimeBucket `json:"time_bucket"`

	Location string `json:"location,omitempty"`

	ContextType ContextType `json:"context_type"`

	// UnusualTime and UnusualLocation flag departures from the user's
	// routine; they feed the novelty component.
	UnusualTime     bool `json:"unusual_time,omitempty"`
	UnusualLocation bool `json:"unusual_location,omitempty"`
}

// CaptureContextAt derives the time fields of a capture context from a
// moment in time. ContextType and location remain for the caller to fill.
func CaptureContextAt(t time.Time) CaptureContext {
	return CaptureContext{
		TimeOfDay:   timeOfDay(t.Hour()),
		DayOfWeek:   t.Weekday(),
		TimeBucket:  timeBucket(t),
		ContextType: ContextDefault,
	}
}

func timeOfDay(hour int) string {
	switch {
	case hour < 5:
		return "night"
	case hour < 12:
		return "morning"
	case hour < 17:
		return "afternoon"
	case hour < 21:
		return "evening"
	default:
		return "night"
	}
}

func timeBucket(t time.Time) TimeBucket {
	hour := t.Hour()
	if hour >= 23 || hour < 5 {
		return BucketLateNight
	}
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return BucketWeekend
	}
	if hour >= 9 && hour < 18 {
		return BucketWorkHours
	}
	return BucketEvening
}

// ContextFrame is the current situational snapshot supplied per call: where
// the user is, who is around, and what they are doing. Ephemeral; never
// persisted by this engine.
type ContextFrame struct {
	Location string   `json:"location,omitempty"`
	People   []string `json:"people,omitempty"`
	Activity string   `json:"activity,omitempty"`
	Project  string   `json:"project,omitempty"`

	// Topics describes what the current situation is about, for the
	// context-relevance boost.
	Topics []string `json:"topics,omitempty"`
}

// IsEmpty reports whether the frame carries no comparable attributes.
func (f ContextFrame) IsEmpty() bool {
	return f.Location == "" && f.Activity == "" && f.Project == "" &&
		len(f.People) == 0
}

// PeopleSet returns the frame's people as a lowercased set.
func (f ContextFrame) PeopleSet() map[string]struct{} {
	set := make(map[string]struct{}, len(f.People))
	for _, p := range f.People {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			set[p] = struct{}{}
		}
	}
	return set
}
