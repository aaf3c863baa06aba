package recommendations

import (
	"strings"

	"learnpath-backend/internal/courses"
	"learnpath-backend/internal/enrollments"
)

// InferLevel derives a level from the difficulties of completed courses.
//
// Any Expert or at least two Advanced gives Advanced; any Advanced or at least
// two Intermediate gives Intermediate; a single Intermediate also gives
// Intermediate; everything else is Beginner.
func InferLevel(completed []string) string {
	var intermediate, advanced, expert int
	for _, lvl := range completed {
		canonical, _ := courses.CanonicalLevel(lvl)
		switch canonical {
		case courses.LevelIntermediate:
			intermediate++
		case courses.LevelAdvanced:
			advanced++
		case courses.LevelExpert:
			expert++
		}
	}
	switch {
	case expert > 0 || advanced >= 2:
		return courses.LevelAdvanced
	case advanced > 0 || intermediate >= 2:
		return courses.LevelIntermediate
	case intermediate > 0:
		return courses.LevelIntermediate
	default:
		return courses.LevelBeginner
	}
}

func completedLevels(list []enrollments.Enrollment, byID map[string]courses.Course) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		if !e.Completed {
			continue
		}
		if c, ok := byID[e.CourseID]; ok {
			out = append(out, c.Level())
		}
	}
	return out
}

// displayLevel returns the canonical spelling of level when known, else level trimmed.
func displayLevel(level string) string {
	if canonical, ok := courses.CanonicalLevel(level); ok {
		return canonical
	}
	return strings.TrimSpace(level)
}
