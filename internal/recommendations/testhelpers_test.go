package recommendations

import (
	"learnpath-backend/internal/courses"
	"learnpath-backend/internal/learners"
)

func course(id, category, level string, rating float64, students int) courses.Course {
	c := courses.Course{
		ID:           id,
		Title:        "Course " + id,
		Category:     category,
		Rating:       rating,
		StudentCount: students,
		Published:    true,
	}
	if level != "" {
		c.Difficulty = courses.Difficulty(level)
	}
	return c
}

func learner(id, level string, interests ...string) learners.Profile {
	return learners.Profile{ID: id, DisplayName: "Learner " + id, ExperienceLevel: level, Interests: interests}
}

func itemIDs(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.CourseID)
	}
	return out
}
