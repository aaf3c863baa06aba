package enrollments

import "time"

// Enrollment links a learner to a course they joined.
type Enrollment struct {
	LearnerID  string    `json:"learnerId"`
	CourseID   string    `json:"courseId"`
	Completed  bool      `json:"completed"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

// CourseIDs returns the course IDs of list in order.
func CourseIDs(list []Enrollment) []string {
	ids := make([]string, 0, len(list))
	for _, e := range list {
		ids = append(ids, e.CourseID)
	}
	return ids
}
