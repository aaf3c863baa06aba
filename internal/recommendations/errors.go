package recommendations

import "errors"

// ErrNotFound is returned when the learner does not exist.
var ErrNotFound = errors.New("learner not found")
