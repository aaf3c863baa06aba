package courses

import (
	"strings"
	"time"
)

// Difficulty tiers, ordered from easiest to hardest.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
	LevelExpert       = "Expert"
)

var levelOrder = []string{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert}

// Course is a catalog entry. The engine never mutates it.
type Course struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Difficulty   *string   `json:"difficulty,omitempty"`
	Tags         []string  `json:"tags"`
	Rating       float64   `json:"rating"`
	StudentCount int       `json:"studentCount"`
	Trending     bool      `json:"trending"`
	Featured     bool      `json:"featured"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Level returns the course difficulty, defaulting to Beginner when unset.
func (c Course) Level() string {
	if c.Difficulty == nil {
		return LevelBeginner
	}
	if trimmed := strings.TrimSpace(*c.Difficulty); trimmed != "" {
		return trimmed
	}
	return LevelBeginner
}

// CanonicalLevel maps a case-insensitive level name to its canonical spelling.
func CanonicalLevel(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, lvl := range levelOrder {
		if strings.EqualFold(trimmed, lvl) {
			return lvl, true
		}
	}
	return "", false
}

// LevelRank returns the tier index of a level, or -1 when the level is unknown.
func LevelRank(level string) int {
	canonical, ok := CanonicalLevel(level)
	if !ok {
		return -1
	}
	for i, lvl := range levelOrder {
		if lvl == canonical {
			return i
		}
	}
	return -1
}

// SameLevel compares two levels case-insensitively after trimming.
func SameLevel(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Difficulty returns a pointer to level for building Course values.
func Difficulty(level string) *string {
	return &level
}
