package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Grade is the learner's self-reported recall quality for one attempt
type Grade int

const (
	GradeAgain Grade = iota // failed to recall
	GradeHard               // recalled with serious difficulty
	GradeGood               // recalled with some effort
	GradeEasy               // recalled effortlessly
)

var gradeNames = [...]string{
	GradeAgain: "again",
	GradeHard:  "hard",
	GradeGood:  "good",
	GradeEasy:  "easy",
}

// IsValid reports whether g is one of Again, Hard, Good or Easy
func (g Grade) IsValid() bool {
	return g >= GradeAgain && g <= GradeEasy
}

// Passed reports whether the grade counts as a successful recall
func (g Grade) Passed() bool {
	return g >= GradeGood
}

func (g Grade) String() string {
	if g.IsValid() {
		return gradeNames[g]
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}

// MarshalText implements encoding.TextMarshaler
func (g Grade) MarshalText() ([]byte, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGrade, int(g))
	}
	return []byte(gradeNames[g]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (g *Grade) UnmarshalText(text []byte) error {
	v, err := ParseGrade(string(text))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// ParseGrade accepts a grade name ("again", "Good", ...) or its quality score ("0".."3")
func ParseGrade(s string) (Grade, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range gradeNames {
		if s == name {
			return Grade(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Grade(n).IsValid() {
		return Grade(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidGrade, s)
}
