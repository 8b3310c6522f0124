package readability

import (
	"errors"
	"fmt"
)

// ErrUnknownTargetLevel is returned by ParseTargetLevel for unrecognized input.
var ErrUnknownTargetLevel = errors.New("unknown target level")

// TargetLevel is the audience a text is written for.
type TargetLevel string

const (
	HighSchool TargetLevel = "high-school"
	College    TargetLevel = "college"
)

// ParseTargetLevel converts s into a TargetLevel. An empty string selects
// HighSchool.
func ParseTargetLevel(s string) (TargetLevel, error) {
	switch TargetLevel(s) {
	case "", HighSchool:
		return HighSchool, nil
	case College:
		return College, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTargetLevel, s)
}

// GradeRange returns the inclusive grade range appropriate for the level.
func (l TargetLevel) GradeRange() (lo, hi int) {
	if l == College {
		return 13, 16
	}
	return 9, 12
}

// ReadingLevel is a coarse band for a recommended grade level.
type ReadingLevel string

const (
	Elementary   ReadingLevel = "elementary"
	MiddleSchool ReadingLevel = "middle-school"
	HighSchoolRL ReadingLevel = "high-school"
	Adult        ReadingLevel = "adult"
)

// ReadingLevelForGrade maps a recommended grade level to its band.
func ReadingLevelForGrade(grade int) ReadingLevel {
	switch {
	case grade <= 5:
		return Elementary
	case grade <= 8:
		return MiddleSchool
	case grade <= 12:
		return HighSchoolRL
	default:
		return Adult
	}
}

// ParseReadingLevel converts s into one of the four reading level bands.
func ParseReadingLevel(s string) (ReadingLevel, error) {
	switch l := ReadingLevel(s); l {
	case Elementary, MiddleSchool, HighSchoolRL, Adult:
		return l, nil
	}
	return "", fmt.Errorf("unknown reading level: %q", s)
}
