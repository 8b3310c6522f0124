// Package readability scores plain text with five classic readability
// formulas, calibrates their combined grade level for student writing, and
// generates feedback relative to a target audience.
//
// All functions are pure and safe for concurrent use.
package readability
