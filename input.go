package fireplace

import (
	"fmt"
	"strconv"
	"strings"
)

// Lines splits the input into lines. An empty input has no lines.
func Lines(input string) []string {
	if input == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(input, "\r\n", "\n"), "\n")
}

// ForLines calls onLine for each line of input, stopping at the first error.
// The y value is the row number, starting with 0.
func ForLines(input string, onLine func(y int, line string) error) error {
	for y, line := range Lines(input) {
		if err := onLine(y, line); err != nil {
			return fmt.Errorf("line %d: %w", y+1, err)
		}
	}
	return nil
}

// Int returns the int value of the string, ignoring surrounding space.
func Int(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

// Ints returns the int values of the whitespace separated fields of s.
func Ints(s string) ([]int, error) {
	fields := strings.Fields(s)
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := Int(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Digit returns the value of the decimal digit r.
func Digit(r rune) (int, bool) {
	if r < '0' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}

// Digits returns the individual digits of the string.
func Digits(line string) ([]int, error) {
	var out []int
	for _, c := range line {
		d, ok := Digit(c)
		if !ok {
			return nil, fmt.Errorf("not a digit: %q", c)
		}
		out = append(out, d)
	}
	return out, nil
}
