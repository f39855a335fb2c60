/*
 * ElfScript Brigade
 *
 * Advent Of Code 2023 Day 1
 * Go Solution
 *
 * Trebuchet?!
 *
 * https://adventofcode.com/2023/day/1
 */
package main

import (
	"log"
	"strings"

	"github.com/elfscript/fireplace"
)

var words = []string{"one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}

// calibration returns the two-digit number made of the first and last digit
// in line. With spelled, "one" through "nine" count as digits too.
func calibration(line string, spelled bool) (int, bool) {
	var digits []int
	for i, r := range line {
		if d, ok := fireplace.Digit(r); ok {
			digits = append(digits, d)
			continue
		}
		if !spelled {
			continue
		}
		for w, word := range words {
			if strings.HasPrefix(line[i:], word) {
				digits = append(digits, w+1)
				break
			}
		}
	}
	if len(digits) == 0 {
		return 0, false
	}
	return digits[0]*10 + digits[len(digits)-1], true
}

func sumCalibrations(input string, spelled bool) (any, error) {
	var values []int
	err := fireplace.ForLines(input, func(_ int, line string) error {
		v, ok := calibration(line, spelled)
		if !ok {
			return fireplace.Errorf("no digit in %q", line)
		}
		values = append(values, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fireplace.Sum(values...), nil
}

func solvePt1(input string, _ []string) (any, error) {
	return sumCalibrations(input, false)
}

func solvePt2(input string, _ []string) (any, error) {
	return sumCalibrations(input, true)
}

func main() {
	if err := fireplace.V1Run(solvePt1, solvePt2); err != nil {
		log.Fatal(err)
	}
}
