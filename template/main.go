/*
 * ElfScript Brigade
 *
 * Advent Of Code {year} Day {day}
 * Go Solution
 *
 * {problem_title}
 *
 * https://{problem_url}
 */
package main

import (
	"log"

	"github.com/elfscript/fireplace"
)

func solvePt1(input string, args []string) (any, error) {
	return 25, nil
}

func solvePt2(input string, args []string) (any, error) {
	return "December", nil
}

func main() {
	// 🎅🎄❄️☃️🎁🦌
	// Bright christmas lights HERE
	if err := fireplace.V1Run(solvePt1, solvePt2); err != nil {
		log.Fatal(err)
	}
}
