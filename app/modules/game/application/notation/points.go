package notation

import "regexp"

// pointPattern matches a point marker that terminates a line.
var pointPattern = regexp.MustCompile(`(?m)\(P\)\r?$`)

// CountPoints returns the number of lines in text that end with a point marker.
func CountPoints(text string) int {
	return len(pointPattern.FindAllStringIndex(text, -1))
}
