//go:build symbolicdebug

package rules

import "strconv"

func checkDepth(depth int) {
	if depth > maxDepth {
		panic("rules: reanalysis depth " + strconv.Itoa(depth) + " exceeds " + strconv.Itoa(maxDepth))
	}
}
