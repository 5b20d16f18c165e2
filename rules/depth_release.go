//go:build !symbolicdebug

package rules

func checkDepth(depth int) {}
