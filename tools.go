//go:build tools

// Package tools pins code generators invoked via go generate (mockgen).
package tools

import (
	_ "go.uber.org/mock/mockgen"
)
