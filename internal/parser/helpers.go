package parser

import (
	"fmt"
	"strings"
)

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

func stripUnderscores(s string) string {
	return strings.ReplaceAll(s, "_", "")
}
