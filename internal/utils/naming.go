package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ExportName capitalizes the first rune of name.
// Example: "x" -> "X", "vx" -> "Vx".
func ExportName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError && size == 0 {
		return ""
	}
	upper := unicode.ToUpper(r)
	if upper == r {
		return name
	}
	return string(upper) + name[size:]
}

// MemberPath exports every member segment of a dotted variable name,
// leaving the root untouched.
// Example: "self.x" -> "self.X".
func MemberPath(name string) string {
	parts := strings.Split(name, ".")
	for i := 1; i < len(parts); i++ {
		parts[i] = ExportName(parts[i])
	}
	return strings.Join(parts, ".")
}

// SnakeCase converts a CamelCase identifier to snake_case.
// Example: "AntiGeometric" -> "anti_geometric".
func SnakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
