package dom

import (
	"strings"
	"unicode"
)

const asciiWhitespace = " \t\n\f\r"

// checkToken enforces DOMTokenList rules for class names.
func checkToken(op, param, s string) error {
	if s == "" {
		return argError(op, param, "must not be empty")
	}
	if strings.ContainsAny(s, asciiWhitespace) {
		return argError(op, param, "must not contain whitespace")
	}
	return nil
}

// checkAttrName rejects names a host could not store as an attribute.
func checkAttrName(op, s string) error {
	if s == "" {
		return argError(op, "name", "must not be empty")
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune(`"'>/=`, r) {
			return argError(op, "name", "contains an invalid character")
		}
	}
	return nil
}

func checkNonEmpty(op, param, s string) error {
	if s == "" {
		return argError(op, param, "must not be empty")
	}
	return nil
}

// propertyName maps script-style property names (backgroundColor) to CSS
// names (background-color). Custom properties pass through untouched.
func propertyName(name string) string {
	if strings.HasPrefix(name, "--") {
		return name
	}
	if name == "cssFloat" {
		return "float"
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
