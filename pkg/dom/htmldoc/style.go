package htmldoc

import (
	"slices"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/gorilla/css/scanner"
)

// SetStyle sets an inline style property. An empty value removes it.
// A value that is not a single plain CSS value (more declarations,
// braces, an !important flag) is ignored and the property keeps its
// current value.
func (e *Node) SetStyle(property, value string) error {
	if strings.TrimSpace(value) == "" {
		return e.RemoveStyle(property)
	}
	decls, err := e.declarations()
	if err != nil {
		return err
	}
	value, ok := plainValue(value)
	if !ok {
		return nil
	}
	if i := findDeclaration(decls, property); i >= 0 {
		decls[i].Value = value
		decls[i].Important = false
	} else {
		decls = append(decls, &css.Declaration{Property: property, Value: value})
	}
	e.setAttr("style", serializeDeclarations(decls))
	return nil
}

// RemoveStyle clears an inline style property. A style attribute left
// without declarations is kept empty.
func (e *Node) RemoveStyle(property string) error {
	decls, err := e.declarations()
	if err != nil {
		return err
	}
	i := findDeclaration(decls, property)
	if i < 0 {
		return nil
	}
	decls = slices.Delete(decls, i, i+1)
	e.setAttr("style", serializeDeclarations(decls))
	return nil
}

// Style returns the inline value of property, or "" when unset.
func (e *Node) Style(property string) (string, error) {
	decls, err := e.declarations()
	if err != nil {
		return "", err
	}
	if i := findDeclaration(decls, property); i >= 0 {
		return decls[i].Value, nil
	}
	return "", nil
}

// declarations parses the style attribute. Malformed declarations are
// dropped, so a style string never makes a later call fail.
func (e *Node) declarations() ([]*css.Declaration, error) {
	if err := e.element(); err != nil {
		return nil, err
	}
	raw, ok := e.attr("style")
	if !ok {
		return nil, nil
	}
	return parseDeclarationList(raw), nil
}

func parseDeclarationList(raw string) []*css.Declaration {
	var decls []*css.Declaration
	for _, chunk := range splitDeclarations(raw) {
		if d, ok := parseDeclaration(chunk); ok {
			decls = append(decls, d)
		}
	}
	return decls
}

// splitDeclarations cuts a declaration list at semicolons outside of
// parentheses and brackets. Chunks holding a brace or a token the
// scanner rejects come back empty.
func splitDeclarations(raw string) []string {
	var (
		chunks []string
		cur    strings.Builder
		depth  int
		broken bool
	)
	flush := func() {
		if broken {
			chunks = append(chunks, "")
		} else {
			chunks = append(chunks, cur.String())
		}
		cur.Reset()
		broken = false
	}

	s := scanner.New(raw)
	for {
		tok := s.Next()
		if tok.Type == scanner.TokenEOF {
			break
		}
		if tok.Type == scanner.TokenError {
			broken = true
			break
		}
		switch {
		case tok.Type == scanner.TokenFunction:
			depth++
		case tok.Type != scanner.TokenChar:
		case tok.Value == "(" || tok.Value == "[":
			depth++
		case tok.Value == ")" || tok.Value == "]":
			if depth > 0 {
				depth--
			}
		case tok.Value == "{" || tok.Value == "}":
			broken = true
		case tok.Value == ";" && depth == 0:
			flush()
			continue
		}
		cur.WriteString(tok.Value)
	}
	flush()
	return chunks
}

func parseDeclaration(chunk string) (*css.Declaration, bool) {
	if strings.TrimSpace(chunk) == "" {
		return nil, false
	}
	// The parser only assigns a value once it sees the terminator.
	decls, err := parser.ParseDeclarations(chunk + ";")
	if err != nil || len(decls) != 1 {
		return nil, false
	}
	d := decls[0]
	if d.Value == "" || !isPropertyName(d.Property) {
		return nil, false
	}
	return d, true
}

func isPropertyName(name string) bool {
	if strings.HasPrefix(name, "--") {
		name = name[1:]
	}
	s := scanner.New(name)
	tok := s.Next()
	return tok.Type == scanner.TokenIdent && s.Next().Type == scanner.TokenEOF
}

// plainValue reports whether value parses as exactly one declaration
// value without !important, and returns it trimmed.
func plainValue(value string) (string, bool) {
	chunks := splitDeclarations("x: " + value)
	if len(chunks) != 1 {
		return "", false
	}
	d, ok := parseDeclaration(chunks[0])
	if !ok || d.Important {
		return "", false
	}
	return d.Value, true
}

func findDeclaration(decls []*css.Declaration, property string) int {
	return slices.IndexFunc(decls, func(d *css.Declaration) bool {
		if strings.HasPrefix(property, "--") {
			return d.Property == property
		}
		return strings.EqualFold(d.Property, property)
	})
}

// serializeDeclarations renders declarations the way browsers write the
// style attribute: "color: red; display: none;".
func serializeDeclarations(decls []*css.Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		if d.Property == "" || d.Value == "" {
			continue
		}
		s := d.Property + ": " + d.Value
		if d.Important {
			s += " !important"
		}
		parts = append(parts, s+";")
	}
	return strings.Join(parts, " ")
}
