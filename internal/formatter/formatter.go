package formatter

import (
	"fmt"
	"go/format"
	"regexp"
	"sort"
	"strings"
)

var importBlockRegex = regexp.MustCompile(`(?s)import\s*\((.+?)\)`)

// Formatter is responsible for formatting Go code according to standard conventions
type Formatter struct{}

// NewFormatter creates a new Formatter instance
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format takes Go code as a string and returns properly formatted Go code
func (f *Formatter) Format(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", nil
	}

	formatted, err := format.Source([]byte(code))
	if err != nil {
		return "", fmt.Errorf("failed to parse Go code: %w", err)
	}
	return f.formatImports(string(formatted)), nil
}

// formatImports regroups the import block into standard library imports
// followed by everything else, separated by a blank line.
func (f *Formatter) formatImports(code string) string {
	match := importBlockRegex.FindStringSubmatch(code)
	if len(match) < 2 {
		return code
	}

	var std, thirdParty []string
	for _, line := range strings.Split(strings.TrimSpace(match[1]), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.Contains(strings.Trim(line, `"`), ".") {
			thirdParty = append(thirdParty, line)
		} else {
			std = append(std, line)
		}
	}
	sort.Strings(std)
	sort.Strings(thirdParty)

	var b strings.Builder
	b.WriteString("import (\n")
	for _, imp := range std {
		b.WriteString("\t" + imp + "\n")
	}
	if len(std) > 0 && len(thirdParty) > 0 {
		b.WriteString("\n")
	}
	for _, imp := range thirdParty {
		b.WriteString("\t" + imp + "\n")
	}
	b.WriteString(")")

	block := b.String()
	return importBlockRegex.ReplaceAllLiteralString(code, block)
}
