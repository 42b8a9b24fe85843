// Package normalize provides SQL text normalization for comparing an input
// statement with its canonical rendering when both may differ only in
// spelling.
package normalize

import (
	"regexp"
	"strings"
)

// Pre-compiled regexes for performance
var (
	whitespaceRegex     = regexp.MustCompile(`\s+`)
	punctSpaceRegex     = regexp.MustCompile(`\s*([=<>!]+|\|\||<<|>>|[,()\[\]+\-*/%&|~])\s*`)
	notEqualsRegex      = regexp.MustCompile(`<>`)
	doubleEqualsRegex   = regexp.MustCompile(`==`)
	backtickIdentRegex  = regexp.MustCompile("`([^`]+)`")
	ascRegex            = regexp.MustCompile(`(?i)\s+ASC\b`)
	setDistinctRegex    = regexp.MustCompile(`(?i)\b(UNION|INTERSECT|EXCEPT)\s+DISTINCT\b`)
	arraySpaceRegex     = regexp.MustCompile(`(?i)\bARRAY\s+\[`)
	hexStringRegex      = regexp.MustCompile(`[xX]'([^']*)'`)
	doublePrecisionRegx = regexp.MustCompile(`(?i)\bDOUBLE\s+PRECISION\b`)
)

// Whitespace collapses all whitespace sequences to a single space
// and trims leading/trailing whitespace.
func Whitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// StripComments removes -- line comments and /* */ block comments. Text
// inside string literals and quoted identifiers is kept.
func StripComments(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	i := 0
	for i < len(s) {
		// Line comment: -- to end of line
		if i+1 < len(s) && s[i] == '-' && s[i+1] == '-' {
			for i < len(s) && s[i] != '\n' {
				i++
			}
			continue
		}

		// Block comments do not nest
		if i+1 < len(s) && s[i] == '/' && s[i+1] == '*' {
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return result.String()
			}
			i += end + 4
			result.WriteByte(' ')
			continue
		}

		if q := s[i]; q == '\'' || q == '"' || q == '`' {
			n := quotedLen(s[i:], q)
			result.WriteString(s[i : i+n])
			i += n
			continue
		}

		result.WriteByte(s[i])
		i++
	}

	return result.String()
}

// quotedLen returns the length of the quoted run at the start of s,
// including doubled quote characters. An unterminated run extends to the
// end of s.
func quotedLen(s string, q byte) int {
	i := 1
	for i < len(s) {
		if s[i] == q {
			if i+1 < len(s) && s[i+1] == q {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return len(s)
}

// LowerOutsideQuotes lowercases s except inside string literals and
// quoted identifiers.
func LowerOutsideQuotes(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for s != "" {
		j := strings.IndexAny(s, `'"`)
		if j < 0 {
			result.WriteString(strings.ToLower(s))
			break
		}
		result.WriteString(strings.ToLower(s[:j]))
		n := quotedLen(s[j:], s[j])
		result.WriteString(s[j : j+n])
		s = s[j+n:]
	}
	return result.String()
}

// ForFormat normalizes SQL so that an input statement and its canonical
// rendering compare equal when they differ only in keyword case, spacing,
// comments, operator spelling or implied defaults.
func ForFormat(s string) string {
	normalized := StripComments(s)
	normalized = Whitespace(normalized)
	// Backticks and double quotes delimit the same identifiers
	normalized = backtickIdentRegex.ReplaceAllString(normalized, `"$1"`)
	normalized = notEqualsRegex.ReplaceAllString(normalized, "!=")
	normalized = doubleEqualsRegex.ReplaceAllString(normalized, "=")
	// UNION means UNION DISTINCT
	normalized = setDistinctRegex.ReplaceAllString(normalized, "$1")
	// ORDER BY x ASC is ORDER BY x
	normalized = ascRegex.ReplaceAllString(normalized, "")
	normalized = arraySpaceRegex.ReplaceAllString(normalized, "array[")
	normalized = doublePrecisionRegx.ReplaceAllString(normalized, "double precision")
	normalized = hexStringRegex.ReplaceAllStringFunc(normalized, func(m string) string {
		return "X'" + strings.ToLower(m[2:len(m)-1]) + "'"
	})
	normalized = LowerOutsideQuotes(normalized)
	// Remove spaces around operators and punctuation
	normalized = punctSpaceRegex.ReplaceAllString(normalized, "$1")
	normalized = Whitespace(normalized)
	// Strip trailing semicolon and any spaces before it
	normalized = strings.TrimSuffix(strings.TrimSpace(normalized), ";")
	return strings.TrimSpace(normalized)
}
