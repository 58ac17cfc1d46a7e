// Package extractor finds the entry-point identifier of a code unit by pattern matching.
package extractor

import (
	"regexp"
	"strings"

	"go.trai.ch/hotspot/internal/core/domain"
	"go.trai.ch/hotspot/internal/core/ports"
	"go.trai.ch/zerr"
)

// Supported languages.
const (
	LanguageJava   = "java"
	LanguageKotlin = "kotlin"
	LanguageCustom = "custom"
)

var (
	// javaPattern matches the first public top-level type declaration.
	javaPattern = regexp.MustCompile(
		`\bpublic\s+(?:(?:final|abstract|sealed|strictfp)\s+)*(?:class|record|enum|interface)\s+([A-Za-z_$][\w$]*)`,
	)

	// kotlinPattern matches the first object or class declaration.
	kotlinPattern = regexp.MustCompile(
		`(?m)^\s*(?:public\s+)?(?:object|class)\s+([A-Za-z_][\w]*)`,
	)
)

var _ ports.EntryPointExtractor = (*Regex)(nil)

// Regex extracts the first capture group of a pattern.
type Regex struct {
	language string
	pattern  *regexp.Regexp
}

// NewRegex creates an extractor from pattern, which must declare exactly one capture group.
func NewRegex(language, pattern string) (*Regex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to compile entry pattern"), "pattern", pattern)
	}
	if re.NumSubexp() != 1 {
		return nil, zerr.With(
			zerr.Wrap(domain.ErrInvalidConfig, "entry pattern must have exactly one capture group"),
			"pattern", pattern,
		)
	}
	return &Regex{language: language, pattern: re}, nil
}

// ForLanguage returns the extractor for language. A non-empty pattern overrides the
// built-in rule and is required for LanguageCustom.
func ForLanguage(language, pattern string) (*Regex, error) {
	language = strings.ToLower(strings.TrimSpace(language))
	if pattern != "" {
		return NewRegex(language, pattern)
	}

	switch language {
	case LanguageJava, "":
		return &Regex{language: LanguageJava, pattern: javaPattern}, nil
	case LanguageKotlin:
		return &Regex{language: LanguageKotlin, pattern: kotlinPattern}, nil
	case LanguageCustom:
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "custom language requires entry_pattern"), "language", language)
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownLanguage, "no entry-point rule for language"), "language", language)
	}
}

// Language returns the language the extractor was built for.
func (r *Regex) Language() string {
	return r.language
}

// Extract returns the identifier matched in code.
func (r *Regex) Extract(code string) (string, error) {
	m := r.pattern.FindStringSubmatch(code)
	if m == nil || m[1] == "" {
		return "", zerr.With(zerr.Wrap(domain.ErrEntryPointNotFound, "no entry-point declaration in code"), "language", r.language)
	}
	return m[1], nil
}
