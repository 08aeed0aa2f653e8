package judge

import (
	"strings"
)

// Language is a supported submission language. The value is the judge's language id.
type Language int

const (
	LanguagePython Language = 71
	LanguageJava   Language = 62
	LanguageCPP    Language = 76
)

var languageNames = map[Language]string{
	LanguagePython: "python",
	LanguageJava:   "java",
	LanguageCPP:    "cpp",
}

var languageAliases = map[string]Language{
	"python":  LanguagePython,
	"python3": LanguagePython,
	"py":      LanguagePython,
	"java":    LanguageJava,
	"cpp":     LanguageCPP,
	"c++":     LanguageCPP,
	"cxx":     LanguageCPP,
}

// ParseLanguage maps a selection from the client to a Language.
func ParseLanguage(name string) (Language, error) {
	lang, ok := languageAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, &InvalidLanguageError{Name: name}
	}
	return lang, nil
}

// ID returns the judge's language_id.
func (l Language) ID() int {
	return int(l)
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	_, ok := languageNames[l]
	return ok
}

func (l Language) String() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return "unknown"
}

// Languages lists the supported languages by canonical name.
func Languages() []string {
	return []string{"python", "java", "cpp"}
}
