package question

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a session configuration is incomplete
// or inconsistent.
var ErrInvalidConfig = errors.New("invalid session config")

// SessionConfig is the configuration chosen for one standard practice session.
type SessionConfig struct {
	Category   CategoryID
	Difficulty Difficulty

	// Language is only meaningful for categories that need one. An empty
	// language on a coding session asks for a mix of languages.
	Language string
}

// Normalize validates the config and fills in defaults: tips sessions are
// always Easy, dsa sessions default to DefaultLanguage, and categories
// without code drop any language.
func (c SessionConfig) Normalize() (SessionConfig, error) {
	cat, err := LookupCategory(c.Category)
	if err != nil {
		return c, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.Category == CategoryTips {
		c.Difficulty = Easy
	} else if c.Difficulty == "" {
		return c, fmt.Errorf("%w: difficulty is required for %s", ErrInvalidConfig, cat.Name)
	} else if !c.Difficulty.Valid() {
		return c, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfig, c.Difficulty)
	}

	if !cat.NeedsLanguage {
		c.Language = ""
		return c, nil
	}
	if c.Language == "" && c.Category == CategoryDSA {
		c.Language = DefaultLanguage
	}
	if c.Language != "" && !ValidLanguage(c.Language) {
		return c, fmt.Errorf("%w: unsupported language %q", ErrInvalidConfig, c.Language)
	}
	return c, nil
}
