package cvmatch

import "time"

// Config tunes the internal scorer. Identical Config and inputs always give
// identical results.
type Config struct {
	// MaxEditDistance allows near matches ("kubernets" for "kubernetes").
	// Zero disables fuzzy matching.
	MaxEditDistance int `yaml:"max_edit_distance"`
	// MinFuzzyLength is the shortest keyword fuzzy matching applies to.
	MinFuzzyLength int `yaml:"min_fuzzy_length"`
	// Substring accepts a keyword contained inside a longer résumé token.
	Substring          bool `yaml:"substring"`
	MinSubstringLength int  `yaml:"min_substring_length"`
	Stem               bool `yaml:"stem"`
	TopSuggestions     int  `yaml:"top_suggestions"`
	// MaxKeywords caps the job description keyword set; zero keeps all.
	MaxKeywords   int `yaml:"max_keywords"`
	MaxInputBytes int `yaml:"max_input_bytes"`

	ExternalTimeout time.Duration `yaml:"external_timeout"`
}

func DefaultConfig() Config {
	return Config{
		MaxEditDistance:    1,
		MinFuzzyLength:     5,
		Substring:          false,
		MinSubstringLength: 4,
		Stem:               false,
		TopSuggestions:     5,
		MaxInputBytes:      200_000,
		ExternalTimeout:    5 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxEditDistance < 0 {
		c.MaxEditDistance = 0
	}
	if c.MinFuzzyLength <= 0 {
		c.MinFuzzyLength = d.MinFuzzyLength
	}
	if c.MinSubstringLength <= 0 {
		c.MinSubstringLength = d.MinSubstringLength
	}
	if c.TopSuggestions <= 0 {
		c.TopSuggestions = d.TopSuggestions
	}
	if c.MaxInputBytes <= 0 {
		c.MaxInputBytes = d.MaxInputBytes
	}
	if c.ExternalTimeout <= 0 {
		c.ExternalTimeout = d.ExternalTimeout
	}
	return c
}
