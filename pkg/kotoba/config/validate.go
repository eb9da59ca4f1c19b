package config

import (
	"fmt"
	"strings"

	"github.com/cognicore/kotoba/pkg/kotoba/internalerr"
)

// Validate checks the loaded configuration. Load calls it automatically.
func (c *Config) Validate() error {
	if d := c.Segmenter.Dictionary; !strings.EqualFold(d, "ipa") {
		return fmt.Errorf("segmenter.dictionary %q: only ipa is supported: %w", d, internalerr.ErrInvalidConfig)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q: want json or text: %w", c.Log.Format, internalerr.ErrInvalidConfig)
	}
	if c.Filter.MinCount < 1 {
		return fmt.Errorf("filter.min_count must be >= 1 (got %d): %w", c.Filter.MinCount, internalerr.ErrInvalidConfig)
	}
	if c.Anki.Version < 1 {
		return fmt.Errorf("anki.version must be >= 1 (got %d): %w", c.Anki.Version, internalerr.ErrInvalidConfig)
	}
	if c.Cache.MemoSize < 0 {
		return fmt.Errorf("cache.memo_size must be >= 0 (got %d): %w", c.Cache.MemoSize, internalerr.ErrInvalidConfig)
	}
	for _, tag := range c.Filter.NotableTags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("filter.notable_tags contains a blank tag: %w", internalerr.ErrInvalidConfig)
		}
	}
	return nil
}
