// Package config loads the application configuration and the YAML data
// files, and assembles ready-to-use components from them.
package config

import (
	"time"

	"github.com/cognicore/kotoba/pkg/kotoba/filter"
)

// Config is the root application configuration.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Data      DataConfig      `yaml:"data"`
	Segmenter SegmenterConfig `yaml:"segmenter"`
	Filter    FilterConfig    `yaml:"filter"`
	Anki      AnkiConfig      `yaml:"anki"`
	Audio     AudioConfig     `yaml:"audio"`
	Cache     CacheConfig     `yaml:"cache"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"KOTOBA_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"KOTOBA_LOG_FORMAT" env-default:"text"`
}

// DataConfig points at the data files. Empty paths are skipped.
type DataConfig struct {
	JMdict     string `yaml:"jmdict"      env:"KOTOBA_JMDICT"`
	Lexicon    string `yaml:"lexicon"     env:"KOTOBA_LEXICON"`
	Levels     string `yaml:"levels"      env:"KOTOBA_LEVELS"`
	Frequency  string `yaml:"frequency"   env:"KOTOBA_FREQUENCY"`
	IgnoreList string `yaml:"ignore_list" env:"KOTOBA_IGNORE_LIST"`
	Sentences  string `yaml:"sentences"   env:"KOTOBA_SENTENCES"`
	DB         string `yaml:"db"          env:"KOTOBA_DB"          env-default:"kotoba.db"`
}

// SegmenterConfig selects the morphological dictionary.
type SegmenterConfig struct {
	Dictionary string `yaml:"dictionary" env:"KOTOBA_SEGMENTER_DICTIONARY" env-default:"ipa"`
}

// FilterConfig toggles the filter stages and mining thresholds. Stages
// are on unless skipped.
type FilterConfig struct {
	SkipIgnore    bool     `yaml:"skip_ignore"    env:"KOTOBA_SKIP_IGNORE"`
	SkipFrequency bool     `yaml:"skip_frequency" env:"KOTOBA_SKIP_FREQUENCY"`
	SkipNotable   bool     `yaml:"skip_notable"   env:"KOTOBA_SKIP_NOTABLE"`
	SkipLearnable bool     `yaml:"skip_learnable" env:"KOTOBA_SKIP_LEARNABLE"`
	NotableTags   []string `yaml:"notable_tags"   env:"KOTOBA_NOTABLE_TAGS"   env-default:"ichi1,news1" env-separator:","`
	MinCount      int      `yaml:"min_count"      env:"KOTOBA_MIN_COUNT"      env-default:"5"`
}

// Options converts the toggles to filter options.
func (f FilterConfig) Options() filter.Options {
	return filter.Options{
		Ignore:    !f.SkipIgnore,
		Frequency: !f.SkipFrequency,
		Notable:   !f.SkipNotable,
		Learnable: !f.SkipLearnable,
	}
}

// AnkiConfig holds AnkiConnect settings.
type AnkiConfig struct {
	URL        string        `yaml:"url"         env:"KOTOBA_ANKI_URL"         env-default:"http://localhost:8765"`
	Version    int           `yaml:"version"     env:"KOTOBA_ANKI_VERSION"     env-default:"6"`
	Deck       string        `yaml:"deck"        env:"KOTOBA_ANKI_DECK"        env-default:"Japanese::Vocab"`
	MiningDeck string        `yaml:"mining_deck" env:"KOTOBA_ANKI_MINING_DECK" env-default:"Japanese::Mining"`
	Model      string        `yaml:"model"       env:"KOTOBA_ANKI_MODEL"       env-default:"Genki (Apoc)"`
	Timeout    time.Duration `yaml:"timeout"     env:"KOTOBA_ANKI_TIMEOUT"     env-default:"15s"`
}

// AudioConfig holds pronunciation download settings.
type AudioConfig struct {
	BaseURL string        `yaml:"base_url" env:"KOTOBA_AUDIO_BASE_URL" env-default:"https://assets.languagepod101.com/dictionary/japanese/audiomp3.php"`
	Dir     string        `yaml:"dir"      env:"KOTOBA_AUDIO_DIR"      env-default:"audio"`
	Prefix  string        `yaml:"prefix"   env:"KOTOBA_AUDIO_PREFIX"   env-default:"Apoc"`
	Timeout time.Duration `yaml:"timeout"  env:"KOTOBA_AUDIO_TIMEOUT"  env-default:"30s"`
}

// CacheConfig sizes in-process caches.
type CacheConfig struct {
	MemoSize int `yaml:"memo_size" env:"KOTOBA_MEMO_SIZE" env-default:"4096"`
}
