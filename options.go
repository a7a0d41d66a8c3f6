package textdex

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Engine.
type Option interface {
	apply(*engineConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*engineConfig)

func (f optionFunc) apply(c *engineConfig) { f(c) }

const (
	defaultAnalyzer    = "standard"
	defaultMaxHits     = 100
	defaultLockTimeout = 5 * time.Second
	defaultPreTag      = "<b>"
	defaultPostTag     = "</b>"
)

type engineConfig struct {
	indexDir    string
	analyzer    string
	serializer  FieldSerializer
	lockTimeout time.Duration
	maxHits     int
	preTag      string
	postTag     string

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

func defaultConfig() *engineConfig {
	return &engineConfig{
		analyzer:    defaultAnalyzer,
		serializer:  JSONSerializer{},
		lockTimeout: defaultLockTimeout,
		maxHits:     defaultMaxHits,
		preTag:      defaultPreTag,
		postTag:     defaultPostTag,
		logger:      zap.NewNop(),
	}
}

// WithIndexDir sets the index directory. Required. The directory and an
// empty index are created when missing.
func WithIndexDir(dir string) Option {
	return optionFunc(func(c *engineConfig) {
		c.indexDir = dir
	})
}

// WithAnalyzer sets the analyzer used for text fields and keyword
// extraction. Defaults to "standard".
func WithAnalyzer(name string) Option {
	return optionFunc(func(c *engineConfig) {
		c.analyzer = name
	})
}

// WithSerializer sets the serializer for complex field values.
// Defaults to JSONSerializer.
func WithSerializer(s FieldSerializer) Option {
	return optionFunc(func(c *engineConfig) {
		c.serializer = s
	})
}

// WithLockTimeout bounds the wait for another writer to release the index.
// Default: 5s.
func WithLockTimeout(d time.Duration) Option {
	return optionFunc(func(c *engineConfig) {
		c.lockTimeout = d
	})
}

// WithDefaultMaxHits sets the hit cap search builders start with.
// Default: 100.
func WithDefaultMaxHits(n int) Option {
	return optionFunc(func(c *engineConfig) {
		c.maxHits = n
	})
}

// WithHighlightTags sets the tags wrapped around highlighted terms.
// Defaults to <b> and </b>.
func WithHighlightTags(pre, post string) Option {
	return optionFunc(func(c *engineConfig) {
		c.preTag = pre
		c.postTag = post
	})
}

// WithLogger enables structured logging for engine operations.
// Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *engineConfig) {
		c.logger = l
	})
}

// WithPrometheus registers engine metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *engineConfig) {
		c.metricsReg = reg
	})
}
