package detect

import (
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/tagit/core"
)

// Detector extracts search criteria from free text.
// A Detector holds only immutable rules and is safe for concurrent use.
type Detector struct {
	config    *Config
	corrector *Corrector
	rules     *rules
	ids       IDGenerator
	clock     func() time.Time
	logger    *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector) error

// WithConfig sets the rule configuration.
// Default is DefaultConfig().
func WithConfig(cfg *Config) Option {
	return func(d *Detector) error {
		if cfg == nil {
			cfg = DefaultConfig()
		}
		copied := *cfg
		if err := copied.Validate(); err != nil {
			return err
		}
		d.config = &copied
		return nil
	}
}

// WithIDGenerator sets the tag id generator.
// Default is a SequenceGenerator with random suffixes.
func WithIDGenerator(ids IDGenerator) Option {
	return func(d *Detector) error {
		if ids == nil {
			return ErrIDGeneratorRequired
		}
		d.ids = ids
		return nil
	}
}

// WithClock sets the source of tag timestamps.
// Default is time.Now.
func WithClock(clock func() time.Time) Option {
	return func(d *Detector) error {
		if clock == nil {
			return ErrClockRequired
		}
		d.clock = clock
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger.With("component", "detect")
		return nil
	}
}

// New creates a detector.
func New(opts ...Option) (*Detector, error) {
	d := &Detector{
		config: DefaultConfig(),
		ids:    NewSequenceGenerator(nil),
		clock:  time.Now,
		logger: slog.Default().With("component", "detect"),
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	d.corrector = NewCorrector(d.config.Misspellings)
	d.rules = newRules(d.config)
	return d, nil
}

var defaultDetector = sync.OnceValue(func() *Detector {
	d, err := New()
	if err != nil {
		panic(err)
	}
	return d
})

// DetectTags extracts tags from text using the default detector.
func DetectTags(text string) []core.Tag {
	return defaultDetector().Detect(text)
}

// Config returns a copy of the detector's configuration.
func (d *Detector) Config() Config {
	return *d.config
}

// Detect extracts a deduplicated set of tags from text.
// It never fails; unrecognised text yields an empty slice.
func (d *Detector) Detect(text string) []core.Tag {
	return d.DetectWithMonitor(text, nil)
}

// DetectWithMonitor extracts tags from text, reporting each stage to monitor.
func (d *Detector) DetectWithMonitor(text string, monitor Monitor) []core.Tag {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(text)

	corrected := d.corrector.Correct(text)
	monitor.AfterCorrection(corrected)

	segments := Segment(corrected)
	monitor.AfterSegmentation(segments)

	now := d.clock()
	var tags []core.Tag
	for _, segment := range segments {
		found := d.rules.matchSegment(segment, d.config)
		found = append(found, disambiguate(segment, d.config)...)

		segmentTags := make([]core.Tag, 0, len(found))
		for _, c := range found {
			segmentTags = append(segmentTags, synthesize(c, d.ids, now))
		}
		monitor.SegmentMatched(segment, segmentTags)
		tags = append(tags, segmentTags...)
	}

	if needsParis(tags) {
		tags = append(tags, synthesize(inferredParis(), d.ids, now))
	}
	monitor.AfterInference(tags)

	result := Dedupe(tags)
	monitor.Finish(result)

	d.logger.Debug("detected tags",
		"segments", len(segments),
		"candidates", len(tags),
		"tags", len(result))
	return result
}
