package segmenter

// Options holds the configuration of a Segmenter
type Options struct {
	// limit is the maximum length of a part, in counter units
	limit int
	// splitter finds the natural break units of the text
	splitter UnitSplitter
	// counter measures unit and part lengths
	counter Counter
}

// Option is a function type for configuring a Segmenter.
// This follows the functional options pattern for clean and flexible configuration.
type Option func(*Options)

func WithLimit(limit int) Option {
	return func(o *Options) {
		o.limit = limit
	}
}

func WithUnitSplitter(splitter UnitSplitter) Option {
	return func(o *Options) {
		o.splitter = splitter
	}
}

func WithCounter(counter Counter) Option {
	return func(o *Options) {
		o.counter = counter
	}
}

func (o Options) Limit() int {
	return o.limit
}

func (o Options) UnitSplitter() UnitSplitter {
	return o.splitter
}

func (o Options) Counter() Counter {
	return o.counter
}
