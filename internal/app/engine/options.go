package engine

// Options represents configuration options for the Engine.
type Options struct {
	// FeePercent is the percentage of each match value charged to the
	// aggressive order's owner.
	FeePercent int64

	// LogReports controls whether the book and position summaries are
	// logged after each applied command.
	LogReports bool
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		FeePercent: 1,
		LogReports: true,
	}
}
