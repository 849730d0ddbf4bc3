package cluster

// Option configures an assigner at construction time.
type Option func(*settings)

type settings struct {
	labels []int
}

// WithLabels sets the cluster id reported for each row, in row order.
// Without it rows are labeled 0..K-1.
func WithLabels(labels []int) Option {
	return func(s *settings) {
		s.labels = labels
	}
}

func applyOptions(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
