// Package sessionlog persists raw session payloads as append-only JSONL.
package sessionlog

// Option applies a configuration option to the JSONLStore.
type Option func(*JSONLStore)

// WithQueueSize sets the capacity of the append job channel.
func WithQueueSize(size int) Option {
	return func(s *JSONLStore) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithName sets the logger name for the store.
func WithName(name string) Option {
	return func(s *JSONLStore) {
		if name != "" {
			s.name = name
		}
	}
}
