package memo

// Option configures a Cache.
type Option func(*inMemoryCache)

// WithMaxSize bounds the number of cached views. When the bound is reached
// the oldest entry is evicted. maxSize <= 0 disables eviction.
func WithMaxSize(maxSize int) Option {
	return func(c *inMemoryCache) {
		c.maxSize = maxSize
	}
}
