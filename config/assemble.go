package config

import "github.com/mduppes/fairseq2/data"

// Apply appends the configured stages to a builder, in the fixed order
// take, shuffle, batch, prefetch. Stages with a zero parameter are left
// out, so a minimal configuration yields the builder unchanged.
func (c *PipelineConfig) Apply(b *data.Builder) *data.Builder {
	if c.MaxRecords > 0 {
		b = b.Take(int64(c.MaxRecords))
	}
	if c.ShuffleWindow > 0 {
		b = b.Shuffle(c.ShuffleWindow, uint64(c.Seed))
	}
	if c.BatchSize > 0 {
		b = b.Batch(c.BatchSize, c.DropRemainder)
	}
	if c.PrefetchDepth > 0 {
		b = b.Prefetch(c.PrefetchDepth)
	}
	return b
}
