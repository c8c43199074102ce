package statesync

import "time"

// Config is the syncer configuration.
type Config struct {
	// ChunkFetchTimeout bounds a single chunk fetch. A snapshot whose
	// chunk cannot be fetched in time is abandoned.
	ChunkFetchTimeout time.Duration `yaml:"chunkFetchTimeout"`
	// MaxChunkRetries bounds how often the application may ask for the
	// same chunk again before the snapshot is abandoned.
	MaxChunkRetries int `yaml:"maxChunkRetries"`
	// MaxSnapshotRetries bounds how often the same snapshot may be
	// re-offered after a RetrySnapshot verdict.
	MaxSnapshotRetries int `yaml:"maxSnapshotRetries"`
}

// DefaultConfig is the default syncer configuration.
var DefaultConfig = Config{
	ChunkFetchTimeout:  15 * time.Second,
	MaxChunkRetries:    3,
	MaxSnapshotRetries: 2,
}
