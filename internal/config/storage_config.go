package config

import "fmt"

// Storage backends for persisted browser sessions.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageRedis  = "redis"
)

type StorageConfig interface {
	GetStorageBackend() string
	GetRedisURL() string
	GetDatabaseURL() string
	GetSeedCredentials() bool
}

type Storage struct {
	Backend         string `env:"STORAGE_BACKEND" envDefault:"memory"`
	RedisURL        string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	DatabaseURL     string `env:"DATABASE_URL"`
	SeedCredentials bool   `env:"SEED_CREDENTIALS" envDefault:"true"`
}

var _ StorageConfig = Storage{}

func (s Storage) validate() error {
	switch s.Backend {
	case StorageMemory, StorageFile, StorageRedis:
		return nil
	}
	return fmt.Errorf("unknown STORAGE_BACKEND %q", s.Backend)
}

func (s Storage) GetStorageBackend() string {
	return s.Backend
}

func (s Storage) GetRedisURL() string {
	return s.RedisURL
}

// GetDatabaseURL returns the Postgres DSN for the credential table. Empty keeps credentials in memory.
func (s Storage) GetDatabaseURL() string {
	return s.DatabaseURL
}

// GetSeedCredentials reports whether the built-in credential records are written at startup.
func (s Storage) GetSeedCredentials() bool {
	return s.SeedCredentials
}
