package config

import "fmt"

// Типы хранилищ и последовательностей идентификаторов.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	SequenceLocal = "local"
	SequenceRedis = "redis"
)

// StorageConfig выбирает реализацию хранилищ.
type StorageConfig struct {
	Type string `yaml:"type" env:"FILMORATE_STORAGE_TYPE" env-default:"memory"`
	// Sequence используется только хранилищем в памяти.
	Sequence string `yaml:"sequence" env:"FILMORATE_SEQUENCE_TYPE" env-default:"local"`
}

// Validate проверяет известность выбранных реализаций.
func (s *StorageConfig) Validate() error {
	switch s.Type {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage type %q", s.Type)
	}
	switch s.Sequence {
	case SequenceLocal, SequenceRedis:
	default:
		return fmt.Errorf("unknown sequence type %q", s.Sequence)
	}
	return nil
}

// UsesPostgres сообщает, нужны ли подключение к PostgreSQL и миграции.
func (s *StorageConfig) UsesPostgres() bool {
	return s.Type == StoragePostgres
}

// UsesRedisSequence сообщает, выдает ли идентификаторы Redis.
func (s *StorageConfig) UsesRedisSequence() bool {
	return s.Type == StorageMemory && s.Sequence == SequenceRedis
}
