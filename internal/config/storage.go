package config

const (
	defaultBackend    = "memory"
	defaultSqlitePath = "data/costs.db"
)

type StorageConfig struct {
	BackendName string `yaml:"backend"`
}

func (s *StorageConfig) Backend() string {
	if s.BackendName == "" {
		return defaultBackend
	}
	return s.BackendName
}

type SqliteConfig struct {
	File string `yaml:"path"`
}

func (s *SqliteConfig) Path() string {
	if s.File == "" {
		return defaultSqlitePath
	}
	return s.File
}
