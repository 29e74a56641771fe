package config

const defaultPort = 3000

type ServerConfig struct {
	PortNumber int `yaml:"port"`
}

func (s *ServerConfig) Port() int {
	if s.PortNumber == 0 {
		return defaultPort
	}
	return s.PortNumber
}
