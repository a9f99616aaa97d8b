package config

type Config interface {
	EnvConfig
	PollingConfig
}

type mainConfig struct {
	EnvVars
	Polling
}

func New() Config {
	return mainConfig{}
}
