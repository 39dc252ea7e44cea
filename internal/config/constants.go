package config

import "fmt"

const (
	ENV_PREFIX      = "ADVISOR"
	ENV_PROVIDER    = "PROVIDER"
	ENV_ENDPOINT    = "ENDPOINT"
	ENV_API_KEY     = "API_KEY"
	ENV_MODEL       = "MODEL"
	ENV_TEMPERATURE = "TEMPERATURE"
	ENV_TIMEOUT     = "TIMEOUT"
	ENV_PROMPT      = "PROMPT"
	ENV_LOG_FILE    = "LOG_FILE"
	ENV_LOG_LEVEL   = "LOG_LEVEL"
	ENV_LOG_FORMAT  = "LOG_FORMAT"

	DEFAULT_PROVIDER   = "relay"
	DEFAULT_LOG_LEVEL  = "info"
	DEFAULT_LOG_FORMAT = "json"
	DOTENV_FILE        = ".env"
)

func GetEnvWithPrefix(env string) string {
	return fmt.Sprintf("%s_%s", ENV_PREFIX, env)
}
