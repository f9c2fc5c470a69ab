// Where: internal/meta/meta.go
// What: CLI metadata constants.
// Why: Keep the command name, config directory and env prefix in one place.
package meta

const (
	AppName   = "akm"
	EnvPrefix = "AKM"

	HomeDir        = ".akm"
	ConfigFileName = "config.yaml"

	// Environment variables read for optional static credentials and emulators.
	EnvAccessKeyID     = EnvPrefix + "_AWS_ACCESS_KEY_ID"
	EnvSecretAccessKey = EnvPrefix + "_AWS_SECRET_ACCESS_KEY"
	EnvEndpointURL     = EnvPrefix + "_AWS_ENDPOINT_URL"
)
