package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

// Application-wide names.
const (
	// ApplicationName is the executable and configuration namespace.
	ApplicationName = "hokuspokus"
	// GlobalConfigDirectoryName is the directory under the user's home holding configuration and credentials.
	GlobalConfigDirectoryName = ".hokuspokus"
	// ConfigFileName is the name of the global application configuration file.
	ConfigFileName = "config.yaml"
	// LocalConfigFileName is the name of the per-project configuration file.
	LocalConfigFileName = ".hokuspokus.yaml"
	// CredentialsFileName is the name of the file holding the API key.
	CredentialsFileName = "config.json"
)

// Messages used by the entry point.
const (
	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal command errors.
	ApplicationExecutionFailedMessage = "hokuspokus failed"
)
