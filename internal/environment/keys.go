package environment

// Key is a well-known environment key. Plugins may also use arbitrary
// string keys of their own; Key exists only to give the core's own keys
// compile-time names.
type Key string

// Well-known keys, stable identifiers shared by the whole orchestrator.
const (
	Error                    Key = "ERROR"
	Aborted                  Key = "ABORTED"
	ExceptionInfo            Key = "EXCEPTION_INFO"
	ExitCode                 Key = "EXIT_CODE"
	ExecutionDirectory       Key = "EXECUTION_DIRECTORY"
	SuppressEnvironmentKeys  Key = "SUPPRESS_ENVIRONMENT_KEYS"
	Log                      Key = "LOG"
	PluginPath               Key = "PLUGIN_PATH"
	PluginGroups             Key = "PLUGIN_GROUPS"
	Debug                    Key = "DEBUG"
	RandomizeEvents          Key = "RANDOMIZE_EVENTS"
	FailOnPrioOverride       Key = "FAIL_ON_PRIO_OVERRIDE"
	CommandPath              Key = "COMMAND_PATH"
)

// OTOPIDebugVar is the process environment variable the CLI reads while
// building the orchestrator context, to seed Debug.
const OTOPIDebugVar = "OTOPI_DEBUG"

// DefaultPluginGroups is always appended to the requested plugin group set.
const DefaultPluginGroups = "otopi"
