package errors

// Codes for errors raised by the maproute tool itself. Router errors keep
// their own R-codes.
const (
	CodeConfigNotFound  = "M001"
	CodeConfigParse     = "M002"
	CodeConfigFormat    = "M003"
	CodeUnknownCodec    = "M004"
	CodeRemoteFetch     = "M005"
	CodeInvalidSetting  = "M006"
	CodeRouteTable      = "M007"
	CodeListen          = "M008"
	CodeEnvFile         = "M009"
	CodeBadArgument     = "M010"
	CodeUnresolvedRoute = "M011"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Configuration (M001-M009)
	CodeConfigNotFound: {
		Category:   CategoryConfig,
		Message:    "Route table not found",
		Suggestion: "Pass --config, set MAPROUTE_CONFIG, or omit both to use the built-in table.",
	},
	CodeConfigParse: {
		Category: CategoryConfig,
		Message:  "Route table could not be parsed",
	},
	CodeConfigFormat: {
		Category:   CategoryConfig,
		Message:    "Unknown route table format",
		Suggestion: `Use a .yaml, .yml or .json file, or set "format" explicitly.`,
	},
	CodeUnknownCodec: {
		Category:   CategoryConfig,
		Message:    "Unknown codec",
		Detail:     "A parameter or query key names a codec that is not registered.",
		Suggestion: "Built-in codecs: string, int, positive-int, float, flag, uuid, strings, enum:a|b.",
	},
	CodeRemoteFetch: {
		Category: CategoryConfig,
		Message:  "Remote route table could not be fetched",
		Suggestion: "Check the bucket and key, and that AWS credentials are available " +
			"through the environment or shared config.",
	},
	CodeInvalidSetting: {
		Category: CategoryConfig,
		Message:  "Invalid setting",
	},
	CodeRouteTable: {
		Category: CategoryRoutes,
		Message:  "Route table is invalid",
	},
	CodeListen: {
		Category: CategoryServer,
		Message:  "Inspector server failed",
	},
	CodeEnvFile: {
		Category: CategoryConfig,
		Message:  "Environment file could not be loaded",
	},

	// CLI (M010-M019)
	CodeBadArgument: {
		Category: CategoryCLI,
		Message:  "Invalid argument",
	},
	CodeUnresolvedRoute: {
		Category:   CategoryRequest,
		Message:    "Path does not resolve",
		Suggestion: "Run `maproute routes` to list the templates of the loaded table.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
