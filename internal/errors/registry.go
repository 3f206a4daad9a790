package errors

import "net/http"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
	Status   int
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Request Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryRequest,
		Message:  "Not a search page",
		Detail:   "The requested path is not below the search anchor.",
		DocURL:   "https://searchroute.dev/docs/errors/E100",
		Status:   http.StatusNotFound,
	},
	"E101": {
		Category: CategoryRequest,
		Message:  "Invalid location",
		Detail:   "The location could not be parsed as an absolute URL.",
		DocURL:   "https://searchroute.dev/docs/errors/E101",
		Status:   http.StatusBadRequest,
	},
	"E102": {
		Category: CategoryRequest,
		Message:  "Invalid path",
		Detail:   "The path contains a backslash, a NUL byte, a bad percent-escape or escapes the root.",
		DocURL:   "https://searchroute.dev/docs/errors/E102",
		Status:   http.StatusBadRequest,
	},
	"E103": {
		Category: CategoryRequest,
		Message:  "Invalid UI state",
		Detail:   "The request body is not a valid UI state document.",
		DocURL:   "https://searchroute.dev/docs/errors/E103",
		Status:   http.StatusBadRequest,
	},
	"E104": {
		Category: CategoryRequest,
		Message:  "Unknown message type",
		Detail:   "Websocket messages must have type navigate, state or back.",
		DocURL:   "https://searchroute.dev/docs/errors/E104",
		Status:   http.StatusBadRequest,
	},

	// ============================================
	// Configuration Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The searchroute configuration file is malformed.",
		DocURL:   "https://searchroute.dev/docs/errors/E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No searchroute.json or searchroute.yaml was found.",
		DocURL:   "https://searchroute.dev/docs/errors/E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port number",
		Detail:   "The configured port number is out of range.",
		DocURL:   "https://searchroute.dev/docs/errors/E122",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Invalid category aliases",
		Detail:   "Every alias must be non-empty and map to a distinct category name.",
		DocURL:   "https://searchroute.dev/docs/errors/E123",
	},
	"E124": {
		Category: CategoryConfig,
		Message:  "Invalid routing choice",
		Detail:   "A routing choice must accept its own default value.",
		DocURL:   "https://searchroute.dev/docs/errors/E124",
	},
	"E125": {
		Category: CategoryConfig,
		Message:  "Invalid duration",
		Detail:   "Durations use Go syntax, e.g. \"400ms\" or \"1s\".",
		DocURL:   "https://searchroute.dev/docs/errors/E125",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Missing argument",
		Detail:   "The command needs an argument that was not given.",
		DocURL:   "https://searchroute.dev/docs/errors/E140",
	},
	"E141": {
		Category: CategoryCLI,
		Message:  "Cannot read input",
		Detail:   "The input file or stdin could not be read.",
		DocURL:   "https://searchroute.dev/docs/errors/E141",
	},
	"E142": {
		Category: CategoryCLI,
		Message:  "Invalid logging option",
		Detail:   "--log-level or --log-format has a value that is not recognized.",
		DocURL:   "https://searchroute.dev/docs/errors/E142",
	},
}

// Codes returns all registered error codes.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// Lookup returns the template for a code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
