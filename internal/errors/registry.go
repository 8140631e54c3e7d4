package errors

import "slices"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

const docBase = "https://dhframe.dev/docs/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Widget errors (E100-E109)

	"E100": {
		Category:   CategoryWidget,
		Message:    "Unsupported widget type",
		Detail:     "Only tables, data frames, figures and remote tables can be displayed.",
		Suggestion: "Convert the value to a widget.Table or widget.Figure first.",
		DocURL:     docBase + "E100",
	},
	"E101": {
		Category:   CategoryWidget,
		Message:    "Remote session required",
		Detail:     "An object addressed by name, or a remote table without a session, needs a remote session to resolve it.",
		Suggestion: "Pass frame.Session(s) to Display.",
		DocURL:     docBase + "E101",
	},
	"E102": {
		Category:   CategoryWidget,
		Message:    "Unknown widget kind",
		Detail:     "Widget kinds are table and chart.",
		Suggestion: "Use --kind table or --kind chart.",
		DocURL:     docBase + "E102",
	},
	"E103": {
		Category: CategoryWidget,
		Message:  "Widget kind has no iframe path",
		Detail:   "Only tabular and chart widgets are served under a per-kind path.",
		DocURL:   docBase + "E103",
	},

	// Backend errors (E110-E119)

	"E110": {
		Category:   CategoryBackend,
		Message:    "Backend failed to start",
		Detail:     "The widget backend could not listen on the configured address.",
		Suggestion: "Pick a free port with --port or DHFRAME_SERVER_PORT.",
		DocURL:     docBase + "E110",
	},

	// Configuration errors (E120-E129)

	"E120": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration",
		Detail:     "A configuration value is out of range or malformed.",
		Suggestion: "Check dhframe.yaml and DHFRAME_* environment variables.",
		DocURL:     docBase + "E120",
	},
	"E121": {
		Category:   CategoryConfig,
		Message:    "Config file not readable",
		Detail:     "The configuration file exists but could not be parsed.",
		Suggestion: "Validate the YAML syntax of the file passed with --config.",
		DocURL:     docBase + "E121",
	},

	// Host errors (E130-E139)

	"E130": {
		Category:   CategoryHost,
		Message:    "Session limit reached",
		Detail:     "Every session slot is in use and eviction is disabled.",
		Suggestion: "Raise session.max_sessions or enable session.evict_on_limit.",
		DocURL:     docBase + "E130",
	},
	"E131": {
		Category: CategoryHost,
		Message:  "Session manager stopped",
		Detail:   "The host is shutting down and no longer accepts sessions.",
		DocURL:   docBase + "E131",
	},
}

// GetAllCodes returns every registered error code in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// GetTemplate returns the template for a code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds or replaces an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
