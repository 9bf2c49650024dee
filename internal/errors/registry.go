package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Signals (S001-S019)

	"S001": {
		Category: CategorySignal,
		Message:  "Signal not found",
		Detail:   "No signal is registered under this name. Names are set with reactive.WithName and must be registered before they can be inspected.",
	},
	"S002": {
		Category: CategorySignal,
		Message:  "Signal type mismatch",
		Detail:   "The value does not match the type the signal was created with.",
	},
	"S003": {
		Category: CategorySignal,
		Message:  "Duplicate signal name",
		Detail:   "Another signal is already registered under this name.",
	},
	"S004": {
		Category: CategorySignal,
		Message:  "Mutation failed",
		Detail:   "The mutator returned an error or panicked. The signal kept its previous value and no subscriber was notified.",
	},

	// Configuration (C001-C019)

	"C001": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "signalctl.json could not be parsed as JSON.",
	},
	"C002": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or not one of the accepted choices.",
	},
	"C003": {
		Category: CategoryConfig,
		Message:  "Invalid environment override",
		Detail:   "A SIGNALCTL_* environment variable could not be parsed.",
	},

	// Persistence (P001-P019)

	"P001": {
		Category: CategoryStorage,
		Message:  "Storage unavailable",
		Detail:   "The configured store could not be opened or did not respond.",
	},
	"P002": {
		Category: CategoryStorage,
		Message:  "Snapshot not found",
		Detail:   "The store holds no snapshot for this key.",
	},
	"P003": {
		Category: CategoryStorage,
		Message:  "Corrupt snapshot",
		Detail:   "The stored snapshot could not be decoded into the signal's type.",
	},

	// Serving and telemetry (N001-N019)

	"N001": {
		Category: CategoryServer,
		Message:  "Listen failed",
		Detail:   "The inspector could not bind its address. Another process may be using the port.",
	},
	"N002": {
		Category: CategoryServer,
		Message:  "Tracing setup failed",
		Detail:   "The trace exporter could not be created.",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
