package endpoints

import "github.com/jackzampolin/docsort/internal/api"

// All returns every endpoint served by docsort.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health
		&HealthEndpoint{},
		&StatusEndpoint{},

		// Triage
		&CurrentEndpoint{},
		&PageImageEndpoint{},
		&ClassifyEndpoint{},
		&RestartEndpoint{},
		&QueueEndpoint{},

		// Assistant
		&ChatEndpoint{},

		// Settings
		&ListSettingsEndpoint{},
		&GetSettingEndpoint{},

		// Observability and docs
		&MetricsEndpoint{},
		&SwaggerEndpoint{},
		&SwaggerUIEndpoint{},

		// Static files (catch-all, must be last)
		&StaticEndpoint{},
	}
}
