package registry

// Defaults returns the feature set seeded into a fresh registry file.
func Defaults() []Feature {
	return []Feature{
		{
			Key:         "router",
			Label:       "vue-router",
			Packages:    []string{"vue-router"},
			Description: "Client-side routing",
			Versions:    map[string]string{"vue2": "^3.x", "vue3": "^4.6.3"},
			Supported:   &Support{Vue2: boolPtr(true), Vue3: boolPtr(true), TS: boolPtr(true), JS: boolPtr(true)},
		},
		{
			Key:         "pinia",
			Label:       "pinia",
			Packages:    []string{"pinia", "pinia-plugin-persistedstate"},
			Description: "Lightweight state management",
			Versions:    map[string]string{"vue3": "^2.3.1"},
			Supported:   &Support{Vue2: boolPtr(true), Vue3: boolPtr(true), TS: boolPtr(true), JS: boolPtr(true)},
		},
		{
			Key:         "sass",
			Label:       "sass",
			Packages:    []string{"sass", "sass-loader"},
			Description: "CSS preprocessor",
			Versions:    map[string]string{"vue2": "^1.94.0", "vue3": "^1.94.0"},
			Supported:   &Support{Vue2: boolPtr(true), Vue3: boolPtr(true), TS: boolPtr(true), JS: boolPtr(true)},
			Dev:         true,
		},
		{
			Key:         "naive-ui",
			Label:       "naive-ui",
			Packages:    []string{"naive-ui"},
			Description: "Vue 3 component library",
			Supported:   &Support{Vue2: boolPtr(false), Vue3: boolPtr(true), TS: boolPtr(true), JS: boolPtr(false)},
		},
		{
			Key:         "vfonts",
			Label:       "vfonts",
			Packages:    []string{"vfonts"},
			Description: "Web and code fonts",
			Supported:   &Support{Vue2: boolPtr(true), Vue3: boolPtr(true), TS: boolPtr(true), JS: boolPtr(true)},
		},
		{
			Key:         "xicons",
			Label:       "@vicons/ionicons5",
			Packages:    []string{"@vicons/ionicons5"},
			Description: "Icon set",
			Supported:   &Support{Vue2: boolPtr(true), Vue3: boolPtr(true), TS: boolPtr(true), JS: boolPtr(true)},
		},
	}
}
