package config

const (
	defaultFlutterMinSdk     = 21
	defaultFlutterTargetSdk  = 34
	defaultFlutterCompileSdk = 34

	defaultAuditMaxFailures = 3
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by the settings file and env vars.
func defaults() map[string]any {
	return map[string]any{
		"log.level":  "info",
		"log.format": "text",

		"resolver.plugin_order":   "declaration",
		"resolver.plugin_catalog": "",
		"resolver.bom_dir":        "boms",
		"resolver.manifest_dir":   "manifests",
		"resolver.lockfile":       "",

		"flutter.min_sdk":      defaultFlutterMinSdk,
		"flutter.target_sdk":   defaultFlutterTargetSdk,
		"flutter.compile_sdk":  defaultFlutterCompileSdk,
		"flutter.ndk_version":  "",
		"flutter.version_code": 1,
		"flutter.version_name": "1.0.0",

		"signature.keyring": "",
		"signature.require": false,

		"audit.osv_url":         "https://api.osv.dev/v1/query",
		"audit.timeout":         "30s",
		"audit.max_failures":    defaultAuditMaxFailures,
		"audit.breaker_timeout": "60s",
		"audit.fail_on":         "",

		"monitor.repositories": []string{
			"https://dl.google.com/dl/android/maven2",
			"https://repo1.maven.org/maven2",
		},
		"monitor.timeout": "10s",

		"server.addr":          ":8080",
		"server.read_timeout":  "5s",
		"server.write_timeout": "10s",
	}
}
