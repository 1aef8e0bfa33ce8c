package config

// Defaults for options that are not supplied
const (
	DefaultOutputFile = "ctrf-report.json"
	DefaultOutputDir  = "ctrf"
	DefaultTestType   = "api"
)

// ReportExtension is appended to report file names that lack it
const ReportExtension = ".json"

// LegacyPrefix marks the legacy spelling of every option
// (outputDir -> ctrfJsonOutputDir)
const LegacyPrefix = "ctrfJson"

// EnvVarPrefix prefixes the environment variable of every option
// (outputDir -> CTRF_OUTPUT_DIR)
const EnvVarPrefix = "CTRF"

// EnvVar returns the environment variable name for a canonical option key.
func EnvVar(key string) string {
	var b []byte
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c >= 'A' && c <= 'Z' {
			b = append(b, '_')
		} else if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		b = append(b, c)
	}
	return EnvVarPrefix + "_" + string(b)
}

// FlagName returns the kebab-case CLI flag name for a canonical option key
// (outputDir -> output-dir).
func FlagName(key string) string {
	var b []byte
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c >= 'A' && c <= 'Z' {
			b = append(b, '-')
			c += 'a' - 'A'
		}
		b = append(b, c)
	}
	return string(b)
}
