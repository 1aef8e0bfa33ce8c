// Package config handles loading and normalization of reporter options.
//
// Options arrive as a flat, loosely typed map (CLI flags, environment
// variables, option files). Every option has one canonical key (e.g.
// "outputDir") and one legacy spelling carrying the "ctrfJson" prefix
// (e.g. "ctrfJsonOutputDir"). Normalize folds both into a single Config.
package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
)

// Config is the canonical reporter configuration. It is built once by
// Normalize and treated as immutable afterwards.
type Config struct {
	// Report file name, ".json" is appended when missing
	OutputFile string `option:"outputFile" default:"ctrf-report.json" doc:"Report file name (.json is appended when missing)"`
	// Directory the report is written to
	OutputDir string `option:"outputDir" default:"ctrf" doc:"Directory the report is written to (created if missing)"`
	// Omit suite and type from every test
	Minimal bool `option:"minimal" default:"false" doc:"Omit suite and type from every test record"`
	// Value of each test's type field
	TestType string `option:"testType" default:"api" doc:"Value written to each test's type field"`
	// Environment descriptors copied into results.environment
	Environment Environment
}

// Environment holds the optional descriptors of the system under test.
// Empty fields are treated as not supplied.
type Environment struct {
	AppName         string `option:"appName" doc:"Name of the application under test"`
	AppVersion      string `option:"appVersion" doc:"Version of the application under test"`
	OSPlatform      string `option:"osPlatform" doc:"Operating system platform (e.g. linux)"`
	OSRelease       string `option:"osRelease" doc:"Operating system release"`
	OSVersion       string `option:"osVersion" doc:"Operating system version"`
	BuildName       string `option:"buildName" doc:"CI build name"`
	BuildNumber     string `option:"buildNumber" doc:"CI build number"`
	BuildURL        string `option:"buildUrl" doc:"CI build URL"`
	RepositoryName  string `option:"repositoryName" doc:"Source repository name"`
	RepositoryURL   string `option:"repositoryUrl" doc:"Source repository URL"`
	BranchName      string `option:"branchName" doc:"Source branch name"`
	TestEnvironment string `option:"testEnvironment" doc:"Label of the environment the tests ran against (e.g. staging)"`
}

// Option describes one recognized configuration key.
type Option struct {
	// Key is the canonical option name.
	Key string
	// Legacy is the "ctrfJson"-prefixed spelling of Key.
	Legacy string
	// Kind is "string" or "bool".
	Kind    string
	Default string
	Doc     string
	// Group is "report" or "environment".
	Group string

	index []int
}

// GetDefaults returns the configuration used when no option is supplied.
func GetDefaults() Config {
	return Config{
		OutputFile: DefaultOutputFile,
		OutputDir:  DefaultOutputDir,
		Minimal:    false,
		TestType:   DefaultTestType,
	}
}

var options = collectOptions()

// Options returns the table of recognized options in declaration order.
func Options() []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// LookupOption finds an option by canonical or legacy key.
func LookupOption(key string) (Option, bool) {
	for _, o := range options {
		if o.Key == key || o.Legacy == key {
			return o, true
		}
	}
	return Option{}, false
}

func collectOptions() []Option {
	var out []Option
	walkOptions(reflect.TypeOf(Config{}), nil, "report", &out)
	return out
}

func walkOptions(t reflect.Type, parent []int, group string, out *[]Option) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		index := append(append([]int{}, parent...), i)

		if field.Type.Kind() == reflect.Struct {
			walkOptions(field.Type, index, strings.ToLower(field.Name), out)
			continue
		}

		key := field.Tag.Get("option")
		if key == "" {
			continue
		}

		*out = append(*out, Option{
			Key:     key,
			Legacy:  LegacyKey(key),
			Kind:    field.Type.Kind().String(),
			Default: field.Tag.Get("default"),
			Doc:     field.Tag.Get("doc"),
			Group:   group,
			index:   index,
		})
	}
}

// LegacyKey returns the legacy spelling of a canonical option key.
func LegacyKey(key string) string {
	if key == "" {
		return ""
	}
	return LegacyPrefix + strings.ToUpper(key[:1]) + key[1:]
}

// Normalize resolves the option map into a canonical Config. For every
// option the canonical key wins, the legacy key is a fallback and the
// documented default applies when neither is defined. Unknown keys are
// ignored.
func Normalize(opts map[string]any) Config {
	cfg := GetDefaults()
	v := reflect.ValueOf(&cfg).Elem()

	for _, o := range options {
		raw, ok := lookup(opts, o)
		if !ok {
			continue
		}

		field := v.FieldByIndex(o.index)
		switch field.Kind() {
		case reflect.Bool:
			field.SetBool(parseBool(raw))
		case reflect.String:
			s, ok := stringValue(raw)
			if !ok {
				continue
			}
			// an empty value never replaces a documented default
			if s == "" && o.Default != "" {
				continue
			}
			field.SetString(s)
		}
	}

	cfg.OutputFile = NormalizeFilename(cfg.OutputFile)

	return cfg
}

func lookup(opts map[string]any, o Option) (any, bool) {
	if v, ok := opts[o.Key]; ok && v != nil {
		return v, true
	}
	if v, ok := opts[o.Legacy]; ok && v != nil {
		return v, true
	}
	return nil, false
}

// parseBool accepts a native bool or a case-insensitive "true"/"false"
// string. Anything else is false.
func parseBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true")
	default:
		return false
	}
}

// stringValue converts scalar option values to strings. Option files may
// carry numbers for fields like buildNumber.
func stringValue(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case bool:
		return strconv.FormatBool(s), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(s), true
	default:
		return "", false
	}
}

// NormalizeFilename appends the report extension unless the name already
// ends with it. It is idempotent.
func NormalizeFilename(name string) string {
	if strings.HasSuffix(name, ReportExtension) {
		return name
	}
	return name + ReportExtension
}

// WithOutputFile returns a copy of the configuration using name as the
// report file. Empty names leave the configuration unchanged.
func (c Config) WithOutputFile(name string) Config {
	if name == "" {
		return c
	}
	c.OutputFile = NormalizeFilename(name)
	return c
}

// ReportPath is the location the report is written to.
func (c Config) ReportPath() string {
	return filepath.Join(c.OutputDir, c.OutputFile)
}

// HasEnvironment reports whether any environment descriptor was supplied.
func (c Config) HasEnvironment() bool {
	return c.Environment != Environment{}
}

// Value returns the resolved value of an option as a string, for display.
func (c Config) Value(o Option) string {
	field := reflect.ValueOf(c).FieldByIndex(o.index)
	if field.Kind() == reflect.Bool {
		return strconv.FormatBool(field.Bool())
	}
	return field.String()
}
