// Copyright 2025 Andrew Khoury
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// generate-docs generates option documentation from the reporter option table
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/config"
)

// SectionDoc represents documentation for one option group
type SectionDoc struct {
	Name        string
	Description string
	Options     []config.Option
}

var outputs = []struct {
	path     string
	generate func([]SectionDoc) ([]byte, error)
}{
	{"ctrf.example.toml", generateExampleTOML},
	{"ctrf-options.schema.json", generateJSONSchema},
	{filepath.Join("docs", "configuration.md"), generateMarkdownDocs},
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--help" {
		fmt.Println("Usage: generate-docs [root]")
		fmt.Println("Generates documentation from the reporter options:")
		for _, out := range outputs {
			fmt.Printf("  - %s\n", filepath.ToSlash(out.path))
		}
		return
	}

	root := "."
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	if err := generate(root); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func generate(root string) error {
	docs := buildDocumentation()

	for _, out := range outputs {
		data, err := out.generate(docs)
		if err != nil {
			return fmt.Errorf("generating %s: %w", out.path, err)
		}

		path := filepath.Join(root, out.path)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return err
		}
		fmt.Printf("✓ Generated %s\n", filepath.ToSlash(out.path))
	}

	return nil
}

func buildDocumentation() []SectionDoc {
	sections := []SectionDoc{
		{Name: "report", Description: "Where the report is written and what each test record carries"},
		{Name: "environment", Description: "Descriptors copied into results.environment. The block is omitted when none is set."},
	}

	for _, o := range config.Options() {
		for i := range sections {
			if sections[i].Name == o.Group {
				sections[i].Options = append(sections[i].Options, o)
			}
		}
	}

	return sections
}

func generateExampleTOML(docs []SectionDoc) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString(`# =============================================================================
# CTRF JSON reporter options
# =============================================================================
# Every option may also be spelled with the legacy "ctrfJson" prefix
# (outputDir -> ctrfJsonOutputDir). The canonical spelling wins when both
# are present.
#
# Use with: newman-ctrf convert --config ctrf.toml <input>...
# =============================================================================

`)

	for _, section := range docs {
		sb.WriteString("# -----------------------------------------------------------------------------\n")
		sb.WriteString(fmt.Sprintf("# %s - %s\n", section.Name, section.Description))
		sb.WriteString("# -----------------------------------------------------------------------------\n\n")

		for _, o := range section.Options {
			sb.WriteString(fmt.Sprintf("# %s\n", o.Doc))
			sb.WriteString(fmt.Sprintf("# Flag: --%s, environment: %s\n", config.FlagName(o.Key), config.EnvVar(o.Key)))

			switch {
			case o.Default == "":
				sb.WriteString(fmt.Sprintf("# %s = \"\"\n", o.Key))
			case o.Kind == "string":
				sb.WriteString(fmt.Sprintf("%s = %q\n", o.Key, o.Default))
			default:
				sb.WriteString(fmt.Sprintf("%s = %s\n", o.Key, o.Default))
			}
			sb.WriteString("\n")
		}
	}

	return []byte(sb.String()), nil
}

// generateJSONSchema describes the option file. Legacy keys are accepted
// as well.
func generateJSONSchema(docs []SectionDoc) ([]byte, error) {
	properties := map[string]interface{}{}

	for _, section := range docs {
		for _, o := range section.Options {
			fieldSchema := map[string]interface{}{
				"description": o.Doc,
			}
			switch o.Kind {
			case "bool":
				fieldSchema["type"] = []string{"boolean", "string"}
				if o.Default != "" {
					fieldSchema["default"] = o.Default == "true"
				}
			default:
				fieldSchema["type"] = "string"
				if o.Default != "" {
					fieldSchema["default"] = o.Default
				}
			}

			properties[o.Key] = fieldSchema
			properties[o.Legacy] = map[string]interface{}{
				"$ref": "#/properties/" + o.Key,
			}
		}
	}

	schema := map[string]interface{}{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"title":                "CTRF JSON reporter options",
		"description":          "Option file accepted by newman-ctrf convert --config",
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func generateMarkdownDocs(docs []SectionDoc) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString("# Configuration\n\n")
	sb.WriteString("Options are read from an option file (`--config`), from flags and from\n")
	sb.WriteString("environment variables. Flags and environment variables win over the file.\n")
	sb.WriteString("Empty values count as not set, so the default applies.\n\n")
	sb.WriteString("Boolean options are true only for the value `true` (any case).\n\n")

	for _, section := range docs {
		sb.WriteString("## " + section.Name + "\n\n")
		sb.WriteString(section.Description + "\n\n")

		sb.WriteString("| Option | Legacy key | Flag | Environment | Type | Default | Description |\n")
		sb.WriteString("|--------|------------|------|-------------|------|---------|-------------|\n")

		for _, o := range section.Options {
			defaultVal := o.Default
			if defaultVal == "" {
				defaultVal = "-"
			}
			sb.WriteString(fmt.Sprintf("| `%s` | `%s` | `--%s` | `%s` | %s | `%s` | %s |\n",
				o.Key, o.Legacy, config.FlagName(o.Key), config.EnvVar(o.Key), o.Kind, defaultVal, o.Doc))
		}

		sb.WriteString("\n")
	}

	return []byte(sb.String()), nil
}
