package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/config"
)

func TestBuildDocumentation(t *testing.T) {
	docs := buildDocumentation()
	if len(docs) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(docs))
	}

	total := 0
	for _, section := range docs {
		if len(section.Options) == 0 {
			t.Errorf("section %s has no options", section.Name)
		}
		total += len(section.Options)
	}
	if total != len(config.Options()) {
		t.Errorf("expected %d documented options, got %d", len(config.Options()), total)
	}
}

func TestGenerate(t *testing.T) {
	root := t.TempDir()
	if err := generate(root); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	for _, out := range outputs {
		if _, err := os.Stat(filepath.Join(root, out.path)); err != nil {
			t.Errorf("expected %s to be generated: %v", out.path, err)
		}
	}
}

func TestExampleTOMLLoadsAsDefaults(t *testing.T) {
	data, err := generateExampleTOML(buildDocumentation())
	if err != nil {
		t.Fatal(err)
	}

	opts := map[string]any{}
	if _, err := toml.Decode(string(data), &opts); err != nil {
		t.Fatalf("example is not valid TOML: %v", err)
	}

	if got := config.Normalize(opts); got != config.GetDefaults() {
		t.Errorf("example does not match defaults: %+v", got)
	}

	if !strings.Contains(string(data), "--output-dir") {
		t.Error("expected flag names in example")
	}
}

func TestJSONSchemaAcceptsOptionFiles(t *testing.T) {
	data, err := generateJSONSchema(buildDocumentation())
	if err != nil {
		t.Fatal(err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource("options.json", strings.NewReader(string(data))); err != nil {
		t.Fatal(err)
	}
	schema, err := compiler.Compile("options.json")
	if err != nil {
		t.Fatalf("generated schema does not compile: %v", err)
	}

	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"canonical", `{"outputDir": "out", "minimal": true}`, false},
		{"legacy", `{"ctrfJsonOutputDir": "out", "ctrfJsonMinimal": "true"}`, false},
		{"unknown key", `{"colour": "blue"}`, true},
		{"wrong type", `{"outputDir": 3}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v interface{}
			if err := json.Unmarshal([]byte(tt.doc), &v); err != nil {
				t.Fatal(err)
			}
			err := schema.Validate(v)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
