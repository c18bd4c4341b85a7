package briar

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ScriptCase is one entry in testdata/scripts/manifest.yaml: a source
// snippet and the token count a full parse of it should consume.
type ScriptCase struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Tokens int    `yaml:"tokens"`
}

type scriptManifest struct {
	Scripts []ScriptCase `yaml:"scripts"`
}

// LoadScriptManifest reads the yaml-described end-to-end script corpus used
// by the package's table-driven tests.
func LoadScriptManifest(path string) ([]ScriptCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m scriptManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m.Scripts, nil
}
