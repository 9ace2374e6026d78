// Package config is the CLI/file-facing configuration layer: it wraps
// align.Params with I/O and diagnostics toggles, serialized with
// gopkg.in/yaml.v2 in the teacher's pkg/eclipse/config.go idiom
// (NewConfig, AsYaml, newConfigFromYaml).
package config

import (
	"fmt"
	"io/ioutil"
	"log"

	"gopkg.in/yaml.v2"

	"github.com/UCBerkeley-Spring2022-CS284A-Project/HDR/pkg/align"
)

// Config is what cmd/hdrplusalign reads from a YAML file and/or flags.
type Config struct {
	Verbosity int

	Align align.Params

	OutputDir      string
	EmitHeatmaps   bool
	EmitHistograms bool
}

// NewConfig returns a Config seeded with the section 6 default
// alignment parameters.
func NewConfig() Config {
	return Config{Align: align.DefaultParams()}
}

// Validate calls align.Params.Validate and surfaces the same error
// taxonomy; ambient fields have no taxonomy of their own.
func (c Config) Validate() error {
	return c.Align.Validate()
}

// AsYaml marshals the config, in the teacher's register: a marshal
// failure here means the Config itself is malformed (an unsupported
// field type), which is a programming error, not a runtime one, so it
// is fatal exactly as the teacher's AsYaml treats it.
func (c Config) AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("can't marshal config yaml: %v", err)
	}
	return string(b)
}

// newConfigFromYaml unmarshals over a NewConfig default, so any field
// the YAML omits keeps its section-6 default rather than zeroing out.
func newConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	err := yaml.Unmarshal(b, &c)
	return c, err
}

// Load reads and parses a YAML config file (teacher idiom:
// pkg/eclipse/load.go loadConfig).
func Load(filename string) (Config, error) {
	contents, err := ioutil.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config read %s: %v", filename, err)
	}
	return newConfigFromYaml(contents)
}
