package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/deduce/internal/rules"
)

// DefaultConfigFile is read when no --config flag is given.
const DefaultConfigFile = ".deduce.yaml"

var ruleIDPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

var validate *validator.Validate

func init() {
	validate = validator.New()
	err := validate.RegisterValidation("ruleid", func(fl validator.FieldLevel) bool {
		return ruleIDPattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("registering ruleid validation: %v", err))
	}
}

// Config is the project configuration.
type Config struct {
	Name string `yaml:"name" validate:"required"`
	// RuleFiles are extra YAML rule tables, relative to the config file.
	RuleFiles     []string `yaml:"rule_files,omitempty" validate:"dive,required"`
	DisabledRules []string `yaml:"disabled_rules,omitempty" validate:"dive,ruleid"`
	// VerifyCatalog runs the truth-table oracle over the built-in table at
	// start-up. Rule files are always checked.
	VerifyCatalog bool `yaml:"verify_catalog"`

	dir string
}

// DefaultConfig is what `deduce init` writes.
func DefaultConfig() Config {
	return Config{Name: "deduce"}
}

// LoadConfig reads and validates a configuration file. A missing default
// file is not an error; a missing explicit one is.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, err
	}
	defer f.Close()

	var config Config
	if err := yaml.NewDecoder(f).Decode(&config); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := validate.Struct(config); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	config.dir = filepath.Dir(path)
	return config, nil
}

// WriteConfig writes config as YAML to path.
func WriteConfig(path string, config Config) error {
	if err := validate.Struct(config); err != nil {
		return err
	}
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}

// Catalog builds the rule catalog the configuration describes: the
// built-in rules plus every rule file, minus the disabled rules.
func (c Config) Catalog() (*rules.Catalog, error) {
	defs := rules.DefaultDefinitions()
	for _, file := range c.RuleFiles {
		if !filepath.IsAbs(file) && c.dir != "" {
			file = filepath.Join(c.dir, file)
		}
		loaded, err := rules.LoadDefinitions(file)
		if err != nil {
			return nil, fmt.Errorf("loading rule file: %w", err)
		}
		defs = append(defs, loaded...)
	}

	if len(c.DisabledRules) > 0 {
		disabled := make(map[rules.ID]bool, len(c.DisabledRules))
		for _, id := range c.DisabledRules {
			disabled[rules.ID(id)] = true
		}
		kept := defs[:0]
		for _, d := range defs {
			if disabled[d.ID] {
				delete(disabled, d.ID)
				continue
			}
			kept = append(kept, d)
		}
		for id := range disabled {
			return nil, fmt.Errorf("disabled rule %s does not exist", id)
		}
		defs = kept
	}

	return rules.NewCatalog(defs, rules.Options{Verify: c.VerifyCatalog})
}
