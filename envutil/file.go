package envutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFileType is returned when the file extension is not recognized.
var ErrUnknownFileType = errors.New("env file doesn't have a known file suffix")

// LoadEnvFile loads environment variables from a file and returns them as a
// map. The format follows the file extension:
//   - .env files are key=value pairs, parsed by godotenv
//   - .json files carry an "env" object of string key-value pairs
//   - .yml/.yaml files carry an "env" mapping of string key-value pairs
func LoadEnvFile(path string) (map[string]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	name := strings.ToLower(info.Name())

	switch {
	case strings.HasSuffix(name, ".env"):
		return godotenv.Read(path)
	case strings.HasSuffix(name, ".json"):
		return loadJSONFile(path)
	case strings.HasSuffix(name, ".yml"), strings.HasSuffix(name, ".yaml"):
		return loadYAMLFile(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFileType, info.Name())
	}
}

// ApplyEnvFile loads an env file and sets every variable it defines on the
// process environment. Existing variables keep their values; the file only
// fills in what is absent, so the real environment always wins.
func ApplyEnvFile(path string) error {
	vars, err := LoadEnvFile(path)
	if err != nil {
		return err
	}

	for key, value := range vars {
		if _, exists := os.LookupEnv(key); exists {
			continue
		}

		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("setting %s: %w", key, err)
		}
	}

	return nil
}

type jsonEnvFile struct {
	Env map[string]string `json:"env"`
}

func loadJSONFile(path string) (map[string]string, error) {
	bts, err := os.ReadFile(path) // #nosec G304 -- path is the intended file to load
	if err != nil {
		return nil, err
	}

	out := &jsonEnvFile{}
	if err := json.Unmarshal(bts, out); err != nil {
		return nil, err
	}

	return out.Env, nil
}

type yamlEnvFile struct {
	Env map[string]string `yaml:"env"`
}

func loadYAMLFile(path string) (map[string]string, error) {
	bts, err := os.ReadFile(path) // #nosec G304 -- path is the intended file to load
	if err != nil {
		return nil, err
	}

	out := &yamlEnvFile{}
	if err := yaml.Unmarshal(bts, out); err != nil {
		return nil, err
	}

	return out.Env, nil
}
