// Package config loads the optional configuration file and the ignore and
// replacement-rule files consumed by a run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// defaultConfigFileNames are probed in order when no explicit path is given.
var defaultConfigFileNames = []string{
	".dirmerge.yaml",
	".dirmerge.yml",
	".dirmerge",
}

// Configuration mirrors the recognized configuration file keys. Explicit
// command line flags always take precedence over these values.
type Configuration struct {
	Input       string `mapstructure:"input"`
	Output      string `mapstructure:"output"`
	Format      string `mapstructure:"format"`
	Tree        bool   `mapstructure:"tree"`
	List        bool   `mapstructure:"list"`
	Stats       bool   `mapstructure:"stats"`
	NoMerge     bool   `mapstructure:"no_merge"`
	Sanitize    bool   `mapstructure:"sanitize"`
	Yes         bool   `mapstructure:"yes"`
	Debug       bool   `mapstructure:"debug"`
	Tokens      bool   `mapstructure:"tokens"`
	Copy        bool   `mapstructure:"copy"`
	Model       string `mapstructure:"model"`
	IgnoreFile  string `mapstructure:"ignore_file"`
	ReplaceFile string `mapstructure:"replace_file"`

	// Glob and Exclude accept either a comma-separated string or a native
	// list; NormalizePatternList converts both to a slice of trimmed strings.
	Glob    any `mapstructure:"glob"`
	Exclude any `mapstructure:"exclude"`
}

// Load reads the configuration file. With an explicit path a read or parse
// failure is an error; auto-discovered files that fail to parse are skipped
// with a warning. The second return value is the path actually loaded, empty
// when no file was found.
func Load(explicitPath string) (Configuration, string, error) {
	if explicitPath != "" {
		configuration, loadError := loadConfigurationFile(explicitPath)
		if loadError != nil {
			return Configuration{}, "", fmt.Errorf("read configuration from %s: %w", explicitPath, loadError)
		}
		return configuration, explicitPath, nil
	}

	for _, candidateName := range defaultConfigFileNames {
		if _, statError := os.Stat(candidateName); statError != nil {
			continue
		}
		configuration, loadError := loadConfigurationFile(candidateName)
		if loadError != nil {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", candidateName, loadError)
			continue
		}
		return configuration, candidateName, nil
	}

	return Configuration{}, "", nil
}

func loadConfigurationFile(path string) (Configuration, error) {
	fileInformation, statError := os.Stat(path)
	if statError != nil {
		return Configuration{}, statError
	}
	if fileInformation.IsDir() {
		return Configuration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		reader.SetConfigType("yaml")
	}
	if readError := reader.ReadInConfig(); readError != nil {
		return Configuration{}, readError
	}

	var configuration Configuration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return Configuration{}, decodeError
	}
	return configuration, nil
}

// NormalizePatternList converts a configuration pattern value into a list of
// trimmed strings. Strings split on commas; lists keep their elements.
// Values of any other shape produce a warning and an empty list.
func NormalizePatternList(value any) []string {
	switch typedValue := value.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(typedValue) == "" {
			return nil
		}
		var patterns []string
		for _, piece := range strings.Split(typedValue, ",") {
			trimmedPiece := strings.TrimSpace(piece)
			if trimmedPiece != "" {
				patterns = append(patterns, trimmedPiece)
			}
		}
		return patterns
	case []string:
		return typedValue
	case []any:
		var patterns []string
		for _, element := range typedValue {
			elementText, isString := element.(string)
			if !isString {
				fmt.Fprintln(os.Stderr, "Warning: invalid pattern list in config file (entries must be strings)")
				return nil
			}
			patterns = append(patterns, elementText)
		}
		return patterns
	default:
		fmt.Fprintln(os.Stderr, "Warning: invalid pattern value in config file (must be a string or list of strings)")
		return nil
	}
}
