package common

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is a flat key/value view over config.yaml. Frontends and adapters read their settings through it instead
// of hard-coding constants.
type Config struct {
	values map[string]any
}

// LoadConfig reads the yaml file at `path`.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig builds a config from raw yaml.
func ParseConfig(data []byte) (*Config, error) {
	values := make(map[string]any)
	err := yaml.Unmarshal(data, &values)
	if err != nil {
		return nil, err
	}
	return NewConfig(values), nil
}

// NewConfig wraps already decoded values. A nil map yields an empty config where every getter returns its default.
func NewConfig(values map[string]any) *Config {
	if values == nil {
		values = make(map[string]any)
	}
	return &Config{values: values}
}

// GetString returns a string-typed parameter, or an empty string if it's missing or not a string.
func (c *Config) GetString(key string) string {
	str, _ := c.values[key].(string)
	return str
}

// GetStringOrDefault returns a string-typed parameter. If nothing is found, or if the value cannot be parsed as a string,
// returns `defaultValue`.
func (c *Config) GetStringOrDefault(key, defaultValue string) string {
	value := c.GetString(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetIntOrDefault returns an integer-typed parameter. If nothing is found, or if the value cannot be parsed as an integer,
// returns `defaultValue`.
func (c *Config) GetIntOrDefault(key string, defaultValue int) int {
	intValue, ok := c.values[key].(int)
	if !ok {
		return defaultValue
	}
	return intValue
}

// GetBoolOrDefault returns a boolean parameter, or `defaultValue` if it's missing or not a boolean.
func (c *Config) GetBoolOrDefault(key string, defaultValue bool) bool {
	boolValue, ok := c.values[key].(bool)
	if !ok {
		return defaultValue
	}
	return boolValue
}

// GetStringSliceOrDefault returns a list of strings. If nothing is found, or if any element isn't a string, returns
// `defaultValue`.
func (c *Config) GetStringSliceOrDefault(key string, defaultValue []string) []string {
	values, ok := c.values[key].([]any)
	if !ok {
		return defaultValue
	}
	result := make([]string, 0, len(values))
	for _, value := range values {
		str, ok := value.(string)
		if !ok {
			return defaultValue
		}
		result = append(result, str)
	}
	return result
}

// GetDurationOrDefault returns a duration given in milliseconds. Missing or negative values yield `defaultValue`.
func (c *Config) GetDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	intValue := c.GetIntOrDefault(key, -1)
	if intValue < 0 {
		return defaultValue
	}
	return time.Duration(intValue) * time.Millisecond
}
