package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"
)

// LoadEnvFile reads a dotenv file and returns the variables as a map.
func LoadEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("env file not found: %s", path)
	}

	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}

	return env, nil
}

// MergeEnv merges environment maps in order, later maps taking precedence.
func MergeEnv(envMaps ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, env := range envMaps {
		for k, v := range env {
			result[k] = v
		}
	}
	return result
}

// CommandEnv assembles the main command's environment. With no config env,
// no config env_file, and no --env-file flag it returns nil, meaning the
// command inherits the supervisor's environment unmodified. Otherwise the
// inherited environment is the base and the sources are merged over it,
// flag file last.
//
// Priority (lowest to highest): inherited, config env_file, config env,
// --env-file.
func CommandEnv(cfg *Config, flagEnvFile string) ([]string, error) {
	var cfgFileEnv, flagFileEnv map[string]string
	var err error

	if cfg != nil && cfg.EnvFile != "" {
		cfgFileEnv, err = LoadEnvFile(cfg.EnvFile)
		if err != nil {
			return nil, fmt.Errorf("loading config env file: %w", err)
		}
	}
	if flagEnvFile != "" {
		flagFileEnv, err = LoadEnvFile(flagEnvFile)
		if err != nil {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}

	var cfgEnv map[string]string
	if cfg != nil {
		cfgEnv = cfg.Env
	}

	extra := MergeEnv(cfgFileEnv, cfgEnv, flagFileEnv)
	if len(extra) == 0 {
		return nil, nil
	}

	inherited := make(map[string]string)
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				inherited[kv[:i]] = kv[i+1:]
				break
			}
		}
	}

	merged := MergeEnv(inherited, extra)
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(merged))
	for _, k := range keys {
		env = append(env, k+"="+merged[k])
	}
	return env, nil
}
