package config

import "os"

// GetEnv reads an environment variable. Defaults and validation happen at the
// call sites so each subsystem can decide what is fatal.
func GetEnv(key string) string {
	return os.Getenv(key)
}
