package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

const envPrefix = "CSMACD_"

// envFlagName maps CSMACD_MAX_RETRIES to max-retries.
func envFlagName(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, envPrefix)), "_", "-")
}

// applyEnvFile sets every flag named by a CSMACD_* key in path that was not
// given on the command line. Keys without the prefix are ignored; prefixed
// keys that match no flag are logged and skipped.
func applyEnvFile(fs *pflag.FlagSet, path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("reading env file: %w", err)
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		if strings.HasPrefix(k, envPrefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := envFlagName(k)
		f := fs.Lookup(name)
		if f == nil {
			logrus.Warnf("env file %s: %s matches no flag, ignoring", path, k)
			continue
		}
		if f.Changed {
			continue
		}
		if err := fs.Set(name, values[k]); err != nil {
			return fmt.Errorf("env file %s: %s: %w", path, k, err)
		}
	}
	return nil
}
