package toolutils

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// ReadYaml decodes the YAML file at path into out, which must be a pointer.
// Exits the process with an error message if the file cannot be read or
// parsed, since it is only ever called during process bootstrap.
func ReadYaml(out any, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to read config file %s: %v\n", path, err)
		os.Exit(1)
	}

	if err := yaml.Unmarshal(raw, out); err != nil {
		fmt.Fprintf(os.Stderr, "unable to parse config file %s: %v\n", path, err)
		os.Exit(1)
	}
}
