// Package labels loads a project-specific citation-label table from YAML,
// overriding workconfig.DefaultCitationLabels for deployments that cite
// structural units differently than the built-in table assumes.
package labels

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/salamanca-digital/citetrail/pkg/workconfig"
)

// Load reads a YAML citation-label table from path, mapping each abstract
// citation-unit key (div/@type) to its full/abbreviated label and
// cite-by-reference flag. An empty path returns nil, leaving
// workconfig.DefaultCitationLabels untouched.
func Load(path string) (map[string]workconfig.CitationLabel, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read citation labels %q: %w", path, err)
	}

	var labels map[string]workconfig.CitationLabel

	if err := yaml.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("parse citation labels %q: %w", path, err)
	}

	return labels, nil
}
