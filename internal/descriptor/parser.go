package descriptor

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	lperrors "github.com/alexisbeaulieu97/livepreview/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseFile loads a descriptor document from disk. Files ending in .cue are evaluated with
// CUE first; everything else is decoded as YAML, which includes JSON.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, lperrors.NewParseError(path, 0, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".cue") {
		data, err = exportCUE(data, path)
		if err != nil {
			return nil, lperrors.NewParseError(path, 0, err)
		}
	}

	return Parse(data, path)
}

// Parse decodes a YAML or JSON descriptor document. The document is not validated; field
// level problems are left for the scanner to skip or for Validate to report.
func Parse(data []byte, path string) (*Document, error) {
	var doc Document
	if len(bytes.TrimSpace(data)) == 0 {
		return &doc, nil
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, lperrors.NewParseError(path, extractLine(err), err)
	}

	return &doc, nil
}

// exportCUE evaluates a CUE document and renders it as JSON, keeping field order.
func exportCUE(data []byte, path string) ([]byte, error) {
	ctx := cuecontext.New()
	val := ctx.CompileBytes(data, cue.Filename(path))
	if err := val.Err(); err != nil {
		return nil, fmt.Errorf("evaluate cue: %w", err)
	}
	if err := val.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("cue document is not concrete: %w", err)
	}

	out, err := val.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("export cue: %w", err)
	}
	return out, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}
