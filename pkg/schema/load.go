package schema

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Load reads a wizard definition from a YAML file and validates it.
// Step numbers must form the contiguous sequence 1..N.
func Load(path string) (*Wizard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wizard schema: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML wizard definition.
func Parse(data []byte) (*Wizard, error) {
	var w Wizard
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse wizard schema: %w", err)
	}
	if err := validate.Struct(&w); err != nil {
		return nil, fmt.Errorf("invalid wizard schema: %w", err)
	}
	for i, step := range w.Steps {
		if step.Number != i+1 {
			return nil, fmt.Errorf("invalid wizard schema: step %d declares number %d", i+1, step.Number)
		}
		if step.Kind != KindTerminal && step.Kind != KindMatrix && step.Section == "" {
			return nil, fmt.Errorf("invalid wizard schema: step %q needs a section", step.Name)
		}
		if step.Kind == KindMatrix && len(step.MatrixSections) == 0 {
			return nil, fmt.Errorf("invalid wizard schema: step %q needs matrixSections", step.Name)
		}
	}
	return &w, nil
}
