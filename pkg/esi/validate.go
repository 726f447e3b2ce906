package esi

import (
	"slices"
)

// Validate checks that every required option of the schema has been supplied.
// Options the schema does not declare are ignored.
func (r Request) Validate() error {
	var missing []string
	for name, o := range r.schema {
		if !o.Required() {
			continue
		}
		if _, ok := r.options[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	slices.Sort(missing)
	return &ValidationError{Missing: missing}
}
