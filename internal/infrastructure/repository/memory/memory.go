package memory

import "fmt"

// duplicateError mimics the postgres unique violation text so the
// usecase layer's duplicate detection behaves the same against either
// store.
func duplicateError(constraint string) error {
	return fmt.Errorf("duplicate key value violates unique constraint %q", constraint)
}
