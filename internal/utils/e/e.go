package e

import "fmt"

// Wrap annotates err with msg, keeping it matchable with errors.Is
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapIfErr is Wrap that returns nil for a nil error
func WrapIfErr(msg string, err error) error {
	if err == nil {
		return nil
	}
	return Wrap(msg, err)
}
