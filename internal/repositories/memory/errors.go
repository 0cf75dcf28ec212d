package memory

import "fmt"

func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
