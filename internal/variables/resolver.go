package variables

import "fmt"

// ResolveFunc produces a value for a slot that has no entry in the
// value set yet. Implementations typically consult pre-supplied values
// first and fall back to an interactive prompt.
type ResolveFunc func(Slot) (any, error)

// MissingPlaceholderError reports a placeholder that could not be
// resolved because no value was supplied and prompting is disabled.
type MissingPlaceholderError struct {
	VarName string
}

func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf("missing placeholder variable %q: no value was provided and prompting is disabled", e.VarName)
}

// Resolve obtains a value for every slot not already present in the
// set. Slots with an existing value are skipped entirely, which makes
// the pass idempotent: re-running it after a conditional merge only
// touches slots the merge introduced.
func Resolve(set *Set, slots []Slot, fn ResolveFunc) error {
	for _, slot := range slots {
		if set.Has(slot.VarName) {
			continue
		}
		value, err := fn(slot)
		if err != nil {
			return err
		}
		if err := slot.Validate(value); err != nil {
			return err
		}
		if err := set.Put(slot.VarName, value); err != nil {
			return err
		}
	}
	return nil
}
