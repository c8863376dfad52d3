package shell

import (
	"errors"
	"fmt"
)

// -- Sentinels --

var (
	ErrCommandRequired = errors.New("command cannot be empty")
)

// UnknownChoiceError is returned when the prompter answers outside the offered choices.
type UnknownChoiceError struct {
	Answer string
}

func (e *UnknownChoiceError) Error() string {
	return fmt.Sprintf("unknown choice %q", e.Answer)
}
