package file

import (
	"errors"
)

// -- Sentinels --

var (
	ErrPathRequired = errors.New("path is required")
)
