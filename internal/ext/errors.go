package ext

import "errors"

var (
	// ErrDuplicateModule is returned when registering a module twice.
	ErrDuplicateModule = errors.New("module already registered")

	// ErrBadModuleName is returned for module names that are not plain
	// identifiers.
	ErrBadModuleName = errors.New("invalid module name")

	// ErrNotInstantiable is returned when a class constructs a value
	// lacking the expected interface.
	ErrNotInstantiable = errors.New("class does not construct the expected type")
)
