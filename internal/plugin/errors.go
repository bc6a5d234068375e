package plugin

import "errors"

var (
	// ErrNoWriters is returned by Dispatch when not a single write callback
	// is registered, so there is nobody to deliver to.
	ErrNoWriters = errors.New("no write callbacks registered")

	// ErrUnknownType is returned by Dispatch when no data set was registered
	// under the value list's type name.
	ErrUnknownType = errors.New("no data set registered for type")

	// ErrNoModule is returned by Load when no candidate in the module
	// directory could be loaded and no built-in of that name exists.
	ErrNoModule = errors.New("no loadable module found")

	// ErrNoEntryPoint marks a shared object of the right name that does not
	// export the registration entry point. Such files are skipped.
	ErrNoEntryPoint = errors.New("module does not export " + entrySymbol)

	// ErrCallbackTimeout marks a callback invocation that exceeded the
	// configured per-callback deadline.
	ErrCallbackTimeout = errors.New("callback timed out")

	// ErrEmptyName rejects registrations without a name; the name is the
	// registry key and the only module identity the core keeps.
	ErrEmptyName = errors.New("registration name must not be empty")

	// ErrNilCallback rejects registrations without a callback value.
	ErrNilCallback = errors.New("callback must not be nil")
)
