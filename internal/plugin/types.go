package plugin

import "time"

// SourceKind tells consumers how to interpret a single data source.
type SourceKind int

const (
	// Gauge values are absolute readings (bytes of memory in use).
	Gauge SourceKind = iota
	// Counter values only ever grow (seconds of CPU time consumed).
	Counter
)

func (k SourceKind) String() string {
	switch k {
	case Gauge:
		return "gauge"
	case Counter:
		return "counter"
	default:
		return "unknown"
	}
}

// DataSource describes one value slot within a data set.
type DataSource struct {
	Name string
	Kind SourceKind
	Min  float64
	Max  float64
}

// DataSet describes the structure every value list of the same type must
// follow: how many values it carries and what each of them means. Data sets
// are registered once, by type name, and never mutated afterwards.
type DataSet struct {
	Type    string
	Sources []DataSource
}

// ValueList is one batch of measured values. It carries only the type name of
// its data set; the dispatcher resolves the data set itself at delivery time.
type ValueList struct {
	Type           string
	TypeInstance   string
	Plugin         string
	PluginInstance string
	Host           string
	Time           time.Time
	Interval       time.Duration
	Values         []float64
}

// Initializer is the init callback class: invoked once after all modules are
// loaded and configured, before the first read pass.
type Initializer interface {
	Init() error
}

// Reader is the read callback class: invoked once per sampling step to
// collect and dispatch values.
type Reader interface {
	Read() error
}

// Writer is the write callback class: receives every dispatched value list
// together with its resolved data set.
type Writer interface {
	Write(ds *DataSet, vl *ValueList) error
}

// Shutdowner is the shutdown callback class: invoked exactly once at process
// teardown.
type Shutdowner interface {
	Shutdown() error
}

// InitializerFunc adapts a plain function to the Initializer interface.
type InitializerFunc func() error

func (f InitializerFunc) Init() error { return f() }

// ReaderFunc adapts a plain function to the Reader interface.
type ReaderFunc func() error

func (f ReaderFunc) Read() error { return f() }

// WriterFunc adapts a plain function to the Writer interface.
type WriterFunc func(ds *DataSet, vl *ValueList) error

func (f WriterFunc) Write(ds *DataSet, vl *ValueList) error { return f(ds, vl) }

// ShutdownerFunc adapts a plain function to the Shutdowner interface.
type ShutdownerFunc func() error

func (f ShutdownerFunc) Shutdown() error { return f() }
