package logs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/op/go-logging.v1"
)

const (
	ClientModule  = "mcp_client"
	PayloadModule = "mcp_payloads"

	ClientLogFile  = "mcp_client.log"
	PayloadLogFile = "mcp_payloads.log"
)

var (
	detailedFormat = logging.MustStringFormatter(`%{time:2006-01-02 15:04:05.000} - %{module} - %{level} - %{message}`)
	consoleFormat  = logging.MustStringFormatter(`%{level}: %{message}`)
)

// Loggers bundles the client logger and the payload logger.
//
// Client writes everything from DEBUG to the client log file and only
// warnings and errors to the console. Payloads only goes to its own file.
type Loggers struct {
	Client   *logging.Logger
	Payloads *logging.Logger
	closers  []io.Closer
}

// Setup opens (or creates) the log files in dir and wires both loggers.
func Setup(dir string, console io.Writer) (*Loggers, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	clientFile, err := openLogFile(filepath.Join(dir, ClientLogFile))
	if err != nil {
		return nil, err
	}
	payloadFile, err := openLogFile(filepath.Join(dir, PayloadLogFile))
	if err != nil {
		_ = clientFile.Close()
		return nil, err
	}

	l := New(clientFile, console, payloadFile)
	l.closers = []io.Closer{clientFile, payloadFile}
	return l, nil
}

// New wires the loggers onto arbitrary writers. A nil writer discards.
func New(clientOut, consoleOut, payloadOut io.Writer) *Loggers {
	client := logging.MustGetLogger(ClientModule)
	client.SetBackend(logging.MultiLogger(
		sink(clientOut, detailedFormat, logging.DEBUG),
		sink(consoleOut, consoleFormat, logging.WARNING),
	))

	payloads := logging.MustGetLogger(PayloadModule)
	payloads.SetBackend(sink(payloadOut, detailedFormat, logging.INFO))

	return &Loggers{
		Client:   client,
		Payloads: payloads,
	}
}

// Nop returns loggers that drop every record.
func Nop() *Loggers {
	return New(nil, nil, nil)
}

func (l *Loggers) Close() error {
	var errs []error
	for _, c := range l.closers {
		errs = append(errs, c.Close())
	}
	l.closers = nil
	return errors.Join(errs...)
}

func sink(w io.Writer, format logging.Formatter, level logging.Level) logging.LeveledBackend {
	if w == nil {
		w = io.Discard
	}
	backend := logging.AddModuleLevel(logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), format))
	backend.SetLevel(level, "")
	return backend
}

func openLogFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	return f, nil
}
