package main

import (
	"fmt"
	"io"
	"os"

	"devicecall/internal/function"
	"devicecall/internal/logger"
	"devicecall/internal/modules"
	"devicecall/internal/output"
	"devicecall/internal/publisher"
	"devicecall/internal/testutils"
)

// app is a function with the shipped modules registered and, when an
// events destination is configured, a publisher receiving its records.
type app struct {
	fn        *function.Function
	device    *modules.Device
	publisher *publisher.Publisher
	printer   *output.Printer

	closeEvents func() error
}

func newApp(opts *options, stdout io.Writer) (*app, error) {
	fn := function.New(opts.cfg.FunctionOptions())
	fn.SetClock(testutils.Clock(opts.testMode))

	device := modules.NewDevice()
	if err := device.Register(fn); err != nil {
		// rejected commands are logged by the registry, the rest still work
		logger.Warn("some device commands were not registered", "error", err)
	}
	if err := fn.Setup(); err != nil {
		return nil, err
	}

	a := &app{
		fn:          fn,
		device:      device,
		printer:     newPrinter(opts, stdout),
		closeEvents: func() error { return nil },
	}

	events, closeEvents, err := openEvents(opts.eventsFile, stdout)
	if err != nil {
		return nil, err
	}
	if events != nil {
		deviceID := testutils.GenerateUUID(opts.testMode)
		a.publisher = publisher.New(opts.cfg.PublisherConfig(deviceID), publisher.NewWriterTransport(events))
		a.publisher.SetClock(testutils.Clock(opts.testMode))
		a.closeEvents = closeEvents
		fn.SetSink(a.publisher)
	}
	return a, nil
}

func newPrinter(opts *options, stdout io.Writer) *output.Printer {
	printerOpts := []output.Option{
		output.WithWriter(stdout),
		output.WithStyles(output.NewThemeStyleProvider()),
	}
	if opts.testMode {
		printerOpts = append(printerOpts, output.TestMode())
	}
	if opts.jsonOutput {
		printerOpts = append(printerOpts, output.JSON())
	}
	return output.NewPrinter(printerOpts...)
}

// openEvents opens the destination of published bursts. An empty path
// disables publishing.
func openEvents(path string, stdout io.Writer) (io.Writer, func() error, error) {
	switch path {
	case "":
		return nil, nil, nil
	case "-":
		return stdout, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open events file %s: %w", path, err)
	}
	return f, f.Close, nil
}

// close publishes the pending records and releases the events file.
func (a *app) close() error {
	if a.publisher != nil {
		if err := a.publisher.Flush(); err != nil {
			logger.Error("failed to publish pending calls", "error", err)
		}
	}
	return a.closeEvents()
}
