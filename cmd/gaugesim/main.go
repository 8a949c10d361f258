// Command gaugesim emulates the sensor side of a serial gauge
// display: it opens the first serial port it finds, pushes the bench
// gauge configuration, and answers the display's newline-delimited
// JSON requests with simulated readings. Defaults match the display
// firmware (115200 baud, 1 s read timeout, DTR asserted); no flags
// are required for a bench run.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/banshee-data/gaugesim/internal/gauges"
	"github.com/banshee-data/gaugesim/internal/serialport"
	"github.com/banshee-data/gaugesim/internal/session"
)

var (
	devMode  = flag.Bool("dev", false, "Run against a loopback port instead of real hardware")
	portPath = flag.String("port", "", "Serial port path (default: first enumerated port)")
	baudRate = flag.Int("baud", 115200, "Serial baud rate")
)

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := &session.Runner{
		Source:  portSource(),
		Backoff: serialport.DefaultBackoff(),
		Handler: gauges.NewHandler(nil),
	}

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("simulator stopped: %v", err)
	}
	log.Print("shutdown complete")
}

// devSource yields a fresh loopback port per session.
type devSource struct{}

func (devSource) Acquire() (serialport.Porter, error) {
	return serialport.NewDevPort(), nil
}

func portSource() session.PortSource {
	if *devMode {
		log.Print("dev mode: using loopback port")
		return devSource{}
	}

	opts := serialport.DefaultOptions()
	opts.BaudRate = *baudRate
	return serialport.NewManager(*portPath, opts)
}
