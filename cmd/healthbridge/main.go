// cmd/healthbridge/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tamzrod/health-bridge/internal/api"
	"github.com/tamzrod/health-bridge/internal/assembler"
	"github.com/tamzrod/health-bridge/internal/config"
	"github.com/tamzrod/health-bridge/internal/conn"
	"github.com/tamzrod/health-bridge/internal/console"
	"github.com/tamzrod/health-bridge/internal/locator"
	"github.com/tamzrod/health-bridge/internal/sink"
	"github.com/tamzrod/health-bridge/internal/status"
	"github.com/tamzrod/health-bridge/internal/store"
	"github.com/tamzrod/health-bridge/internal/transport"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: healthbridge <config.yaml> [port]")
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	// Optional positional override pins the device path.
	if len(os.Args) > 2 {
		cfg.Bridge.Port = os.Args[2]
	}

	logger, err := config.NewLogger()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Build the pipeline
	// --------------------

	b := cfg.Bridge

	st, err := store.Open(b.Store.Path)
	if err != nil {
		logger.Fatalf("store init failed: %v", err)
	}
	defer func() { _ = st.Close() }()
	if st.LastPatient() > 0 {
		logger.Infof("resuming from patient %d", st.LastPatient())
	}

	tracker := status.NewTracker()

	ts := sink.NewThingspeak(sink.Config{
		URL:       b.Thingspeak.URL,
		WriteKey:  b.Thingspeak.WriteKey,
		ChannelID: b.Thingspeak.ChannelID,
		Timeout:   time.Duration(b.Thingspeak.TimeoutMs) * time.Millisecond,
		Enabled:   *b.Thingspeak.Enabled,
	}, logger)
	tracker.SetUploadEnabled(ts.Enabled())

	asm := assembler.New(st, ts, tracker, logger, st.LastPatient())

	opener := transport.SerialOpener{}

	loc := locator.New(locator.Config{
		Baud:    b.BaudRate,
		Timeout: time.Duration(b.ReadTimeoutMs) * time.Millisecond,
	}, opener, logger)

	mgr := conn.NewManager(conn.Config{
		Pinned:       b.Port,
		Baud:         b.BaudRate,
		ReadTimeout:  time.Duration(b.ReadTimeoutMs) * time.Millisecond,
		PollInterval: time.Duration(b.PollIntervalMs) * time.Millisecond,
		Connect: conn.RetryPolicy{
			Attempts: b.Connect.Attempts,
			Delay:    time.Duration(b.Connect.RetryDelayMs) * time.Millisecond,
		},
		Reconnect: conn.RetryPolicy{
			Attempts: b.Connect.ReconnectLimit,
			Delay:    time.Duration(b.Connect.BackoffMs) * time.Millisecond,
		},
	}, opener, loc, tracker, logger)

	if _, err := mgr.Connect(ctx); err != nil {
		logger.Errorf("connect failed: %v", err)
		logger.Info("check that the device is plugged in and no other serial application holds the port")
		return
	}

	// --------------------
	// Run
	// --------------------

	if b.API.Addr != "" {
		srv := api.NewServer(b.API.Addr, tracker, logger)
		go func() {
			if err := srv.Run(ctx); err != nil {
				logger.Errorf("status api failed: %v", err)
			}
		}()
	}

	ctrl := &controller{mgr: mgr, sink: ts, tracker: tracker}
	cons := console.New(os.Stdin, os.Stdout, ctrl, logger)
	go cons.Run(ctx, stop)

	mgr.Run(ctx, asm.HandleLine, asm.ResetCounter)
}

// controller adapts the running components to the console contract.
type controller struct {
	mgr     *conn.Manager
	sink    *sink.Thingspeak
	tracker *status.Tracker
}

func (c *controller) RequestReconnect() { c.mgr.Request(conn.CommandReconnect) }
func (c *controller) RequestReset()     { c.mgr.Request(conn.CommandReset) }

func (c *controller) Snapshot() status.Snapshot { return c.tracker.Get() }

func (c *controller) ToggleUpload() bool {
	on := !c.sink.Enabled()
	c.sink.SetEnabled(on)
	c.tracker.SetUploadEnabled(on)
	return on
}
