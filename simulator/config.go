package main

import (
	"flag"
	"fmt"
	"time"
)

// Config holds parameters for the fleet simulator.
type Config struct {
	Addr         string
	Broker       string
	Count        int
	Seed         int64
	TickInterval time.Duration
	FailureCode  string
	FailEvery    int
	Verbose      bool
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.Addr, "addr", ":8099", "listen address of the simulated authority API")
	flag.StringVar(&cfg.Broker, "broker", "", "MQTT broker for status pushes (empty disables)")
	flag.IntVar(&cfg.Count, "count", 20, "number of simulated vehicles")
	flag.Int64Var(&cfg.Seed, "seed", 0, "random seed (0 uses current time)")
	flag.DurationVar(&cfg.TickInterval, "tick", 5*time.Second, "interval between fleet ticks")
	flag.StringVar(&cfg.FailureCode, "failure-code", "insufficient_balance", "error code returned for injected failures")
	flag.IntVar(&cfg.FailEvery, "fail-every", 0, "reject every n-th reservation (0 disables)")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "log every request")
	flag.Parse()
	return cfg
}

// Validate checks the flag combination.
func (c *Config) Validate() error {
	if c.Count <= 0 {
		return fmt.Errorf("count must be positive")
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive")
	}
	if c.FailEvery < 0 {
		return fmt.Errorf("fail-every must not be negative")
	}
	return nil
}
