package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

func main() {
	cfg := parseFlags()
	if cfg.Count <= 0 {
		log.Fatal("count must be positive")
	}

	if !cfg.Verbose {
		log.SetOutput(io.Discard)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fleet := GenerateFleet(FleetConfig{
		Size:      cfg.Count,
		OriginLat: cfg.OriginLat,
		OriginLon: cfg.OriginLon,
		Interval:  cfg.Interval,
		SpeedKMH:  cfg.SpeedKMH,
		Broker:    cfg.Broker,
	})

	var wg sync.WaitGroup
	for _, v := range fleet {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := v.Run(ctx); err != nil {
				log.Printf("%s: %v", v.ID, err)
			}
		}()
	}
	wg.Wait()
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.Broker, "broker", "tcp://localhost:1883", "MQTT broker URL")
	flag.IntVar(&cfg.Count, "count", 5, "number of simulated vehicles")
	flag.DurationVar(&cfg.Interval, "interval", 5*time.Second, "location report interval")
	flag.Float64Var(&cfg.OriginLat, "lat", 12.9716, "origin latitude")
	flag.Float64Var(&cfg.OriginLon, "lon", 77.5946, "origin longitude")
	flag.Float64Var(&cfg.SpeedKMH, "speed", 30, "vehicle speed in km/h")
	flag.BoolVar(&cfg.Verbose, "v", false, "verbose logging")
	flag.Parse()
	return cfg
}
