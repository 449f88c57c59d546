package main

import (
	"fmt"
	"os"
	"time"

	quantcast "github.com/Tap30/quantcast-go"
	"github.com/Tap30/quantcast-go/adapters"
	"github.com/Tap30/quantcast-go/internal/config"
	"github.com/Tap30/quantcast-go/internal/logger"
	"github.com/Tap30/quantcast-go/measurement"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "quantcast-demo:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	base, log := logger.New(cfg.LogLevel)
	defer base.Sync()

	storage, closeStorage, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	client, err := measurement.NewClient(measurement.Config{
		Endpoint:       cfg.Endpoint,
		APIKeyHeader:   cfg.APIKeyHeader,
		FlushInterval:  cfg.FlushInterval,
		MaxBatchSize:   cfg.MaxBatchSize,
		MaxRetries:     cfg.MaxRetries,
		HTTPAdapter:    adapters.NewRestyHTTPAdapter(cfg.HTTPTimeout),
		StorageAdapter: storage,
		LoggerAdapter:  log,
	})
	if err != nil {
		return fmt.Errorf("create measurement client: %w", err)
	}
	defer func() {
		if err := client.Dispose(); err != nil {
			log.Error("Dispose failed: %v", err)
		}
	}()

	destination, err := quantcast.NewDestination(quantcast.DestinationConfig{
		Vendor: client,
		Application: &quantcast.Application{
			Name:        cfg.AppName,
			Version:     cfg.AppVersion,
			PackageName: cfg.AppPackageName,
		},
		LoggerAdapter: log,
	})
	if err != nil {
		return err
	}

	blob, err := os.ReadFile(cfg.SettingsFile)
	if err != nil {
		return fmt.Errorf("read settings file: %w", err)
	}
	settings, err := quantcast.ParseHostSettings(blob)
	if err != nil {
		return err
	}
	if err := destination.Update(settings, quantcast.UpdateTypeInitial); err != nil {
		return err
	}
	if _, ok := destination.Settings(); !ok {
		log.Warn("%s has no %s settings, events will not be measured", cfg.SettingsFile, quantcast.Key)
	}

	replaySession(destination)
	log.Info("Session replayed, session id %s", client.SessionID())
	return nil
}

func openStorage(cfg *config.Config) (adapters.StorageAdapter, func() error, error) {
	switch cfg.StorageType {
	case "bbolt":
		store, err := adapters.OpenBoltStorageAdapter(cfg.StoragePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "noop":
		store := adapters.NewNoOpStorageAdapter()
		return store, store.Close, nil
	default:
		return adapters.NewFileStorageAdapter(cfg.StoragePath), func() error { return nil }, nil
	}
}

// replaySession drives the destination through a short app session.
func replaySession(d *quantcast.Destination) {
	now := time.Now()
	home := &quantcast.Activity{Name: "Home"}

	d.OnActivityCreated(home, nil)
	d.OnActivityStarted(home)
	d.Execute(&quantcast.IdentifyEvent{
		EventBase: quantcast.EventBase{Timestamp: now},
		UserID:    "User-Id-123",
	})
	d.Execute(&quantcast.ScreenEvent{
		EventBase: quantcast.EventBase{Timestamp: now},
		Name:      "Home",
		Category:  "Main",
	})
	d.Execute(&quantcast.TrackEvent{
		EventBase: quantcast.EventBase{Timestamp: now},
		Event:     "Order Completed",
	})
	d.OnActivityStopped(home)
}
