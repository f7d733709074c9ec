package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/nording/hrvctl/internal/config"
	"codeberg.org/nording/hrvctl/internal/hrv"
	"codeberg.org/nording/hrvctl/internal/logger"
	"codeberg.org/nording/hrvctl/internal/model"
	"codeberg.org/nording/hrvctl/internal/publisher"
	"codeberg.org/nording/hrvctl/internal/recorder"
	"codeberg.org/nording/hrvctl/internal/sensor"
	"codeberg.org/nording/hrvctl/internal/session"
	"codeberg.org/nording/hrvctl/internal/supervisor"
	"codeberg.org/nording/hrvctl/internal/ui"
)

const shutdownTimeout = 10 * time.Second

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	logger.Debug().Msg("Config loaded")
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}
}

func run(ctx context.Context) error {
	m := model.New(
		float64(cfg.Sensor.IBIHistory),
		float64(cfg.Sensor.HRVHistory),
	)

	processor := hrv.NewProcessor(m, float64(cfg.Sensor.HRVWindow))
	pacer := hrv.NewPacer(m, time.Duration(cfg.Pacer.Interval)*time.Millisecond)
	rec := recorder.New(m, cfg.Recorder.Directory, cfg.Recorder.Overwrite)

	transport := sensorTransport()
	client := sensor.New(transport, m, processor.PushIBI,
		time.Duration(cfg.Sensor.ScanTimeout)*time.Second)

	comp := supervisor.Components{
		Model:     m,
		Sensor:    client,
		Processor: processor,
		Pacer:     pacer,
		Recorder:  rec,
	}

	if cfg.Publisher.Enabled {
		if pub := buildPublisher(m); pub != nil {
			comp.Publisher = pub
		}
	}

	if cfg.Session.Enabled {
		collector, err := session.NewService(session.Config{
			Enabled: true,
			DBPath:  cfg.Session.DBPath,
			Period:  time.Duration(cfg.Session.Period) * time.Second,
		})
		if err != nil {
			logger.Error().Err(err).Msg("session persistence unavailable, continuing without it")
		} else {
			comp.Snapshotter = session.NewSnapshotter(m, collector,
				time.Duration(cfg.Session.Period)*time.Second)
		}
	}

	sup := supervisor.New(comp)

	if cfg.UI.Enabled {
		hub := ui.NewHub(m, sup)
		sup.AttachUI(ui.NewServer(hub, cfg.UI.Listen))
	}

	if cfg.Monitor {
		go monitor(ctx, m)
	}

	if err := sup.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := sup.Stop(stopCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown incomplete")
	}
	logger.Info().Msg("Exiting...")

	return nil
}

func sensorTransport() sensor.Transport {
	if cfg.Simulated {
		logger.Info().Msg("Using simulated sensor transport")
		return sensor.NewSimTransport()
	}

	// Hardware transports register themselves per platform; the
	// simulated transport is the portable fallback.
	logger.Warn().Msg("No hardware transport available on this build, using simulation")

	return sensor.NewSimTransport()
}

// buildPublisher returns nil when the transport cannot be initialized.
// Publishing is best effort; a dead broker never blocks acquisition.
func buildPublisher(m *model.Model) *publisher.Publisher {
	var (
		transport publisher.Transport
		err       error
	)

	switch cfg.Publisher.Transport {
	case "mqtt":
		transport, err = publisher.NewMQTTTransport(
			cfg.Publisher.Address, cfg.Publisher.ClientID, cfg.Publisher.Password)
	default:
		transport = publisher.NewRedisTransport(
			cfg.Publisher.Address, cfg.Publisher.Password, cfg.Publisher.DB)
	}

	if err != nil {
		logger.Warn().Err(err).Msg("publish transport unavailable, continuing without publishing")
		return nil
	}

	return publisher.New(m, transport, cfg.Publisher.Channel)
}

// monitor logs every model update without driving any sink.
func monitor(ctx context.Context, m *model.Model) {
	sub := m.Bus().Subscribe(0)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-sub.C:
			if !ok {
				return
			}
			logger.Info().
				Str("field", string(u.Field)).
				Str("value", u.Value.Reduce().Text()).
				Msg("model update")
		}
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
