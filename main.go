package main

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/Shimmur/loggen/audit"
	"github.com/Shimmur/loggen/content"
	"github.com/Shimmur/loggen/generator"
	"github.com/Shimmur/loggen/relay"
	"github.com/Shimmur/loggen/reporter"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/relistan/rubberneck"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Environment   string `envconfig:"ENVIRONMENT" default:"dev"`
	ListenAddr    string `envconfig:"LISTEN_ADDR" default:":3000"`
	OutputDir     string `envconfig:"OUTPUT_DIR" default:"logs"`
	MaxServices   int    `envconfig:"MAX_SERVICES" default:"1000"`
	BufferSize    int    `envconfig:"BUFFER_SIZE" default:"65536"`
	FlushInterval uint64 `envconfig:"FLUSH_INTERVAL" default:"262144"`

	AuditCachePath string `envconfig:"AUDIT_CACHE_PATH" default:""`

	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile          string `envconfig:"LOG_FILE" default:""`
	LogFileMaxSizeMB int    `envconfig:"LOG_FILE_MAX_SIZE_MB" default:"100"`

	RelayAddress    string        `envconfig:"RELAY_ADDRESS" default:""`
	RelayTokenLimit int           `envconfig:"RELAY_TOKEN_LIMIT" default:"1000"`
	RelayInterval   time.Duration `envconfig:"RELAY_INTERVAL" default:"1s"`

	ReportURL       string        `envconfig:"REPORT_URL" default:""`
	ReportInsertKey string        `envconfig:"REPORT_INSERT_KEY" default:""`
	ReportAccountID string        `envconfig:"REPORT_ACCOUNT_ID" default:""`
	ReportInterval  time.Duration `envconfig:"REPORT_INTERVAL" default:"1m"`
}

// configureLogging sets the level and, when LogFile is set, tees our own logs
// into a size-capped file next to stderr.
func configureLogging(config *Config) error {
	level, err := log.ParseLevel(config.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	if config.LogFile == "" {
		return nil
	}

	log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   config.LogFile,
		MaxSize:    config.LogFileMaxSizeMB,
		MaxBackups: 3,
	}))

	return nil
}

// newReporter builds an EventReporter for eventType. It only posts when
// there is somewhere to post to.
func newReporter(config *Config, eventType string) *reporter.EventReporter {
	rptr := reporter.NewEventReporter(reporter.Config{
		BaseURL:   config.ReportURL,
		InsertKey: config.ReportInsertKey,
		AccountID: config.ReportAccountID,
		Interval:  config.ReportInterval,
	}, eventType)

	if rptr.Enabled() {
		rptr.Run()
	}

	return rptr
}

// newEngine wires the generator to its content, error reporting, and the
// optional relay.
func newEngine(config *Config) *generator.Engine {
	engine := generator.NewEngine(content.NewGenerator())
	engine.MaxServices = config.MaxServices
	engine.BufferSize = config.BufferSize
	engine.FlushInterval = config.FlushInterval
	engine.Sink = generator.NewReportingSink(newReporter(config, "LoggenWorkerFailed"))

	relayConfig := relay.Config{
		Address:     config.RelayAddress,
		Environment: config.Environment,
		TokenLimit:  config.RelayTokenLimit,
		Interval:    config.RelayInterval,
	}

	if relayConfig.Enabled() {
		limitReporter := newReporter(config, "LoggenRelayRateLimited")
		engine.NewOutput = func(service string) relay.LogOutput {
			return relayConfig.NewOutput(limitReporter, service)
		}
		log.Infof("Relaying generated lines to %s", relayConfig.Address)
	}

	return engine
}

func main() {
	var config Config
	err := envconfig.Process("loggen", &config)
	if err != nil {
		log.Fatal(err.Error())
	}
	rubberneck.Print(config)

	err = configureLogging(&config)
	if err != nil {
		log.Fatalf("Unable to configure logging: %s", err)
	}

	engine := newEngine(&config)

	registry := prometheus.NewRegistry()
	registry.MustRegister(generator.NewCollector(engine))

	auditCache := audit.NewLineCache(config.AuditCachePath)
	err = auditCache.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("Starting with an empty audit cache: %s", err)
	}

	server := &Server{
		Engine:      engine,
		Auditor:     audit.NewCachingAuditor(audit.NewDirListDiscoverer(config.OutputDir), auditCache),
		OutputDir:   config.OutputDir,
		MaxServices: config.MaxServices,
		Gatherer:    registry,
	}

	log.Infof("Log generator listening on %s", config.ListenAddr)
	err = http.ListenAndServe(config.ListenAddr, server.Handler())
	if err != nil {
		log.Fatal(err.Error())
	}
}
