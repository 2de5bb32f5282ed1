package relay

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Nitro/sidecar-executor/loghooks"
	"github.com/Shimmur/loggen/reporter"
	limiter "github.com/sethvargo/go-limiter"
	"github.com/sethvargo/go-limiter/memorystore"
	log "github.com/sirupsen/logrus"
)

// markerWindow is how far into a line we look for the level marker. The
// timestamp prefix plus "[ERROR]" fits comfortably.
const markerWindow = 40

// A LogOutput receives every line a worker writes. Each worker owns its own.
type LogOutput interface {
	Log(line string)
	Stop()
}

// UDPRelay ships each line to a syslog receiver as a JSON payload.
type UDPRelay struct {
	entry *log.Entry
}

// NewUDPRelay tags every payload with labels plus the Hostname, unless the
// labels already carry one.
func NewUDPRelay(address string, labels map[string]string) (*UDPRelay, error) {
	hook, err := loghooks.NewUDPHook(address)
	if err != nil {
		return nil, fmt.Errorf("unable to relay to %s: %w", address, err)
	}

	logger := log.New()
	logger.SetOutput(io.Discard)
	logger.Hooks.Add(hook)
	logger.SetFormatter(&log.JSONFormatter{
		FieldMap: log.FieldMap{
			log.FieldKeyTime:  "Timestamp",
			log.FieldKeyLevel: "Level",
			log.FieldKeyMsg:   "Payload",
			log.FieldKeyFunc:  "Func",
		},
	})

	fields := log.Fields{}
	if hostname, err := os.Hostname(); err == nil {
		fields["Hostname"] = hostname
	}
	for k, v := range labels {
		fields[k] = v
	}

	return &UDPRelay{entry: logger.WithFields(fields)}, nil
}

func (r *UDPRelay) Log(line string) {
	r.entry.Log(levelOf(line), line)
}

// Stop is a noop; the hook holds no resources worth releasing
func (r *UDPRelay) Stop() {}

// levelOf maps the [ERROR] or [WARN] marker at the head of a generated line
// onto a logrus level. Anything else is info.
func levelOf(line string) log.Level {
	head := line
	if len(head) > markerWindow {
		head = head[:markerWindow]
	}

	if strings.Contains(head, "[ERROR]") {
		return log.ErrorLevel
	}
	if strings.Contains(head, "[WARN]") {
		return log.WarnLevel
	}
	return log.InfoLevel
}

// A Throttle passes at most a fixed number of lines per interval on to the
// next LogOutput. Lines over the limit are dropped and counted.
type Throttle struct {
	next    LogOutput
	store   limiter.Store
	key     string
	drops   *reporter.EventReporter
	dropped atomic.Uint64
}

// NewThrottle allows tokens lines per interval under key. drops may be nil.
func NewThrottle(next LogOutput, key string, tokens uint64, interval time.Duration,
	drops *reporter.EventReporter) (*Throttle, error) {

	store, err := memorystore.New(&memorystore.Config{
		Tokens:   tokens,
		Interval: interval,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create rate limit store for %s: %w", key, err)
	}

	return &Throttle{next: next, store: store, key: key, drops: drops}, nil
}

// allow takes a token. When the store can't answer, the line is dropped.
func (t *Throttle) allow() bool {
	_, remaining, _, ok, err := t.store.Take(context.Background(), t.key)
	if err != nil {
		log.Debugf("Rate limit lookup failed for %s: %s", t.key, err)
		return false
	}
	if !ok {
		log.Debugf("Throttling %s, %d tokens left", t.key, remaining)
	}
	return ok
}

func (t *Throttle) Log(line string) {
	if t.allow() {
		t.next.Log(line)
		return
	}

	t.dropped.Add(1)
	if t.drops != nil {
		t.drops.Incr()
	}
}

// Dropped is the number of lines this Throttle has refused
func (t *Throttle) Dropped() uint64 { return t.dropped.Load() }

func (t *Throttle) Stop() {
	if err := t.store.Close(context.Background()); err != nil {
		log.Debugf("Closing rate limit store for %s: %s", t.key, err)
	}
	t.next.Stop()
}
