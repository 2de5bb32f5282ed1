package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	loghttp "github.com/motemen/go-loghttp"
	director "github.com/relistan/go-director"
	log "github.com/sirupsen/logrus"
)

const DefaultInterval = 1 * time.Minute

// Config says where events go. An empty BaseURL disables posting; counting
// still works.
type Config struct {
	BaseURL   string
	InsertKey string
	AccountID string
	Interval  time.Duration
}

// Event is the body posted to the events API
type Event struct {
	Time      string
	Hostname  string
	Count     uint64
	EventType string `json:"eventType"`
}

// An EventReporter counts one kind of event, like a failed worker or a relayed
// line dropped by the rate limiter, and posts the count to an Insights-style
// events API on every tick of its ReportLooper.
type EventReporter struct {
	Config
	EventType    string
	ReportLooper director.Looper

	client   *http.Client
	hostname string
	count    atomic.Uint64
}

func NewEventReporter(cfg Config, eventType string) *EventReporter {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	hostname, err := os.Hostname()
	if err != nil {
		log.Warnf("Unable to determine hostname: %s", err)
		hostname = "unknown"
	}

	return &EventReporter{
		Config:       cfg,
		EventType:    eventType,
		ReportLooper: director.NewTimedLooper(director.FOREVER, cfg.Interval, make(chan error)),
		client:       newClient(),
		hostname:     hostname,
	}
}

// newClient logs every request and response at debug level
func newClient() *http.Client {
	client := cleanhttp.DefaultClient()
	client.Transport = &loghttp.Transport{
		Transport: cleanhttp.DefaultTransport(),
		LogRequest: func(req *http.Request) {
			log.Debugf("--> %s %s", req.Method, req.URL)
		},
		LogResponse: func(resp *http.Response) {
			log.Debugf("<-- %d %s", resp.StatusCode, resp.Request.URL)
		},
	}
	return client
}

func (r *EventReporter) Incr() { r.count.Add(1) }

// Count is the number of events not yet posted
func (r *EventReporter) Count() uint64 { return r.count.Load() }

// Enabled is false when there is nowhere to post to
func (r *EventReporter) Enabled() bool { return r.BaseURL != "" }

// Run posts from a background goroutine on every looper tick. Errors are
// logged and never stop the looper.
func (r *EventReporter) Run() {
	log.Infof("Reporting %s events for account '%s' every %s", r.EventType, r.AccountID, r.Interval)

	go r.ReportLooper.Loop(func() error {
		if err := r.Flush(); err != nil {
			log.Errorf("Error reporting %s events: %s", r.EventType, err)
		}
		return nil
	})
}

// Flush posts everything counted so far. A failed post puts the count back so
// the next flush retries it.
func (r *EventReporter) Flush() error {
	count := r.count.Swap(0)
	if count == 0 {
		return nil
	}

	err := r.post(Event{
		Time:      time.Now().UTC().Format(time.RFC3339),
		Hostname:  r.hostname,
		Count:     count,
		EventType: r.EventType,
	})
	if err != nil {
		r.count.Add(count)
	}

	return err
}

func (r *EventReporter) post(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("unable to encode JSON event: %w", err)
	}

	url := fmt.Sprintf("%s/%s/events", r.BaseURL, r.AccountID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("unable to create http request: %w", err)
	}
	req.Header.Set("X-Insert-Key", r.InsertKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed making HTTP request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bad response from events API (%d): %s", resp.StatusCode, string(body))
	}

	return nil
}
