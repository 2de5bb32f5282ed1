package generator

import (
	"bytes"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Shimmur/loggen/relay"
	log "github.com/sirupsen/logrus"
)

// LogCapture logs for async testing where we can't get a nice handle on things
func LogCapture(fn func()) string {
	capture := &bytes.Buffer{}
	log.SetOutput(capture)
	fn()
	log.SetOutput(os.Stdout)

	return capture.String()
}

// fixedProvider hands out the same line every time. Size is the line length
// without the terminator.
type fixedProvider struct {
	Size int
}

func (p *fixedProvider) Line(rng *rand.Rand, service string) string {
	return strings.Repeat("x", p.Size)
}

// mockSink records every worker failure
type mockSink struct {
	lock   sync.Mutex
	Failed map[string]error
}

func newMockSink() *mockSink {
	return &mockSink{Failed: make(map[string]error)}
}

func (s *mockSink) WorkerFailed(service string, err error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Failed[service] = err
}

func (s *mockSink) Count() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Failed)
}

// mockOutput counts relayed lines
type mockOutput struct {
	Lines         atomic.Int64
	StopWasCalled atomic.Bool
}

func (o *mockOutput) Log(line string) { o.Lines.Add(1) }
func (o *mockOutput) Stop()           { o.StopWasCalled.Store(true) }

// mockOutputs hands a fresh mockOutput to each service and remembers it
type mockOutputs struct {
	lock    sync.Mutex
	Outputs map[string]*mockOutput
}

func newMockOutputs() *mockOutputs {
	return &mockOutputs{Outputs: make(map[string]*mockOutput)}
}

func (m *mockOutputs) NewOutput(service string) relay.LogOutput {
	m.lock.Lock()
	defer m.lock.Unlock()

	output := &mockOutput{}
	m.Outputs[service] = output
	return output
}
