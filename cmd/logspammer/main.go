package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/Shimmur/loggen/content"
	"github.com/jacobsa/timeutil"
	director "github.com/relistan/go-director"
	log "github.com/sirupsen/logrus"
)

var (
	logRate   = flag.Int("rate", 1000, "Log lines per second to generate")
	service   = flag.String("service", "auth-service", "Service name to stamp on each line")
	maxLines  = flag.Int("lines", 0, "Stop after this many lines, 0 for never")
	useStderr = flag.Bool("stderr", false, "Write to stderr instead of stdout")
)

var errLineLimit = errors.New("line limit reached")

// A Spammer writes generated lines for one service to an io.Writer, one per
// looper iteration, printing stats to Stats once per Rate lines.
type Spammer struct {
	Output   io.Writer
	Stats    io.Writer
	Provider content.Provider
	Service  string
	Rate     int
	MaxLines int

	rng     *rand.Rand
	clock   timeutil.Clock
	count   int
	started time.Time
}

func NewSpammer(output io.Writer, provider content.Provider, service string, rate int) *Spammer {
	clock := timeutil.RealClock()
	return &Spammer{
		Output:   output,
		Stats:    os.Stderr,
		Provider: provider,
		Service:  service,
		Rate:     rate,
		rng:      rand.New(rand.NewPCG(uint64(clock.Now().UnixNano()), 0)),
		clock:    clock,
	}
}

// Run drives the looper until it's stopped or MaxLines is hit.
func (s *Spammer) Run(looper director.Looper) error {
	s.started = s.clock.Now()

	looper.Loop(s.step)
	err := looper.Wait()
	if errors.Is(err, errLineLimit) {
		return nil
	}
	return err
}

func (s *Spammer) step() error {
	if s.MaxLines > 0 && s.count >= s.MaxLines {
		return errLineLimit
	}

	_, err := fmt.Fprintln(s.Output, s.Provider.Line(s.rng, s.Service))
	if err != nil {
		return fmt.Errorf("failed to write line: %w", err)
	}
	s.count++

	if s.Rate > 0 && s.count%s.Rate == 0 {
		elapsed := s.clock.Now().Sub(s.started)
		fmt.Fprintf(s.Stats, "Stats: Generated %d logs in %.2fs (%.2f logs/sec)\n",
			s.count, elapsed.Seconds(), float64(s.count)/elapsed.Seconds())
	}

	return nil
}

// tickInterval is the looper interval for a rate in lines per second. Rates
// above one line per nanosecond would round the interval down to zero.
func tickInterval(rate int) (time.Duration, error) {
	if rate < 1 || int64(rate) > int64(time.Second) {
		return 0, fmt.Errorf("rate must be between 1 and %d", int64(time.Second))
	}
	return time.Second / time.Duration(rate), nil
}

func main() {
	flag.Parse()

	interval, err := tickInterval(*logRate)
	if err != nil {
		log.Fatal(err.Error())
	}

	output := os.Stdout
	if *useStderr {
		output = os.Stderr
	}

	spammer := NewSpammer(output, content.NewGenerator(), *service, *logRate)
	spammer.MaxLines = *maxLines

	looper := director.NewTimedLooper(director.FOREVER, interval, make(chan error, 1))

	err = spammer.Run(looper)
	if err != nil {
		log.Fatal(err.Error())
	}
}
