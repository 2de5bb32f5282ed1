package relay

import (
	"time"

	"github.com/Shimmur/loggen/reporter"
	log "github.com/sirupsen/logrus"
)

// Config describes where relayed lines go and how many may go per interval.
type Config struct {
	Address     string
	Environment string
	TokenLimit  int
	Interval    time.Duration
}

// Enabled is false when there is nowhere to relay to.
func (c Config) Enabled() bool { return c.Address != "" }

// NewOutput builds the relay for one service, throttled when TokenLimit is
// set. Lines dropped by the throttle are counted on drops. A relay that can't
// be built is logged and nil is returned, so the service generates without
// one.
func (c Config) NewOutput(drops *reporter.EventReporter, service string) LogOutput {
	udp, err := NewUDPRelay(c.Address, map[string]string{
		"ServiceName": service,
		"Environment": c.Environment,
	})
	if err != nil {
		log.Warnf("Not relaying %s: %s", service, err)
		return nil
	}

	if c.TokenLimit < 1 {
		return udp
	}

	throttle, err := NewThrottle(udp, service, uint64(c.TokenLimit), c.Interval, drops)
	if err != nil {
		log.Warnf("Relaying %s without a rate limit: %s", service, err)
		return udp
	}

	return throttle
}
