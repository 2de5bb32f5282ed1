package content

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"github.com/jacobsa/timeutil"
)

// A Provider hands out one opaque log line at a time for a service.
type Provider interface {
	Line(rng *rand.Rand, service string) string
}

type Level int

const (
	Info Level = iota
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "INFO"
	}
}

// RandomLevel draws a level weighted INFO=500, WARN=10, ERROR=3.
func RandomLevel(rng *rand.Rand) Level {
	n := rng.IntN(513)
	switch {
	case n <= 2:
		return Error
	case n <= 12:
		return Warn
	default:
		return Info
	}
}

// Generator produces enterprise-looking application log lines:
//
//	2024-03-09T14:05:07.123Z [INFO] [auth-service] [trace_id=...] [span_id=...] [thread=worker-7] Template | key=value ...
//
// Error lines sometimes carry a Java-style stack trace on following lines.
type Generator struct {
	Clock timeutil.Clock
}

func NewGenerator() *Generator {
	return &Generator{Clock: timeutil.RealClock()}
}

func (g *Generator) Line(rng *rand.Rand, service string) string {
	return g.Message(rng, RandomLevel(rng), service)
}

// Message builds a line at the given level.
func (g *Generator) Message(rng *rand.Rand, level Level, service string) string {
	traceID := fmt.Sprintf("%08x%08x%08x%08x", rng.Uint32(), rng.Uint32(), rng.Uint32(), rng.Uint32())
	spanID := fmt.Sprintf("%016x", rng.Uint64())
	thread := between(rng, 1, 128)

	var template, detail string
	switch level {
	case Warn:
		template, detail = pick(rng, warnTemplates), warnDetail(rng)
	case Error:
		template, detail = pick(rng, errorTemplates), g.errorDetail(rng)
	default:
		template, detail = pick(rng, infoTemplates), infoDetail(rng)
	}

	return fmt.Sprintf(
		"%s [%s] [%s] [trace_id=%s] [span_id=%s] [thread=worker-%d] %s | %s",
		g.Clock.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		level, service, traceID, spanID, thread, template, detail,
	)
}

func infoDetail(rng *rand.Rand) string {
	switch rng.IntN(10) {
	case 0:
		return fmt.Sprintf(
			"method=%s path=%s status=%d latency_ms=%d client_ip=%s user_agent=\"%s\" response_bytes=%d",
			pick(rng, httpMethods), pick(rng, apiPaths), pickInt(rng, statusOK),
			latency(rng, Info), randomIP(rng), pick(rng, userAgents), between(rng, 50, 50000),
		)
	case 1:
		return fmt.Sprintf(
			"operation=%s table=%s rows_affected=%d query_time_ms=%d data_type=%s connection_pool_active=%d",
			pick(rng, dbOperations), pick(rng, dbTables), rng.IntN(10000),
			latency(rng, Info), pick(rng, adjectives), between(rng, 1, 50),
		)
	case 2:
		return fmt.Sprintf(
			"cache_key=%s hit=%t ttl_seconds=%d size_bytes=%d region=%s",
			pick(rng, cacheKeys), rng.Float64() < 0.8, between(rng, 60, 86400),
			between(rng, 100, 100000), pick(rng, regions),
		)
	case 3:
		return fmt.Sprintf(
			"queue=%s action=publish depth=%d consumer_lag=%d partition=%d message_size_bytes=%d",
			pick(rng, queueNames), rng.IntN(5000), rng.IntN(100), rng.IntN(12), between(rng, 100, 10000),
		)
	case 4:
		return fmt.Sprintf(
			"external_service=\"%s\" method=GET latency_ms=%d status=200 retries=0 circuit_state=CLOSED",
			pick(rng, externalServices), latency(rng, Info),
		)
	case 5:
		return fmt.Sprintf(
			"uptime_seconds=%d cpu_usage=%d%% memory_usage=%d%% gc_pause_ms=%d active_threads=%d open_connections=%d",
			between(rng, 1, 365*24*3600), between(rng, 1, 80), between(rng, 20, 80),
			between(rng, 1, 50), between(rng, 5, 200), between(rng, 1, 100),
		)
	case 6:
		return fmt.Sprintf(
			"user_id=%s action=%s client_ip=%s session_duration_ms=%d auth_provider=%s",
			uuid.New(), pick(rng, authActions), randomIP(rng), rng.IntN(86400000), pick(rng, authProviders),
		)
	case 7:
		return fmt.Sprintf(
			"job_id=%s items_processed=%d duration_ms=%d success_rate=%.2f%% next_run_in_seconds=%d",
			uuid.New(), between(rng, 1, 100000), between(rng, 100, 300000),
			float64(between(rng, 9500, 10000))/100, between(rng, 60, 3600),
		)
	case 8:
		return fmt.Sprintf(
			"feature_flag=%s enabled=%t variant=%s user_segment=%s evaluation_ms=%d",
			pick(rng, featureFlags), rng.Float64() < 0.7, pick(rng, flagVariants),
			pick(rng, userSegments), rng.IntN(5),
		)
	default:
		return fmt.Sprintf(
			"metrics_flushed=%d flush_duration_ms=%d dropped=%d destination=%s batch_size=%d",
			between(rng, 50, 5000), between(rng, 10, 500), rng.IntN(5),
			pick(rng, metricsSinks), between(rng, 100, 1000),
		)
	}
}

func warnDetail(rng *rand.Rand) string {
	switch rng.IntN(8) {
	case 0:
		return fmt.Sprintf(
			"operation=%s table=%s query_time_ms=%d threshold_ms=500 rows_scanned=%d missing_index=true",
			pick(rng, dbOperations), pick(rng, dbTables), latency(rng, Warn), between(rng, 10000, 1000000),
		)
	case 1:
		return fmt.Sprintf(
			"method=%s path=%s status=%d latency_ms=%d client_ip=%s retry_after_seconds=%d",
			pick(rng, httpMethods), pick(rng, apiPaths), pickInt(rng, statusWarn),
			latency(rng, Warn), randomIP(rng), between(rng, 1, 60),
		)
	case 2:
		poolSize := between(rng, 50, 200)
		active := poolSize - between(rng, 1, 5)
		return fmt.Sprintf(
			"pool_size=%d active_connections=%d idle=%d wait_queue=%d max_wait_ms=%d",
			poolSize, active, poolSize-active, between(rng, 5, 50), between(rng, 100, 5000),
		)
	case 3:
		return fmt.Sprintf(
			"external_service=\"%s\" latency_ms=%d expected_max_ms=1000 status=200 degraded=true retry_count=%d",
			pick(rng, externalServices), latency(rng, Warn), between(rng, 1, 3),
		)
	case 4:
		return fmt.Sprintf(
			"queue=%s depth=%d max_depth=10000 consumer_lag_seconds=%d oldest_message_age_seconds=%d",
			pick(rng, queueNames), between(rng, 5000, 9500), between(rng, 30, 300), between(rng, 60, 600),
		)
	case 5:
		return fmt.Sprintf(
			"memory_usage=%d%% threshold=85%% heap_used_mb=%d heap_max_mb=8192 gc_collections=%d gc_time_ms=%d",
			between(rng, 80, 95), between(rng, 3000, 7500), between(rng, 100, 1000), between(rng, 500, 5000),
		)
	case 6:
		return fmt.Sprintf(
			"disk_usage=%d%% partition=/data available_gb=%d inode_usage=%d%% oldest_file_days=%d",
			between(rng, 80, 95), between(rng, 5, 50), between(rng, 60, 90), between(rng, 30, 365),
		)
	default:
		return fmt.Sprintf(
			"client_ip=%s requests_per_minute=%d limit=1000 remaining=%d window_reset_seconds=%d",
			randomIP(rng), between(rng, 800, 999), between(rng, 1, 200), between(rng, 10, 60),
		)
	}
}

func (g *Generator) errorDetail(rng *rand.Rand) string {
	includeStack := rng.Float64() < 0.4

	var detail string
	switch rng.IntN(6) {
	case 0:
		detail = fmt.Sprintf(
			"method=%s path=%s status=%d error_type=%s latency_ms=%d request_id=%s",
			pick(rng, httpMethods), pick(rng, apiPaths), pickInt(rng, statusErr),
			pick(rng, errorTypes), latency(rng, Error), uuid.New(),
		)
	case 1:
		detail = fmt.Sprintf(
			"external_service=\"%s\" error_type=%s retries=3 last_attempt_ms=%d circuit_state=OPEN fallback_used=true",
			pick(rng, externalServices), pick(rng, errorTypes), latency(rng, Error),
		)
	case 2:
		detail = fmt.Sprintf(
			"operation=WRITE table=%s error_type=%s connection_id=%d statement_timeout_ms=%d rollback=true",
			pick(rng, dbTables), pick(rng, errorTypes), between(rng, 1, 1000), latency(rng, Error),
		)
	case 3:
		detail = fmt.Sprintf(
			"queue=%s error_type=%s message_id=%s retry_count=3 dead_lettered=true original_timestamp=%s",
			pick(rng, queueNames), pick(rng, errorTypes), uuid.New(),
			g.Clock.Now().UTC().Format("2006-01-02T15:04:05Z"),
		)
	case 4:
		detail = fmt.Sprintf(
			"error_type=%s user_id=%s client_ip=%s failure_count=%d account_locked=%t",
			pick(rng, errorTypes), uuid.New(), randomIP(rng), between(rng, 3, 10), rng.Float64() < 0.3,
		)
	default:
		detail = fmt.Sprintf(
			"error_type=%s component=%s heap_used_mb=%d available_mb=%d oom_killer_invoked=%t",
			pick(rng, errorTypes), pick(rng, components), between(rng, 7000, 8192),
			rng.IntN(100), rng.Float64() < 0.2,
		)
	}

	if !includeStack {
		return detail
	}

	var stack strings.Builder
	stack.WriteString(detail)
	stack.WriteString("\n  Stacktrace:\n")
	for i := between(rng, 3, 8); i > 0; i-- {
		stack.WriteString("    ")
		stack.WriteString(pick(rng, stackFrames))
		stack.WriteString("\n")
	}

	return stack.String()
}

func randomIP(rng *rand.Rand) string {
	return fmt.Sprintf("%d.%d.%d.%d",
		between(rng, 1, 255), between(rng, 1, 255), between(rng, 1, 255), between(rng, 1, 255),
	)
}

func latency(rng *rand.Rand, level Level) int {
	switch level {
	case Warn:
		return between(rng, 500, 5000)
	case Error:
		return between(rng, 3000, 30000)
	default:
		return between(rng, 1, 500)
	}
}

// between returns a value in [lo, hi)
func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo)
}

func pick(rng *rand.Rand, items []string) string {
	return items[rng.IntN(len(items))]
}

func pickInt(rng *rand.Rand, items []int) int {
	return items[rng.IntN(len(items))]
}
