package health

import (
	"context"
	"encoding/json"
	"runtime"
	"strconv"
	"time"

	"agrowaste-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DBPinger is optional. If nil, the database is reported as disconnected.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// Report is the body of /health/json.
type Report struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64      `json:"uptimeSeconds"`
	Memory        MemoryInfo `json:"memory"`
	Goroutines    int        `json:"goroutines"`
	Platform      string     `json:"platform"`
	GoVersion     string     `json:"goVersion"`
}

type MemoryInfo struct {
	AllocMB  int `json:"allocMb"`
	HeapInMB int `json:"heapInUseMb"`
}

type TrafficInfo struct {
	TotalRequests   int         `json:"totalRequests"`
	SuccessCount    int         `json:"successCount"`
	FailedCount     int         `json:"failedCount"`
	SuccessRate     string      `json:"successRate"`
	AvgResponseTime interface{} `json:"avgResponseTime"`
	LastRequest     interface{} `json:"lastRequest"`
}

type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

const (
	StatusOK    = "ok"
	StatusIssue = "issue"

	depConnected    = "connected"
	depDisconnected = "disconnected"
	depError        = "error"
)

// Collector gathers the health report. Both dependencies are optional.
type Collector struct {
	Rdb *redis.Client
	DB  DBPinger
	// Now defaults to time.Now.
	Now func() time.Time
}

func (c *Collector) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func ping(fn func() error) DepStatus {
	start := time.Now()
	if err := fn(); err != nil {
		log.Warn().Err(err).Msg("health ping failed")
		return DepStatus{Status: depError}
	}
	ms := time.Since(start).Milliseconds()
	return DepStatus{Status: depConnected, PingMs: &ms}
}

// Collect pings the store and Redis and summarizes the traffic counters
// kept by middleware.HealthMarker.
func (c *Collector) Collect(ctx context.Context) Report {
	r := Report{
		Dependencies: map[string]DepStatus{},
		Traffic:      TrafficInfo{AvgResponseTime: 0, SuccessRate: "100"},
	}
	startMs := c.now().UnixMilli()

	db := DepStatus{Status: depDisconnected}
	if c.DB != nil {
		db = ping(func() error { return c.DB.PingContext(ctx) })
	}
	r.Dependencies["database"] = db

	rs := DepStatus{Status: depDisconnected}
	if c.Rdb != nil {
		rs = ping(func() error { return c.Rdb.Ping(ctx).Err() })
		if rs.Status == depConnected {
			if t, ok := c.traffic(ctx, &r.Traffic); ok {
				startMs = t
			}
		}
	}
	r.Dependencies["redis"] = rs

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptime := (c.now().UnixMilli() - startMs) / 1000
	if uptime < 0 {
		uptime = 0
	}
	r.Runtime = RuntimeInfo{
		UptimeSeconds: uptime,
		Memory:        MemoryInfo{AllocMB: int(m.Alloc / 1024 / 1024), HeapInMB: int(m.HeapInuse / 1024 / 1024)},
		Goroutines:    runtime.NumGoroutine(),
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
	}

	r.Status = StatusIssue
	if db.Status == depConnected && rs.Status == depConnected {
		r.Status = StatusOK
	}
	return r
}

// traffic fills t from Redis and returns the recorded start time. A missing
// start time is initialized to now.
func (c *Collector) traffic(ctx context.Context, t *TrafficInfo) (int64, bool) {
	vals, err := c.Rdb.MGet(ctx,
		middleware.KeyReqTotal,
		middleware.KeyReqErrors,
		middleware.KeyResTime,
		middleware.KeyResCount,
		middleware.KeyStartTime,
		middleware.KeyLastReq,
	).Result()
	if err != nil {
		log.Warn().Err(err).Msg("health counters unreadable")
		return 0, false
	}
	str := func(i int) string {
		s, _ := vals[i].(string)
		return s
	}

	t.TotalRequests, _ = strconv.Atoi(str(0))
	t.FailedCount, _ = strconv.Atoi(str(1))
	t.SuccessCount = t.TotalRequests - t.FailedCount
	if t.TotalRequests > 0 {
		t.SuccessRate = strconv.FormatFloat(float64(t.SuccessCount)/float64(t.TotalRequests)*100, 'f', 1, 64)
	}
	sum, _ := strconv.ParseFloat(str(2), 64)
	if n, _ := strconv.Atoi(str(3)); n > 0 {
		t.AvgResponseTime = strconv.FormatFloat(sum/float64(n), 'f', 2, 64)
	}
	if s := str(5); s != "" {
		var last map[string]interface{}
		if json.Unmarshal([]byte(s), &last) == nil {
			t.LastRequest = last
		}
	}

	if s := str(4); s != "" {
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return ms, true
		}
	}
	now := c.now().UnixMilli()
	c.Rdb.Set(ctx, middleware.KeyStartTime, now, 0)
	return now, true
}

// Reset clears the traffic counters and restarts the uptime clock.
func (c *Collector) Reset(ctx context.Context) error {
	if err := c.Rdb.Del(ctx, middleware.HealthKeys...).Err(); err != nil {
		return err
	}
	return c.Rdb.Set(ctx, middleware.KeyStartTime, strconv.FormatInt(c.now().UnixMilli(), 10), 0).Err()
}

// Errors returns the most recent failed requests, newest first.
func (c *Collector) Errors(ctx context.Context) ([]map[string]interface{}, error) {
	entries, err := c.Rdb.LRange(ctx, middleware.KeyErrorLog, 0, middleware.ErrorLogSize-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(entries))
	for _, s := range entries {
		var m map[string]interface{}
		if json.Unmarshal([]byte(s), &m) == nil && m != nil {
			out = append(out, m)
		}
	}
	return out, nil
}
