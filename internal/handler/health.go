// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/yekta/folio/internal/cache"
	"github.com/yekta/folio/internal/handler/api"
	"github.com/yekta/folio/internal/version"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
)

// healthProbeKey is looked up to see whether the cache backend answers.
const healthProbeKey = "healthz:probe"

// HealthHandler handles health check requests.
type HealthHandler struct {
	dataDir   string
	cache     cache.Cacher
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(dataDir string, c cache.Cacher) *HealthHandler {
	return &HealthHandler{
		dataDir:   dataDir,
		cache:     c,
		startTime: time.Now(),
	}
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	Cache     *cache.Stats     `json:"cache,omitempty"`
	System    SystemInfo       `json:"system"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
}

// Health handles GET /healthz. A missing data directory makes the server
// unhealthy; an unreachable cache backend only degrades it.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dataCheck := h.checkDataDir()
	cacheCheck := h.checkCache(r.Context())

	status := statusHealthy
	code := http.StatusOK
	switch {
	case dataCheck.Status != statusHealthy:
		status = statusUnhealthy
		code = http.StatusServiceUnavailable
	case cacheCheck.Status != statusHealthy:
		status = statusDegraded
	}

	var stats *cache.Stats
	if sp, ok := h.cache.(cache.StatsProvider); ok {
		st := sp.Stats()
		stats = &st
	}

	w.Header().Set("Cache-Control", "no-store")
	api.WriteJSON(w, code, HealthStatus{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   version.Get().Version,
		Checks: map[string]Check{
			"data_dir": dataCheck,
			"cache":    cacheCheck,
		},
		Cache: stats,
		System: SystemInfo{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
		},
	})
}

func (h *HealthHandler) checkDataDir() Check {
	start := time.Now()
	f, err := os.Open(h.dataDir)
	if err != nil {
		return Check{Status: statusUnhealthy, Message: "data directory not readable"}
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return Check{Status: statusUnhealthy, Message: "data directory not listable"}
	}
	return Check{Status: statusHealthy, Latency: time.Since(start).String()}
}

func (h *HealthHandler) checkCache(ctx context.Context) Check {
	backend := cache.BackendName(h.cache)
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := h.cache.Has(ctx, healthProbeKey); err != nil {
		return Check{Status: statusUnhealthy, Message: fmt.Sprintf("%s backend unreachable", backend)}
	}
	return Check{Status: statusHealthy, Message: backend, Latency: time.Since(start).String()}
}
