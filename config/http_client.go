package config

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient builds the outbound client shared by every upstream fetcher.
// It is safe for concurrent use and is never reconfigured after construction.
func NewHTTPClient(cfg *Config) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Upstream.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   cfg.Upstream.MaxConnsPerHost,
		MaxConnsPerHost:       cfg.Upstream.MaxConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Upstream.Timeout,
	}

	return &http.Client{
		Timeout:   cfg.Upstream.Timeout,
		Transport: transport,
	}
}
