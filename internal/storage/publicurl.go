package storage

import (
	"fmt"
	"net/url"
	"strings"

	"rental-listings/internal/config"
)

// PublicURL turns stored object keys into URLs a browser can fetch.
//
// The base is either the configured public base URL or the storage endpoint
// with its host rewritten through the explicit host mapping. Hosts missing
// from the mapping are used as is.
type PublicURL struct {
	base string
	path string
}

// NewPublicURL derives the public base from the storage settings
func NewPublicURL(cfg config.StorageConfig) (*PublicURL, error) {
	base := cfg.PublicBaseURL
	if base == "" {
		u, err := endpointURL(cfg.Endpoint, cfg.UseSSL)
		if err != nil {
			return nil, err
		}
		if public, ok := cfg.PublicHosts[u.Host]; ok {
			u.Host = public
		}
		base = u.String()
	}

	path := strings.Trim(cfg.PublicPath, "/")
	if path != "" {
		path = "/" + path
	}

	return &PublicURL{
		base: strings.TrimRight(base, "/"),
		path: path,
	}, nil
}

// For returns the public URL of the object stored under key
func (p *PublicURL) For(key string) string {
	return p.base + p.path + "/" + strings.TrimLeft(key, "/")
}

// endpointURL accepts either a bare host[:port] or a full URL
func endpointURL(endpoint string, useSSL bool) (*url.URL, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("storage endpoint is empty")
	}
	if !strings.Contains(endpoint, "://") {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		endpoint = scheme + "://" + endpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid storage endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid storage endpoint %q: missing host", endpoint)
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host}, nil
}
