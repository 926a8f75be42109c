// Package creds resolves per-platform cookie sets. The encrypted credential
// store is an external collaborator consumed through the Store interface;
// this package only adds the plaintext-file fallback search path on top.
package creds

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

// Store is the external credential store. Load returns the cookie set for a
// platform, or an empty map when none is saved.
type Store interface {
	Load(platform string) (map[string]string, error)
}

// Provider resolves a platform name to a cookie map. An empty result means
// "unauthenticated" and is never an error.
type Provider struct {
	store      Store // may be nil
	extraPaths []string
	log        *slog.Logger
}

func NewProvider(store Store, extraPaths []string, log *slog.Logger) *Provider {
	if log == nil {
		log = slog.Default()
	}
	return &Provider{store: store, extraPaths: extraPaths, log: log}
}

// Cookies resolves the cookie set for a platform. The external store is
// consulted first; when it yields nothing, a list of well-known plaintext
// file locations is scanned for <platform>_cookies.json. Any read or parse
// failure at a candidate is logged and the next candidate tried.
func (p *Provider) Cookies(platform string) map[string]string {
	if p.store != nil {
		cookies, err := p.store.Load(platform)
		if err != nil {
			p.log.Debug("credential store lookup failed, trying plaintext fallback", "platform", platform, "error", err)
		} else if len(cookies) > 0 {
			return cookies
		}
	}

	for _, path := range p.searchPaths(platform) {
		cookies, err := readCookieFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				p.log.Debug("skipping unreadable cookie file", "path", path, "error", err)
			}
			continue
		}
		if len(cookies) > 0 {
			return cookies
		}
	}
	return map[string]string{}
}

func (p *Provider) searchPaths(platform string) []string {
	name := platform + "_cookies.json"
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, name))
	}
	paths = append(paths, filepath.Join("config", name), name)
	for _, dir := range p.extraPaths {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths
}

// readCookieFile accepts either a browser-export list of {name,value}
// records or a flat name->value mapping.
func readCookieFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &records); err == nil {
		cookies := make(map[string]string, len(records))
		for _, r := range records {
			if r.Name != "" && r.Value != "" {
				cookies[r.Name] = r.Value
			}
		}
		return cookies, nil
	}

	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, err
	}
	return flat, nil
}
