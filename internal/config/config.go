package config

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	graphql "github.com/hasura/go-graphql-client"
	"github.com/stashapp/stash/pkg/plugin/common/log"

	"github.com/smegmarip/stash-face-detector-plugin/internal/frame"
	"github.com/smegmarip/stash-face-detector-plugin/internal/stash"
)

// Defaults returns the configuration used when nothing is set
func Defaults() *PluginConfig {
	return &PluginConfig{
		RequestTimeout:   30 * time.Second,
		TransportFormat:  frame.TransportJPEG,
		TransportQuality: frame.IntermediateQuality,
	}
}

// Load builds the plugin configuration from defaults, the plugin settings
// saved in Stash and finally environment overrides. client may be nil when
// no Stash connection is available. A failed settings fetch is logged and
// the defaults are kept.
func Load(ctx context.Context, client *graphql.Client) (*PluginConfig, error) {
	config := Defaults()

	if client != nil {
		settings, err := stash.GetPluginSettings(ctx, client, PluginID)
		if err != nil {
			log.Warnf("Failed to get plugin configuration: %v, using defaults", err)
		} else {
			config.apply(settings)
		}
	}

	config.applyEnv()

	config.DetectorURL = resolveServiceURL(config.DetectorURL, "compreface", "8000")

	if config.DetectionAPIKey == "" {
		return config, fmt.Errorf("detection API key is required")
	}

	return config, nil
}

// apply overrides defaults with user settings
func (config *PluginConfig) apply(settings map[string]interface{}) {
	if val := getStringSetting(settings, "detectorUrl"); val != "" {
		config.DetectorURL = val
	}
	if val := getStringSetting(settings, "detectionApiKey"); val != "" {
		config.DetectionAPIKey = val
	}
	if val := getIntSetting(settings, "requestTimeoutSeconds"); val > 0 {
		config.RequestTimeout = time.Duration(val) * time.Second
	}
	if val := getStringSetting(settings, "transportFormat"); val != "" {
		config.TransportFormat = frame.ParseTransportFormat(val)
	}
	if val := getIntSetting(settings, "transportQuality"); val > 0 && val <= 100 {
		config.TransportQuality = val
	}
}

func (config *PluginConfig) applyEnv() {
	if val := os.Getenv(EnvDetectorURL); val != "" {
		config.DetectorURL = val
	}
	if val := os.Getenv(EnvAPIKey); val != "" {
		config.DetectionAPIKey = val
	}
}

// getStringSetting retrieves a string setting from plugin config
func getStringSetting(config map[string]interface{}, key string) string {
	if val, ok := config[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// getIntSetting retrieves an integer setting from plugin config
func getIntSetting(config map[string]interface{}, key string) int {
	if val, ok := config[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}

// resolveServiceURL fills in the scheme and port of the detector URL and pins
// container hostnames to an address. An empty or unparseable URL falls back
// to http://container:port; a failed lookup keeps the hostname.
func resolveServiceURL(configured string, container string, port string) string {
	fallback := "http://" + net.JoinHostPort(container, port)
	if configured == "" {
		log.Infof("No detector URL configured, using %s", fallback)
		return fallback
	}

	u, err := url.Parse(configured)
	if err != nil || u.Hostname() == "" {
		log.Warnf("Invalid detector URL %q, using %s", configured, fallback)
		return fallback
	}

	scheme, host := u.Scheme, u.Hostname()
	if scheme == "" {
		scheme = "http"
	}
	if p := u.Port(); p != "" {
		port = p
	}

	if host != "localhost" && net.ParseIP(host) == nil {
		addrs, err := net.LookupIP(host)
		switch {
		case err != nil:
			log.Warnf("DNS lookup for %s failed: %v", host, err)
		case len(addrs) == 0:
			log.Warnf("DNS lookup for %s returned no addresses", host)
		default:
			log.Debugf("Resolved %s to %s", host, addrs[0])
			host = addrs[0].String()
		}
	}

	return scheme + "://" + net.JoinHostPort(host, port)
}
