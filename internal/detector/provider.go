package detector

import (
	"fmt"
	"sync"

	"github.com/stashapp/stash/pkg/plugin/common/log"
)

// Provider owns the process-wide detector. The first successful Get builds
// it from the requested configuration; every later call reuses that
// instance and its configuration, even if different options are requested.
// Options are therefore fixed after first use.
type Provider struct {
	factory  Factory
	mu       sync.Mutex
	detector Detector
	config   Config
}

// NewProvider creates a provider that builds its detector with factory
func NewProvider(factory Factory) *Provider {
	return &Provider{factory: factory}
}

// Get returns the shared detector and the configuration it was built with.
// A failed build is not cached, so the next frame retries.
func (p *Provider) Get(requested Config) (Detector, Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.detector != nil {
		if requested != p.config {
			log.Debugf("Ignoring changed detector options (%s); detector already built with %s", requested, p.config)
		}
		return p.detector, p.config, nil
	}

	log.Infof("Creating face detector: %s", requested)
	d, err := p.factory(requested)
	if err != nil {
		return nil, requested, fmt.Errorf("%w: failed to create detector: %v", ErrDetectorFailure, err)
	}

	p.detector = d
	p.config = requested
	return d, requested, nil
}

// Built reports whether the shared detector exists yet
func (p *Provider) Built() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.detector != nil
}
