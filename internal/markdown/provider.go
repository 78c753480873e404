package markdown

import (
	"context"
	"fmt"
	"sync"
)

// Provider is a readiness future for a Converter. Until Provide is called, Convert
// returns ErrConverterUnavailable instead of blocking.
type Provider struct {
	once  sync.Once
	ready chan struct{}
	conv  Converter
}

// NewProvider returns a provider that is not ready yet.
func NewProvider() *Provider {
	return &Provider{ready: make(chan struct{})}
}

// Ready returns a provider already resolved to c.
func Ready(c Converter) *Provider {
	p := NewProvider()
	p.Provide(c)
	return p
}

// Provide resolves the future. Only the first call has an effect.
func (p *Provider) Provide(c Converter) {
	if c == nil {
		return
	}
	p.once.Do(func() {
		p.conv = c
		close(p.ready)
	})
}

// Converter returns the converter if it is ready.
func (p *Provider) Converter() (Converter, bool) {
	select {
	case <-p.ready:
		return p.conv, true
	default:
		return nil, false
	}
}

// Wait blocks until the converter is ready or ctx is done.
func (p *Provider) Wait(ctx context.Context) (Converter, error) {
	select {
	case <-p.ready:
		return p.conv, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrConverterUnavailable, ctx.Err())
	}
}

// Convert uses the converter when ready and reports ErrConverterUnavailable otherwise.
func (p *Provider) Convert(src string) (string, error) {
	c, ok := p.Converter()
	if !ok {
		return "", ErrConverterUnavailable
	}
	return c.Convert(src)
}
