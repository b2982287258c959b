package webrtc

import (
	"github.com/pion/interceptor"
	"github.com/pion/interceptor/pkg/nack"
)

// registerDefaultInterceptors wires the NACK generator/responder pair that
// backs the `rtcp-fb:<pt> nack` / `nack pli` lines DescriptionBuilder
// attaches to every codec (spec.md §4.2), grounded on
// interceptor_registry.go's RegisterDefaultInterceptors/ConfigureNack.
func registerDefaultInterceptors(registry *interceptor.Registry) error {
	generator, err := nack.NewGeneratorInterceptor()
	if err != nil {
		return err
	}
	responder, err := nack.NewResponderInterceptor()
	if err != nil {
		return err
	}
	registry.Add(generator)
	registry.Add(responder)
	return nil
}
