package parsers

import (
	"github.com/custodia-labs/caremind/internal/parsers/faq"
	"github.com/custodia-labs/caremind/internal/parsers/manual"
	"github.com/custodia-labs/caremind/internal/parsers/policy"
	"github.com/custodia-labs/caremind/internal/parsers/procedure"
)

// RegisterDefaults registers all built-in document parsers with the
// registry. Call this during application initialisation.
func RegisterDefaults(r *Registry) {
	r.Register(faq.New())
	r.Register(policy.New())
	r.Register(manual.New())
	r.Register(procedure.New())
}

// NewDefaultRegistry creates a registry with every built-in parser
// registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}
