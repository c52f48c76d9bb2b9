package providerdrv

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kompox/amlops/domain/model"
)

// Driver abstracts a provisioning backend. Implementations live under
// adapters/drivers/provider/<name> and return an identifier such as "aml"
// via ID(). A driver serves every provider port used by setup.
type Driver interface {
	// ID returns the provider identifier (e.g., "aml").
	ID() string

	model.ResourceGroupPort
	model.WorkspacePort
	model.ComputePort
	model.EnvironmentPort
}

// driverFactory is a constructor function for a provider driver.
type driverFactory func(settings map[string]string) (Driver, error)

// registry holds registered drivers by name.
var registry = map[string]driverFactory{}

// Register makes a driver available by the given name. Drivers should call
// this from their init() function.
func Register(name string, factory driverFactory) {
	registry[name] = factory
}

// GetDriverFactory returns the driver factory function for the given name.
func GetDriverFactory(name string) (driverFactory, bool) {
	factory, exists := registry[name]
	return factory, exists
}

// NewDriver creates the named driver with settings.
func NewDriver(name string, settings map[string]string) (Driver, error) {
	factory, exists := GetDriverFactory(name)
	if !exists {
		return nil, fmt.Errorf("unknown provider driver: %s (available: %s)", name, strings.Join(Names(), ", "))
	}
	d, err := factory(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create driver %s: %w", name, err)
	}
	return d, nil
}

// Names returns the registered driver names in order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
