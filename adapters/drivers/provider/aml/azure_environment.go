package aml

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/machinelearning/armmachinelearning/v4"

	"github.com/kompox/amlops/domain/model"
	"github.com/kompox/amlops/internal/logging"
)

// EnvironmentApply creates or overwrites an environment version. Version
// "auto" resolves to the container's latest version plus one.
func (d *driver) EnvironmentApply(ctx context.Context, target *model.Target, env *model.Environment) (out *model.Environment, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "EnvironmentApply")
	defer func() { cleanup(err) }()
	ctx, cancel := context.WithTimeout(ctx, d.createTimeout)
	defer cancel()

	factory, err := d.clientFactory(target)
	if err != nil {
		return nil, err
	}

	version := env.Version
	if version == "" || version == model.EnvironmentVersionAuto {
		latest := ""
		res, err := factory.NewEnvironmentContainersClient().Get(ctx, target.ResourceGroup, target.WorkspaceName, env.Name, nil)
		switch {
		case err == nil:
			if res.Properties != nil {
				latest = deref(res.Properties.LatestVersion)
			}
		case isNotFound(err):
		default:
			return nil, fmt.Errorf("get environment container %s: %w", env.Name, err)
		}
		if version, err = nextVersion(latest); err != nil {
			return nil, fmt.Errorf("environment %s: %w", env.Name, err)
		}
	}

	body := armmachinelearning.EnvironmentVersion{
		Properties: &armmachinelearning.EnvironmentVersionProperties{
			Image:       to.Ptr(env.Image),
			CondaFile:   ptrOrNil(env.CondaSpec),
			Description: ptrOrNil(env.Description),
			OSType:      to.Ptr(osType(env.OSType)),
			Tags:        azureTags(env.Tags),
		},
	}
	res, err := factory.NewEnvironmentVersionsClient().CreateOrUpdate(ctx, target.ResourceGroup, target.WorkspaceName, env.Name, version, body, nil)
	if err != nil {
		return nil, fmt.Errorf("create or update environment %s:%s: %w", env.Name, version, err)
	}
	logging.FromContext(ctx).Info(ctx, "environment applied", "environment", env.Name, "version", version)

	applied := *env
	applied.ID = deref(res.ID)
	applied.Version = version
	return &applied, nil
}

// nextVersion returns the integer version following latest, or "1" when
// there is no latest version.
func nextVersion(latest string) (string, error) {
	latest = strings.TrimSpace(latest)
	if latest == "" {
		return "1", nil
	}
	n, err := strconv.Atoi(latest)
	if err != nil || n < 0 {
		return "", fmt.Errorf("latest version %q is not an integer; set an explicit version", latest)
	}
	return strconv.Itoa(n + 1), nil
}

func osType(s string) armmachinelearning.OperatingSystemType {
	if strings.EqualFold(s, string(armmachinelearning.OperatingSystemTypeWindows)) {
		return armmachinelearning.OperatingSystemTypeWindows
	}
	return armmachinelearning.OperatingSystemTypeLinux
}
