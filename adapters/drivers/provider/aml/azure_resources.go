package aml

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"

	"github.com/kompox/amlops/domain/model"
	"github.com/kompox/amlops/internal/logging"
)

func azureShorterErrorString(err error) string {
	var responseErr *azcore.ResponseError
	if errors.As(err, &responseErr) {
		return fmt.Sprintf("%d %s (%s)", responseErr.StatusCode, http.StatusText(responseErr.StatusCode), responseErr.ErrorCode)
	}
	return err.Error()
}

// isNotFound reports whether err is an ARM 404 response.
func isNotFound(err error) bool {
	var responseErr *azcore.ResponseError
	return errors.As(err, &responseErr) && responseErr.StatusCode == http.StatusNotFound
}

// isTransient reports whether a failed call is worth retrying: throttling,
// timeouts, server errors and network failures.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var responseErr *azcore.ResponseError
	if errors.As(err, &responseErr) {
		switch {
		case responseErr.StatusCode == http.StatusRequestTimeout,
			responseErr.StatusCode == http.StatusTooManyRequests,
			responseErr.StatusCode >= 500:
			return true
		default:
			return false
		}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}

// lookupFailure maps a failed Get to NotFound or a (possibly transient) Error.
func lookupFailure[T any](err error) model.Lookup[T] {
	switch {
	case isNotFound(err):
		return model.NotFound[T]()
	case isTransient(err):
		return model.LookupFailed[T](model.Transient(err))
	default:
		return model.LookupFailed[T](err)
	}
}

func azureTags(tags map[string]string) map[string]*string {
	if len(tags) == 0 {
		return nil
	}
	out := make(map[string]*string, len(tags))
	for k, v := range tags {
		out[k] = to.Ptr(v)
	}
	return out
}

func modelTags(tags map[string]*string) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		if v != nil {
			out[k] = *v
		}
	}
	return out
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func ptrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return to.Ptr(s)
}

// ResourceGroupGet looks up the target resource group.
func (d *driver) ResourceGroupGet(ctx context.Context, target *model.Target) (l model.Lookup[*model.ResourceGroup]) {
	ctx, cleanup := d.withMethodLogger(ctx, "ResourceGroupGet")
	defer func() { cleanup(l.Err) }()
	ctx, cancel := context.WithTimeout(ctx, d.lookupTimeout)
	defer cancel()

	client, err := armresources.NewResourceGroupsClient(d.subscriptionID(target), d.TokenCredential, d.clientOptions())
	if err != nil {
		return model.LookupFailed[*model.ResourceGroup](fmt.Errorf("new resource groups client: %w", err))
	}
	res, err := client.Get(ctx, target.ResourceGroup, nil)
	if err != nil {
		return lookupFailure[*model.ResourceGroup](err)
	}
	return model.Found(&model.ResourceGroup{
		ID:       deref(res.ID),
		Name:     deref(res.Name),
		Location: deref(res.Location),
	})
}

// ResourceGroupCreate creates the target resource group in the target location.
func (d *driver) ResourceGroupCreate(ctx context.Context, target *model.Target, tags map[string]string) (rg *model.ResourceGroup, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ResourceGroupCreate")
	defer func() { cleanup(err) }()
	ctx, cancel := context.WithTimeout(ctx, d.createTimeout)
	defer cancel()

	client, err := armresources.NewResourceGroupsClient(d.subscriptionID(target), d.TokenCredential, d.clientOptions())
	if err != nil {
		return nil, fmt.Errorf("new resource groups client: %w", err)
	}
	location := d.location(target)
	logger := logging.FromContext(ctx).With("subscription", d.subscriptionID(target), "location", location, "name", target.ResourceGroup)
	res, err := client.CreateOrUpdate(ctx, target.ResourceGroup, armresources.ResourceGroup{
		Location: to.Ptr(location),
		Tags:     azureTags(tags),
	}, nil)
	if err != nil {
		logger.Info(ctx, "AML:EnsureRG/efail", "err", azureShorterErrorString(err))
		return nil, fmt.Errorf("create resource group %s: %w", target.ResourceGroup, err)
	}
	logger.Info(ctx, "AML:EnsureRG/eok")
	return &model.ResourceGroup{
		ID:       deref(res.ID),
		Name:     deref(res.Name),
		Location: deref(res.Location),
	}, nil
}
