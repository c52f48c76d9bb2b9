// Package aml implements the Azure Machine Learning provider driver.
package aml

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/machinelearning/armmachinelearning/v4"

	providerdrv "github.com/kompox/amlops/adapters/drivers/provider"
	"github.com/kompox/amlops/domain/model"
)

const (
	defaultLookupTimeout = 5 * time.Minute
	defaultCreateTimeout = 30 * time.Minute
)

// defaultSDKRetries is the SDK pipeline retry count. Transient lookups are
// retried again by the ensure step.
const defaultSDKRetries = 1

// driver implements the Azure ML provider driver.
type driver struct {
	TokenCredential     azcore.TokenCredential
	AzureSubscriptionId string
	AzureLocation       string
	AzureTenantId       string
	lookupTimeout       time.Duration
	createTimeout       time.Duration
	sdkRetries          int
}

// ID returns the provider identifier.
func (d *driver) ID() string { return "aml" }

// init registers the Azure ML driver.
func init() {
	providerdrv.Register("aml", func(settings map[string]string) (providerdrv.Driver, error) {
		return newDriver(settings)
	})
}

func newDriver(settings map[string]string) (*driver, error) {
	get := func(k string) string {
		if settings == nil {
			return ""
		}
		return strings.TrimSpace(settings[k])
	}

	subscriptionID := get("AZURE_SUBSCRIPTION_ID")
	location := get("AZURE_LOCATION")
	missing := make([]string, 0, 2)
	if subscriptionID == "" {
		missing = append(missing, "AZURE_SUBSCRIPTION_ID")
	}
	if location == "" {
		missing = append(missing, "AZURE_LOCATION")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required AML settings: %s", strings.Join(missing, ", "))
	}

	lookupTimeout, err := durationSetting(get("AML_LOOKUP_TIMEOUT"), defaultLookupTimeout)
	if err != nil {
		return nil, fmt.Errorf("AML_LOOKUP_TIMEOUT: %w", err)
	}
	createTimeout, err := durationSetting(get("AML_CREATE_TIMEOUT"), defaultCreateTimeout)
	if err != nil {
		return nil, fmt.Errorf("AML_CREATE_TIMEOUT: %w", err)
	}

	sdkRetries, err := retriesSetting(get("AML_SDK_MAX_RETRIES"), defaultSDKRetries)
	if err != nil {
		return nil, fmt.Errorf("AML_SDK_MAX_RETRIES: %w", err)
	}

	cred, err := newCredential(get)
	if err != nil {
		return nil, err
	}

	return &driver{
		TokenCredential:     cred,
		AzureSubscriptionId: subscriptionID,
		AzureLocation:       location,
		AzureTenantId:       get("AZURE_TENANT_ID"),
		lookupTimeout:       lookupTimeout,
		createTimeout:       createTimeout,
		sdkRetries:          sdkRetries,
	}, nil
}

// newCredential selects the credential by AZURE_AUTH_METHOD. An empty method
// means "default", the DefaultAzureCredential chain.
func newCredential(get func(string) string) (azcore.TokenCredential, error) {
	authMethod := get("AZURE_AUTH_METHOD")
	if authMethod == "" {
		authMethod = "default"
	}

	var cred azcore.TokenCredential
	var err error
	switch authMethod {
	case "default":
		opts := &azidentity.DefaultAzureCredentialOptions{}
		if tenantID := get("AZURE_TENANT_ID"); tenantID != "" {
			opts.TenantID = tenantID
		}
		cred, err = azidentity.NewDefaultAzureCredential(opts)
	case "client_secret":
		tenantID := get("AZURE_TENANT_ID")
		clientID := get("AZURE_CLIENT_ID")
		clientSecret := get("AZURE_CLIENT_SECRET")
		if tenantID == "" || clientID == "" || clientSecret == "" {
			return nil, fmt.Errorf("client_secret auth requires AZURE_TENANT_ID, AZURE_CLIENT_ID, AZURE_CLIENT_SECRET")
		}
		cred, err = azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
	case "managed_identity":
		clientID := get("AZURE_CLIENT_ID")
		opts := &azidentity.ManagedIdentityCredentialOptions{}
		if clientID != "" {
			opts.ID = azidentity.ClientID(clientID)
		}
		cred, err = azidentity.NewManagedIdentityCredential(opts)
	case "workload_identity":
		tenantID := get("AZURE_TENANT_ID")
		clientID := get("AZURE_CLIENT_ID")
		tokenFile := get("AZURE_FEDERATED_TOKEN_FILE")
		if tenantID == "" || clientID == "" || tokenFile == "" {
			return nil, fmt.Errorf("workload_identity auth requires AZURE_TENANT_ID, AZURE_CLIENT_ID, AZURE_FEDERATED_TOKEN_FILE")
		}
		cred, err = azidentity.NewWorkloadIdentityCredential(&azidentity.WorkloadIdentityCredentialOptions{
			TenantID:      tenantID,
			ClientID:      clientID,
			TokenFilePath: tokenFile,
		})
	case "azure_cli":
		cred, err = azidentity.NewAzureCLICredential(nil)
	case "azure_developer_cli":
		cred, err = azidentity.NewAzureDeveloperCLICredential(nil)
	default:
		return nil, fmt.Errorf("unsupported AZURE_AUTH_METHOD: %s", authMethod)
	}
	if err != nil {
		return nil, fmt.Errorf("create Azure credential: %w", err)
	}
	return cred, nil
}

func durationSetting(v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", v)
	}
	return d, nil
}

func retriesSetting(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative, got %s", v)
	}
	return n, nil
}

// clientOptions bounds the SDK pipeline retries. Zero disables them, which
// the SDK spells as a negative MaxRetries.
func (d *driver) clientOptions() *arm.ClientOptions {
	n := d.sdkRetries
	if n == 0 {
		n = -1
	}
	return &arm.ClientOptions{
		ClientOptions: policy.ClientOptions{
			Retry: policy.RetryOptions{MaxRetries: int32(n)},
		},
	}
}

// subscriptionID prefers the target subscription over the driver default.
func (d *driver) subscriptionID(target *model.Target) string {
	if target != nil && target.SubscriptionID != "" {
		return target.SubscriptionID
	}
	return d.AzureSubscriptionId
}

// location prefers the target location over the driver default.
func (d *driver) location(target *model.Target) string {
	if target != nil && target.Location != "" {
		return target.Location
	}
	return d.AzureLocation
}

func (d *driver) clientFactory(target *model.Target) (*armmachinelearning.ClientFactory, error) {
	f, err := armmachinelearning.NewClientFactory(d.subscriptionID(target), d.TokenCredential, d.clientOptions())
	if err != nil {
		return nil, fmt.Errorf("new machine learning client factory: %w", err)
	}
	return f, nil
}

var _ providerdrv.Driver = (*driver)(nil)
