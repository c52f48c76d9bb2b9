package amlopscfg

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default returns the configuration provisioned when nothing is overridden.
func Default() *Root {
	return &Root{
		Version: "v1",
		Azure: Azure{
			Location:   "eastus",
			AuthMethod: "default",
		},
		Timeouts: Timeouts{
			Lookup:            5 * time.Minute,
			Create:            30 * time.Minute,
			RetryMaxAttempts:  4,
			RetryInitialDelay: 2 * time.Second,
		},
		Workspace: Workspace{
			Name:        "gpu-ml-workspace",
			DisplayName: "GPU ML Workspace",
			Description: "Workspace for GPU-accelerated ML workloads",
		},
		ComputeCluster: ComputeCluster{
			Name:                    "gpu-cluster",
			VMSize:                  "Standard_NC6s_v3",
			MinInstances:            0,
			MaxInstances:            4,
			IdleTimeBeforeScaleDown: 30 * time.Minute,
			Tier:                    "dedicated",
		},
		NotebookInstance: NotebookInstance{
			Name:        "jupyter-notebook",
			VMSize:      "Standard_DS3_v2",
			Description: "Jupyter Notebook instance with GPU support",
		},
		Environment: Environment{
			Name:        "gpu-inference-env",
			Version:     "auto",
			Description: "Environment for GPU-accelerated inference",
			Image:       "mcr.microsoft.com/azureml/openmpi4.1.0-cuda11.3-cudnn8-ubuntu20.04:latest",
			CondaFile:   "environment.yml",
		},
	}
}

// Load reads path over Default. Fields absent from the file keep their
// default values; unknown fields are rejected.
func Load(path string) (*Root, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal YAML %s: %w", path, err)
	}
	cfg.BaseDir = filepath.Dir(path)
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Environment variables read by ApplyEnv.
const (
	EnvSubscriptionID = "AZURE_SUBSCRIPTION_ID"
	EnvResourceGroup  = "AZURE_RESOURCE_GROUP"
	EnvLocation       = "AZURE_LOCATION"
	EnvAuthMethod     = "AZURE_AUTH_METHOD"
	EnvTenantID       = "AZURE_TENANT_ID"
	EnvClientID       = "AZURE_CLIENT_ID"
	EnvWorkspaceName  = "AMLOPS_WORKSPACE_NAME"
	EnvLookupTimeout  = "AML_LOOKUP_TIMEOUT"
	EnvCreateTimeout  = "AML_CREATE_TIMEOUT"
)

// ApplyEnv overlays non-empty environment values onto r. The environment
// wins over the file. Timeouts must parse as positive durations.
func (r *Root) ApplyEnv(getenv func(string) string) error {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&r.Azure.SubscriptionID, EnvSubscriptionID)
	set(&r.Azure.ResourceGroup, EnvResourceGroup)
	set(&r.Azure.Location, EnvLocation)
	set(&r.Azure.AuthMethod, EnvAuthMethod)
	set(&r.Azure.TenantID, EnvTenantID)
	set(&r.Azure.ClientID, EnvClientID)
	set(&r.Workspace.Name, EnvWorkspaceName)

	setDuration := func(dst *time.Duration, key string) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s: must be positive, got %s", key, v)
		}
		*dst = d
		return nil
	}
	if err := setDuration(&r.Timeouts.Lookup, EnvLookupTimeout); err != nil {
		return err
	}
	return setDuration(&r.Timeouts.Create, EnvCreateTimeout)
}

// Missing returns the required environment settings that are not set.
func (r *Root) Missing() []string {
	return r.Target().Missing()
}
