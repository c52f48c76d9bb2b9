package naming

import (
	"strings"
	"testing"
)

func TestValidateNames(t *testing.T) {
	cases := []struct {
		name    string
		fn      func(string) error
		value   string
		wantErr bool
	}{
		{name: "workspace default", fn: ValidateWorkspaceName, value: "gpu-ml-workspace"},
		{name: "workspace underscore", fn: ValidateWorkspaceName, value: "ml_ws"},
		{name: "workspace too short", fn: ValidateWorkspaceName, value: "ws", wantErr: true},
		{name: "workspace too long", fn: ValidateWorkspaceName, value: strings.Repeat("a", 34), wantErr: true},
		{name: "workspace leading hyphen", fn: ValidateWorkspaceName, value: "-ws", wantErr: true},
		{name: "compute default", fn: ValidateComputeName, value: "gpu-cluster"},
		{name: "compute notebook", fn: ValidateComputeName, value: "jupyter-notebook"},
		{name: "compute digit start", fn: ValidateComputeName, value: "1gpu", wantErr: true},
		{name: "compute trailing hyphen", fn: ValidateComputeName, value: "gpu-", wantErr: true},
		{name: "compute underscore", fn: ValidateComputeName, value: "gpu_cluster", wantErr: true},
		{name: "compute too long", fn: ValidateComputeName, value: strings.Repeat("a", 25), wantErr: true},
		{name: "environment default", fn: ValidateEnvironmentName, value: "gpu-inference-env"},
		{name: "environment dots", fn: ValidateEnvironmentName, value: "env.v2_gpu"},
		{name: "environment empty", fn: ValidateEnvironmentName, value: "", wantErr: true},
		{name: "environment space", fn: ValidateEnvironmentName, value: "my env", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.fn(tc.value)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error for %q", tc.value)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
