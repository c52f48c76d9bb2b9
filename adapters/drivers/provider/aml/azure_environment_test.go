package aml

import (
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/machinelearning/armmachinelearning/v4"
)

func TestNextVersion(t *testing.T) {
	tests := []struct {
		latest  string
		want    string
		wantErr bool
	}{
		{"", "1", false},
		{"1", "2", false},
		{" 41 ", "42", false},
		{"v1", "", true},
		{"-3", "", true},
	}
	for _, tt := range tests {
		got, err := nextVersion(tt.latest)
		if (err != nil) != tt.wantErr {
			t.Errorf("nextVersion(%q) err = %v, wantErr %v", tt.latest, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("nextVersion(%q) = %q, want %q", tt.latest, got, tt.want)
		}
	}
}

func TestOSType(t *testing.T) {
	if osType("") != armmachinelearning.OperatingSystemTypeLinux {
		t.Error("empty should map to Linux")
	}
	if osType("windows") != armmachinelearning.OperatingSystemTypeWindows {
		t.Error("windows should map to Windows")
	}
}
