package model

// EnvironmentVersionAuto selects the next free integer version.
const EnvironmentVersionAuto = "auto"

// Environment is a named, versioned container image plus conda dependency manifest.
type Environment struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	// Image is the base container image reference.
	Image string `json:"image"`
	// CondaFile is the local path the conda specification was read from.
	CondaFile string `json:"condaFile,omitempty"`
	// CondaSpec is the conda specification contents sent to the provider.
	CondaSpec string `json:"-"`
	// OSType is "Linux" or "Windows". Empty means Linux.
	OSType string            `json:"osType,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}
