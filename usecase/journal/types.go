// Package journal reads and writes the setup run journal.
package journal

import "github.com/kompox/amlops/domain"

// Repos holds repositories needed for journal use cases.
type Repos struct {
	Run domain.RunRepository
}

// UseCase wires repositories needed for journal use cases.
type UseCase struct {
	Repos *Repos
}
