package history

import "github.com/kompox/tfcsync/domain"

// Repos holds repositories needed for history use cases.
type Repos struct {
	Run domain.RunRepository
}

// UseCase wires repositories needed for history use cases.
type UseCase struct {
	Repos *Repos
}
