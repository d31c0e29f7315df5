package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrConstruction matches every ConstructionError via errors.Is.
	ErrConstruction = errors.New("construction failed")

	ErrUnknownComponent = errors.New("unknown component type")
	ErrUnknownProperty  = errors.New("unknown property")
	ErrNoPrefab         = errors.New("no prefab")
	ErrNoLayer          = errors.New("actor has no layer")
)

// ConstructionError reports why an actor or one of its components could not
// be built from a prefab. No actor is produced when it is returned.
type ConstructionError struct {
	Prefab    string
	Component string // component type, empty when the actor itself failed
	Property  string // offending property, if any
	Err       error
}

func (e *ConstructionError) Error() string {
	switch {
	case e.Property != "":
		return fmt.Sprintf("build %s: %s.%s: %v", e.Prefab, e.Component, e.Property, e.Err)
	case e.Component != "":
		return fmt.Sprintf("build %s: %s: %v", e.Prefab, e.Component, e.Err)
	default:
		return fmt.Sprintf("build %s: %v", e.Prefab, e.Err)
	}
}

func (e *ConstructionError) Unwrap() error { return e.Err }

func (e *ConstructionError) Is(target error) bool { return target == ErrConstruction }
