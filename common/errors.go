package common

import "errors"

var (
	// ErrInvalidDescriptor marks descriptor data that cannot be repaired.
	ErrInvalidDescriptor = errors.New("invalid descriptor")
	// ErrInvalidSlopeGeometry marks a slope outline with fewer than three vertices.
	ErrInvalidSlopeGeometry = errors.New("invalid slope geometry")
	// ErrMissingCollaborator is returned when a required host collaborator was not supplied.
	ErrMissingCollaborator = errors.New("missing collaborator")
)
