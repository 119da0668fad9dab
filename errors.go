package heatnet

import (
	"fmt"
)

// ProjectionError is returned when a building or the source can't be attached to any street line.
// It is recoverable: the caller may skip the entity and carry on.
type ProjectionError struct {
	Entity EntityType
	ID     string
	Reason string
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("Can't project %s '%s' onto street network: %s", e.Entity, e.ID, e.Reason)
}

// InvalidTopologyError reports malformed street geometry. LineID is -1 when the whole network is affected.
// Ref is identifier of the line in input data if known.
type InvalidTopologyError struct {
	LineID int
	Ref    string
	Reason string
}

func (e *InvalidTopologyError) Error() string {
	switch {
	case e.LineID < 0:
		return fmt.Sprintf("Invalid street topology: %s", e.Reason)
	case e.Ref != "":
		return fmt.Sprintf("Invalid street topology (line %d, '%s' in input data): %s", e.LineID, e.Ref, e.Reason)
	}
	return fmt.Sprintf("Invalid street topology (line %d): %s", e.LineID, e.Reason)
}

// ConfigError reports an invalid configuration value
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("Invalid configuration '%s': %s", e.Field, e.Reason)
}

// UnreachableBuildingWarning is not an error: it describes a building excluded from the network
type UnreachableBuildingWarning struct {
	BuildingID string
	Power      float64
	Reason     UnreachableReason
}

func (w UnreachableBuildingWarning) String() string {
	return fmt.Sprintf("Building '%s' (%.3f kW) is not connected: %s", w.BuildingID, w.Power, w.Reason)
}

type UnreachableReason uint16

const (
	REASON_NO_PATH = UnreachableReason(iota + 1)
	REASON_NOT_PROJECTED
	REASON_DEADLINE
)

func (iotaIdx UnreachableReason) String() string {
	return [...]string{"no_path", "not_projected", "deadline"}[iotaIdx-1]
}

type EntityType uint16

const (
	ENTITY_BUILDING = EntityType(iota + 1)
	ENTITY_SOURCE
)

func (iotaIdx EntityType) String() string {
	return [...]string{"building", "source"}[iotaIdx-1]
}
