// Package catalog resolves vehicle and service identifiers into display text.
package catalog

import (
	"context"
	"fmt"
)

const (
	unknownVehicle = "Unknown Vehicle"
	noServices     = "No Services"

	vehiclePrefixLen = 5
)

// Lookup resolves identifiers into human-readable descriptions.
type Lookup interface {
	DescribeVehicle(ctx context.Context, vehicleID string) (string, error)
	DescribeServices(ctx context.Context, serviceIDs []string) (string, error)
}

// PlaceholderLookup stands in for the vehicle and service catalogs.
// It only reports a shortened vehicle id and the number of selected services.
type PlaceholderLookup struct{}

func NewPlaceholderLookup() *PlaceholderLookup {
	return &PlaceholderLookup{}
}

func (PlaceholderLookup) DescribeVehicle(_ context.Context, vehicleID string) (string, error) {
	if vehicleID == "" {
		return unknownVehicle, nil
	}
	prefix := vehicleID
	if len(prefix) > vehiclePrefixLen {
		prefix = prefix[:vehiclePrefixLen]
	}
	return "Vehicle " + prefix + "...", nil
}

func (PlaceholderLookup) DescribeServices(_ context.Context, serviceIDs []string) (string, error) {
	if len(serviceIDs) == 0 {
		return noServices, nil
	}
	return fmt.Sprintf("%d Service(s) Selected", len(serviceIDs)), nil
}
