package commands

import (
	"errors"

	"statusflow/internal/core/domain/model/status"
	"statusflow/internal/pkg/guard"
)

var ErrImportStatusesCommandIsNotConstructed = errors.New(
	"ImportStatusesCommand must be created via NewImportStatusesCommand constructor",
)

// ImportStatusesCommand represents a request to merge a named preset bundle
// of status definitions into the live directory.
type ImportStatusesCommand struct { //nolint:recvcheck //using for validation
	preset status.Preset

	guard guard.ConstructorGuard
}

// NewImportStatusesCommand creates a command to import a preset.
func NewImportStatusesCommand(preset status.Preset) (ImportStatusesCommand, error) {
	if err := preset.Validate(); err != nil {
		return ImportStatusesCommand{}, err
	}

	return ImportStatusesCommand{
		preset: preset,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ImportStatusesCommand) Validate() error {
	return c.guard.Validate(ErrImportStatusesCommandIsNotConstructed)
}

// Preset returns the preset bundle to import.
func (c ImportStatusesCommand) Preset() status.Preset {
	return c.preset
}
