package kvgrid

import "github.com/kvgrid/kvgrid-go/internal/model"

type (
	ConfigError      = model.ConfigError
	TransportError   = model.TransportError
	KeyNotFoundError = model.KeyNotFoundError
	DecodeError      = model.DecodeError
)
