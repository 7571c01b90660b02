package kvgrid

import (
	"github.com/kvgrid/kvgrid-go/internal/gateway/remote_entries"
	"github.com/kvgrid/kvgrid-go/internal/model"
	"github.com/kvgrid/kvgrid-go/internal/repository/local_entries"
)

type (
	Entry      = model.Entry
	Gateway    = remote_entries.Gateway
	Repository = local_entries.Repository
)
