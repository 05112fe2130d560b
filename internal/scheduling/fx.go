package scheduling

import (
	"github.com/sqlservernerd/festguide/internal/scheduling/repository"
	"github.com/sqlservernerd/festguide/internal/scheduling/service"
	"go.uber.org/fx"
)

var Module = fx.Module("scheduling.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
