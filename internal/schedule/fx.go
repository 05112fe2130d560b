package schedule

import (
	"github.com/sqlservernerd/festguide/internal/schedule/repository"
	"github.com/sqlservernerd/festguide/internal/schedule/service"
	"go.uber.org/fx"
)

var Module = fx.Module("schedule.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
