package festival

import (
	"github.com/sqlservernerd/festguide/internal/festival/repository"
	"github.com/sqlservernerd/festguide/internal/festival/service"
	"go.uber.org/fx"
)

var Module = fx.Module("festival.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
