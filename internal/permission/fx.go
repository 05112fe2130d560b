package permission

import (
	"github.com/sqlservernerd/festguide/internal/permission/repository"
	"github.com/sqlservernerd/festguide/internal/permission/service"
	"go.uber.org/fx"
)

var Module = fx.Module("permission.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
