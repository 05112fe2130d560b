package notification

import (
	"github.com/sqlservernerd/festguide/internal/notification/repository"
	"github.com/sqlservernerd/festguide/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
	fx.Provide(service.NewRedisNotifier),
)
