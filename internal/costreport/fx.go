package costreport

import (
	"github.com/devrecap/devrecap/internal/costreport/service"
	"go.uber.org/fx"
)

var Module = fx.Module("costreport.service",
	fx.Provide(service.NewService),
)
