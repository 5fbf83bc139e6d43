package control

import (
	"github.com/foxseedlab/honyakun/internal/config"
	"github.com/foxseedlab/honyakun/internal/control"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (control.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewHTTPClient(cfg.ServiceBaseURL, cfg.ServiceAuthKey), nil
	})
}
