package transport

import (
	"github.com/foxseedlab/honyakun/internal/transport"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (transport.Factory, error) {
		return NewWebsocketFactory(), nil
	})
}
