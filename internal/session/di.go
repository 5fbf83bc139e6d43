package session

import (
	"github.com/samber/do/v2"

	"github.com/foxseedlab/honyakun/internal/control"
	"github.com/foxseedlab/honyakun/internal/repository"
	"github.com/foxseedlab/honyakun/internal/transport"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Streamer, error) {
		ctrl := do.MustInvoke[control.Client](i)
		factory := do.MustInvoke[transport.Factory](i)
		archiver := do.MustInvoke[repository.Archiver](i)
		return NewStreamer(ctrl, factory, archiver), nil
	})
}
