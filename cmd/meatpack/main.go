// Command meatpack CLI local del estoque: arranca el almacenamiento y expone las operaciones.
package main

import (
	"os"

	"github.com/meatpack/estoque/pkg/config"
	"github.com/meatpack/estoque/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})

	if err := newApp(cfg, log).Run(os.Args); err != nil {
		log.Error().Err(err).Msg("meatpack")
		os.Exit(1)
	}
}
