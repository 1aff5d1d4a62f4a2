package oracle

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/orderdesk/internal/config"
)

// Module exposes the extraction oracle client to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	if p.Config.OracleAddress == "" {
		p.Logger.Warn("oracle address not configured, ingest requires inline extraction")
		return Disabled{}, nil
	}
	return NewHTTPClient(p.Config.OracleAddress, p.Config.OracleTimeout, p.Logger)
}
