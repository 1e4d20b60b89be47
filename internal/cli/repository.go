package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stockfix/stockfix/internal/config"
	"github.com/stockfix/stockfix/internal/odoo"
)

// newRepository builds the live ERP repository: dial, version gate,
// authenticate. Tests swap it for a fixture. The returned closer releases
// the underlying connections.
var newRepository = func(ctx context.Context, cfg *config.Config, skipVersionCheck bool) (odoo.StockRepository, func() error, error) {
	if err := cfg.ValidateConnection(); err != nil {
		return nil, nil, err
	}

	client, err := odoo.Dial(odoo.ClientConfig{
		URL:      cfg.Odoo.URL,
		Database: cfg.Odoo.Database,
		Username: cfg.Odoo.Username,
		Password: cfg.Odoo.Password,
		Timeout:  cfg.Odoo.Timeout(),
	})
	if err != nil {
		return nil, nil, err
	}

	info, err := client.Version(ctx)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	if skipVersionCheck {
		zerolog.Ctx(ctx).Warn().
			Str("component", "cli").
			Str("server_serie", info.ServerSerie).
			Msg("server series check skipped")
	} else if err := odoo.CheckServerSeries(info.ServerSerie); err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	if err := client.Authenticate(ctx); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connecting to %s: %w", cfg.Odoo.URL, err)
	}

	return odoo.NewRPCRepository(client), client.Close, nil
}
