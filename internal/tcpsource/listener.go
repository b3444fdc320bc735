// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package tcpsource

import (
	"context"
	"log/slog"
	"net"

	"github.com/hsinghkalsi/ingestcore/internal/fdtable"
	"github.com/hsinghkalsi/ingestcore/internal/tlsconfig"
)

// buildListener produces a listening endpoint per spec.md §4.F: a concrete
// socket address is bound via the TLS-aware binder; an inherited fd offset
// is adopted from fdTable and wrapped with TLS if configured. On any
// failure it logs and returns ok=false, causing the supervisor to exit
// cleanly with no connections served.
func buildListener(ctx context.Context, cfg Config, binder tlsconfig.Binder, fdTable fdtable.Table, logger *slog.Logger) (net.Listener, bool) {
	switch cfg.Addr.Kind {
	case AddressKindSocket:
		ln, err := binder.Bind(ctx, cfg.Addr.Socket)
		if err != nil {
			logger.Error("tcp listener bind failed", "addr", cfg.Addr.Socket, "error", err)
			return nil, false
		}
		return ln, true

	case AddressKindFD:
		ln, ok, err := fdTable.Listener(cfg.Addr.FDOffset)
		if err != nil {
			logger.Error("tcp listener fd adoption failed", "offset", cfg.Addr.FDOffset, "error", err)
			return nil, false
		}
		if !ok {
			logger.Error("tcp listener fd not inherited", "offset", cfg.Addr.FDOffset)
			return nil, false
		}
		wrapped, err := tlsconfig.WrapListener(ln, cfg.TLS)
		if err != nil {
			logger.Error("tcp listener tls wrap failed", "offset", cfg.Addr.FDOffset, "error", err)
			ln.Close()
			return nil, false
		}
		return wrapped, true

	default:
		logger.Error("tcp listener: unknown address kind")
		return nil, false
	}
}
