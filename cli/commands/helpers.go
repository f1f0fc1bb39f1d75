package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/satishbabariya/frm-go/cli/internal/config"
	"github.com/satishbabariya/frm-go/internal/diagnostics"
	"github.com/satishbabariya/frm-go/runtime/session"
	"github.com/satishbabariya/frm-go/schema"
	"github.com/satishbabariya/frm-go/schema/dsl"
)

// project is a loaded declaration file.
type project struct {
	cfg      *config.Config
	registry *schema.Registry
	entries  []*schema.Entry
}

// loadProject reads the declaration file named by cfg and registers its
// records. Positioned errors are reported to w.
func loadProject(w io.Writer, cfg *config.Config) (*project, error) {
	src, err := config.ReadFile(cfg.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	reg := schema.NewRegistry()
	entries, err := dsl.Load(reg, cfg.SchemaPath, src)
	if err != nil {
		return nil, report(w, src, err)
	}
	return &project{cfg: cfg, registry: reg, entries: entries}, nil
}

// open connects to the configured database.
func (p *project) open(ctx context.Context) (*session.Session, error) {
	return session.Open(ctx, p.cfg.Provider, p.cfg.DatabaseURL)
}

// report prints err with a source excerpt and returns errReported.
func report(w io.Writer, src string, err error) error {
	diagnostics.Report(w, src, err)
	return fmt.Errorf("%w: %w", errReported, err)
}

// formatValue renders a result value for display.
func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprint(v)
}
