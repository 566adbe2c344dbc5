package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathprobe/internal/assessment"
	"github.com/abhisek/mathprobe/internal/config"
	"github.com/abhisek/mathprobe/internal/logger"
	"github.com/abhisek/mathprobe/internal/store"
	"github.com/abhisek/mathprobe/internal/ui/theme"
)

// env is what a data command needs: settings, a logger, the open store
// and the service on top of it.
type env struct {
	cfg    config.Config
	log    *logger.Logger
	store  *store.Store
	svc    *assessment.Service
	styles theme.Styles
	out    io.Writer
}

// openEnv loads configuration, builds the logger and opens the database.
// Callers must Close the result.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if mode, _ := cmd.Flags().GetString("log-mode"); mode != "" {
		cfg.Log.Mode = mode
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug("database opened", "path", dbPath)

	svc := assessment.NewService(assessment.Deps{
		Items:     st.ItemRepo(),
		Responses: st.ResponseRepo(),
		Details:   st.DetailRepo(),
		Profiles:  st.ProfileRepo(),
		Logger:    log,
	}, assessment.Options{
		Calibration:    cfg.Calibration.Config,
		Workers:        cfg.Calibration.Workers,
		ResponseWindow: cfg.History.ResponseWindow,
		NextItems:      cfg.Report.NextItems,
	})

	return &env{
		cfg:    cfg,
		log:    log,
		store:  st,
		svc:    svc,
		styles: stylesFor(cmd),
		out:    cmd.OutOrStdout(),
	}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn("close database", "error", err)
	}
	e.log.Sync()
}

func stylesFor(cmd *cobra.Command) theme.Styles {
	noColor, _ := cmd.Flags().GetBool("no-color")
	return theme.New(!noColor)
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
