package cmd

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Zachkp/sheetfolio/internal/cards"
	"github.com/Zachkp/sheetfolio/internal/config"
	"github.com/Zachkp/sheetfolio/internal/logging"
	"github.com/Zachkp/sheetfolio/internal/sheet"
	"github.com/Zachkp/sheetfolio/internal/site"
	"github.com/Zachkp/sheetfolio/web"
)

// app is everything a command needs, built from config.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	source *sheet.CachedSource
	site   *site.Assembler
	close  func() error
}

func bootstrap() (a *app, err error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return a, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	err = cfg.Validate()
	if err != nil {
		return a, err
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return a, err
	}
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	a = &app{cfg: cfg, logger: logger, close: func() error { return nil }}

	var src sheet.Source
	if cfg.Source.SQLitePath != "" {
		db, openErr := sheet.OpenSQLite(cfg.Source.SQLitePath, cfg.Source.SQLiteTable)
		if openErr != nil {
			err = openErr
			return nil, err
		}
		a.close = db.Close
		src = db
		logger.Info("reading rows from sqlite snapshot",
			zap.String("path", cfg.Source.SQLitePath),
			zap.String("table", cfg.Source.SQLiteTable),
		)
	} else {
		httpSrc := sheet.NewHTTPSource(cfg.Source.Endpoint(), &http.Client{Timeout: cfg.Source.Timeout})
		src = httpSrc
		logger.Info("reading rows from sheet", zap.String("url", httpSrc.URL()))
	}
	a.source = sheet.NewCachedSource(src, cfg.Source.CacheTTL)

	renderer, err := cards.NewRenderer(cfg.Columns)
	if err != nil {
		_ = a.close()
		return nil, err
	}
	shell, err := web.NewShell(cfg.Profile)
	if err != nil {
		_ = a.close()
		return nil, err
	}
	a.site = site.New(shell, a.source, renderer, cfg.Columns,
		site.WithLogger(logger),
		site.WithContainers(cfg.Containers),
		site.WithFilter(cfg.Filter),
	)
	return a, nil
}

func (a *app) shutdown() {
	if err := a.close(); err != nil {
		a.logger.Warn("closing source", zap.Error(err))
	}
	_ = a.logger.Sync()
}
