package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/mathtype/cache"
	"github.com/ByLCY/mathtype/engine"
	canvasrenderer "github.com/ByLCY/mathtype/renderer/canvas"
)

// service bundles the engine, the PDF renderer and the artifact cache shared
// by the render command and the HTTP server.
type service struct {
	cfg       Config
	engine    *engine.Engine
	pdf       *canvasrenderer.Renderer
	artifacts cache.Cache
	logger    *log.Logger
}

func newService(ctx context.Context, cfg Config, noCache bool, logger *log.Logger) (*service, error) {
	eng, err := newEngine(cfg, logger)
	if err != nil {
		return nil, err
	}
	artifacts, err := newArtifactCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &service{
		cfg:    cfg,
		engine: eng,
		pdf: canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
			Provider: eng.Provider(),
			Meta:     canvasrenderer.Meta{Creator: appName},
		}),
		artifacts: artifacts,
		logger:    logger,
	}, nil
}

func (s *service) Close() error { return s.artifacts.Close() }

// request fills unset fields from the configuration.
func (s *service) request(req engine.Request) engine.Request {
	if req.FontSize == 0 {
		req.FontSize = s.cfg.FontSize
	}
	if req.Mode == "" {
		req.Mode = s.cfg.Mode
	}
	if req.MaxWidth == 0 {
		req.MaxWidth = s.cfg.MaxWidth
	}
	return req
}

func (s *service) layout(req engine.Request) (*engine.Result, error) {
	return s.engine.Layout(s.request(req))
}

// renderPDF typesets req and renders it, serving repeated requests from the
// artifact cache. Cache failures are logged and otherwise ignored.
func (s *service) renderPDF(ctx context.Context, req engine.Request) (data []byte, cached bool, err error) {
	req = s.request(req)
	res, err := s.engine.Layout(req)
	if err != nil {
		return nil, false, err
	}
	key := cache.Key("pdf", s.engine.Provider().Name(), res.Latex, req.FontSize, res.Mode, req.MaxWidth, req.Cramped, req.Spaced)

	if data, ok, err := s.artifacts.Get(ctx, key); err != nil {
		s.logger.Warn("artifact cache read failed", "key", key, "err", err)
	} else if ok {
		s.logger.Debug("artifact cache hit", "key", key)
		return data, true, nil
	}

	start := time.Now()
	data, err = s.pdf.Render(res.Display)
	if err != nil {
		return nil, false, fmt.Errorf("render: %w", err)
	}
	s.logger.Debug("rendered pdf", "bytes", len(data), "elapsed", time.Since(start).Round(time.Millisecond))
	if err := s.artifacts.Set(ctx, key, data, s.cfg.Cache.TTL); err != nil {
		s.logger.Warn("artifact cache write failed", "key", key, "err", err)
	}
	return data, false, nil
}
