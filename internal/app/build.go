package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Adda-Baaj/signaturbox-client/internal/config"
	"github.com/Adda-Baaj/signaturbox-client/internal/logger"
	"github.com/Adda-Baaj/signaturbox-client/internal/metrics"
	"github.com/Adda-Baaj/signaturbox-client/internal/storage"
	"github.com/Adda-Baaj/signaturbox-client/pkg/httpclient"
	"github.com/Adda-Baaj/signaturbox-client/pkg/notifiers"
	"github.com/Adda-Baaj/signaturbox-client/pkg/signaturbox"
	"github.com/Adda-Baaj/signaturbox-client/pkg/sinks"
	"github.com/pkg/browser"
)

// Runtime owns the resources behind a Demo built from configuration.
type Runtime struct {
	*Demo

	store  storage.Store
	fanout *notifiers.Fanout
}

// Build wires the Signaturbox client, session store, sink and notifiers from cfg.
func Build(ctx context.Context, cfg *config.Config, log logger.Logger, out io.Writer) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	hc, err := httpclient.NewRestyClient(httpclient.Options{
		BaseURL:  cfg.ServerURL,
		APIKey:   cfg.APIKey,
		Timeout:  cfg.HTTPTimeout,
		Logger:   log,
		Observer: metrics.ObserveRequest,
	})
	if err != nil {
		return nil, fmt.Errorf("build http client: %w", err)
	}

	store, err := storage.NewStore(cfg.StorageType, storage.Options{
		Path:       cfg.BBoltPath,
		RedisAddr:  cfg.RedisAddr,
		RedisDB:    cfg.RedisDB,
		SessionTTL: cfg.StorageTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	log.InfoObj("session store ready", "storage_type", cfg.StorageType)

	sink, err := sinks.New(ctx, sinks.Config{
		Type:           cfg.SinkType,
		Dir:            cfg.DownloadDir,
		S3Bucket:       cfg.S3Bucket,
		S3Region:       cfg.S3Region,
		S3Prefix:       cfg.S3Prefix,
		S3Endpoint:     cfg.S3Endpoint,
		S3AccessKey:    cfg.S3AccessKey,
		S3SecretKey:    cfg.S3SecretKey,
		MinIOEndpoint:  cfg.MinIOEndpoint,
		MinIOAccessKey: cfg.MinIOAccessKey,
		MinIOSecretKey: cfg.MinIOSecretKey,
		MinIOBucket:    cfg.MinIOBucket,
		MinIOUseSSL:    cfg.MinIOUseSSL,
		MinIOPrefix:    cfg.MinIOPrefix,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build document sink: %w", err)
	}
	log.InfoObj("document sink ready", "sink_type", sink.Type())

	fanout, err := buildFanout(ctx, cfg.NotifiersFile, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	if out == nil {
		out = os.Stdout
	}
	demo, err := NewDemo(cfg, Deps{
		API:      signaturbox.New(hc, log),
		Store:    store,
		Sink:     sink,
		Fanout:   fanout,
		Gatherer: metrics.NewRegistry(),
		Open:     browser.OpenURL,
		Prompt:   NewConsole(os.Stdin, out),
		Out:      out,
	}, log)
	if err != nil {
		_ = fanout.Close()
		_ = store.Close()
		return nil, err
	}

	return &Runtime{Demo: demo, store: store, fanout: fanout}, nil
}

func buildFanout(ctx context.Context, path string, log logger.Logger) (*notifiers.Fanout, error) {
	if path == "" {
		return notifiers.NewFanout(nil), nil
	}
	reg, err := notifiers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load notifiers registry: %w", err)
	}
	enabled := reg.Enabled()
	clients, err := notifiers.BuildAll(ctx, notifiers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build notifiers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, n := range enabled {
		summaries = append(summaries, map[string]string{"id": n.ID, "type": n.Type})
	}
	log.InfoObj("notifiers registry loaded", "notifiers_meta", map[string]any{
		"count":     len(summaries),
		"notifiers": summaries,
	})
	return notifiers.NewFanout(clients), nil
}

// Close releases the store and notifier clients.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	return errors.Join(r.fanout.Close(), r.store.Close())
}
