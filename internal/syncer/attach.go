package syncer

import (
	"go.uber.org/zap"

	"github.com/teppoaland/sbsaa/internal/azure"
	"github.com/teppoaland/sbsaa/internal/config"
	"github.com/teppoaland/sbsaa/internal/mapping"
	"github.com/teppoaland/sbsaa/internal/runner"
)

// Enabled reports whether the synchronization path will be active: it is
// the same credential check Attach performs, exposed for callers that want
// to announce the integration status up front.
func Enabled(configDir string, logger *zap.Logger) bool {
	return config.CredentialPresent(configDir, logger)
}

// Attach wires the synchronization path onto the runner hooks and returns
// the static association registry for test definitions to populate.
//
// When no credential token is present the whole path is skipped by design
// with a one-line notice; this is the normal state for local development.
// Static associations still publish usable report links either way: the
// organization URL and project resolve from public settings without a
// credential.
func Attach(hooks *runner.Hooks, configDir string, sink ReportSink, dispositions DispositionSink, logger *zap.Logger) (*Registry, error) {
	if !Enabled(configDir, logger) {
		logger.Info("azure devops credential not found, skipping integration (normal for local development)")
		public := config.ResolvePublic(configDir, logger)
		return NewRegistry(public.WorkItemURL, sink), nil
	}

	cfg, err := config.Resolve(configDir, logger)
	if err != nil {
		// A credential without the remaining mandatory keys is a
		// configuration error, not a disabled integration.
		return nil, err
	}

	registry := NewRegistry(cfg.WorkItemURL, sink)
	store := mapping.NewStore(configDir, cfg, logger)
	client := azure.New(cfg, logger)

	sync := New(store, registry, client, dispositions, cfg.OrganizationURL, cfg.Project, logger)
	hooks.Subscribe(sync)
	return registry, nil
}
