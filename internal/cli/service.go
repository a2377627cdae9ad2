package cli

import "github.com/okian/novacat/internal/app"

// newService builds a catalog service from the loaded configuration.
func newService() (*app.Service, error) {
	return app.New(
		app.WithDataDir(cfg.DataDir),
		app.WithRepos(cfg.Repos),
		app.WithPrefixes(cfg.PriorityPrefixes),
		app.WithQueueCapacity(cfg.QueueSize),
		app.WithCompressAbove(cfg.CompressAboveBytes),
		app.WithStatsAddr(cfg.StatsAddr),
	)
}
