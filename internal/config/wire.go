package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"daybook/internal/adapters/auth"
	"daybook/internal/adapters/drive"
	"daybook/internal/adapters/graph"
	"daybook/internal/adapters/keyvalue"
	"daybook/internal/application"
	"daybook/internal/ports"
)

// tokenTTL is how long a provider credential is cached before the source
// is asked again.
const tokenTTL = 55 * time.Minute

// Open wires the journal, its store and the configured cloud providers.
// The returned close function releases the store.
func Open(cfg Config, logger *log.Logger) (*application.Journal, *application.Orchestrator, func() error, error) {
	kv, err := openStore(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	journal := application.NewJournal(kv, logger)
	orch := application.NewOrchestrator(journal, Providers(cfg, logger), logger)
	return journal, orch, kv.Close, nil
}

func openStore(cfg Config) (ports.KeyValue, error) {
	switch cfg.Store {
	case "sqlite":
		return keyvalue.OpenSQLite(cfg.StorePath)
	case "fs":
		return keyvalue.OpenFS(cfg.DataDir)
	default:
		return nil, fmt.Errorf("unknown store backend %q (want sqlite or fs)", cfg.Store)
	}
}

// Providers builds a cloud adapter for every credential present in cfg.
// Tokens are re-read from the environment on refresh so a rotated value
// is picked up without a restart.
func Providers(cfg Config, logger *log.Logger) []ports.CloudProvider {
	var providers []ports.CloudProvider

	if cfg.DriveToken != "" {
		tokens := auth.NewCredentialCache(auth.EnvTokenSource{Var: "DAYBOOK_DRIVE_TOKEN"}, tokenTTL)
		client := drive.NewClient(tokens, logger)
		if cfg.DriveBaseURL != "" {
			client.SetBaseURL(cfg.DriveBaseURL)
		}
		providers = append(providers, client)
	}

	if cfg.GraphToken != "" {
		tokens := auth.NewCredentialCache(auth.EnvTokenSource{Var: "DAYBOOK_GRAPH_TOKEN"}, tokenTTL)
		client := graph.NewClient(tokens, logger)
		if cfg.GraphBaseURL != "" {
			client.SetBaseURL(cfg.GraphBaseURL)
		}
		providers = append(providers, client)
	}

	return providers
}
