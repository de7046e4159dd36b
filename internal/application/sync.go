package application

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"daybook/internal/domain"
	"daybook/internal/ports"
)

// Provider names used in sync state and logs.
const (
	ProviderDrive = "drive"
	ProviderGraph = "graph"
)

// Orchestrator drives full bidirectional syncs against the configured
// cloud providers and owns the process-wide SyncState. Overlapping sync
// attempts are rejected with ErrSyncInProgress.
type Orchestrator struct {
	journal   *Journal
	providers []ports.CloudProvider
	logger    *log.Logger
	now       func() time.Time

	mu         sync.Mutex
	state      domain.SyncState
	identities map[string]*domain.Identity
}

// NewOrchestrator creates an orchestrator over journal and providers.
// A nil logger discards output.
func NewOrchestrator(journal *Journal, providers []ports.CloudProvider, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Orchestrator{
		journal:    journal,
		providers:  providers,
		logger:     logger,
		now:        time.Now,
		identities: make(map[string]*domain.Identity),
	}
}

// State returns a snapshot of the current sync state.
func (o *Orchestrator) State() domain.SyncState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Identity returns the connected account for a provider name, or nil when
// unknown or disconnected.
func (o *Orchestrator) Identity(name string) *domain.Identity {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.identities[name]
}

// RefreshConnections probes every provider's connectivity and identity
// concurrently and loads the persisted last-sync time into the state.
// Probe failures mean "not connected", never an error.
func (o *Orchestrator) RefreshConnections(ctx context.Context) {
	var group errgroup.Group
	for _, provider := range o.providers {
		group.Go(func() error {
			connected := provider.IsConnected(ctx)
			var identity *domain.Identity
			if connected {
				identity = provider.Identity(ctx)
			}

			o.mu.Lock()
			o.setConnected(provider.Name(), connected)
			o.identities[provider.Name()] = identity
			o.mu.Unlock()
			return nil
		})
	}
	group.Wait()

	lastSync := o.journal.LastSyncTime(ctx)
	o.mu.Lock()
	o.state.LastSyncTime = lastSync
	o.mu.Unlock()
}

// FullSync runs one upload-then-download cycle against a single provider.
func (o *Orchestrator) FullSync(ctx context.Context, provider ports.CloudProvider) (domain.SyncCounts, error) {
	if !provider.IsConnected(ctx) {
		return domain.SyncCounts{}, ErrNotConnected
	}
	if err := o.begin(); err != nil {
		return domain.SyncCounts{}, err
	}

	counts, err := o.fullSync(ctx, provider)
	o.finish(ctx, err)
	return counts, err
}

// SyncAll runs FullSync concurrently against every currently-connected
// provider and waits for all of them. One failing provider fails the
// whole call even when the other succeeded; the provider syncs themselves
// are independent.
func (o *Orchestrator) SyncAll(ctx context.Context) (map[string]domain.SyncCounts, error) {
	if err := o.begin(); err != nil {
		return nil, err
	}

	o.mu.Lock()
	var targets []ports.CloudProvider
	for _, provider := range o.providers {
		if o.connected(provider.Name()) {
			targets = append(targets, provider)
		}
	}
	o.mu.Unlock()

	results := make(map[string]domain.SyncCounts, len(targets))
	var resultsMu sync.Mutex

	group, ctx := errgroup.WithContext(ctx)
	for _, provider := range targets {
		group.Go(func() error {
			counts, err := o.fullSync(ctx, provider)
			if err != nil {
				return err
			}
			resultsMu.Lock()
			results[provider.Name()] = counts
			resultsMu.Unlock()
			return nil
		})
	}

	err := group.Wait()
	o.finish(ctx, err)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// fullSync is the unguarded sync cycle: export-and-upload everything, then
// list-download-and-import everything. Both phases are sequential and
// fail-fast; conflict policy is last-writer-wins in both directions.
func (o *Orchestrator) fullSync(ctx context.Context, provider ports.CloudProvider) (domain.SyncCounts, error) {
	var counts domain.SyncCounts
	name := provider.Name()

	records, err := o.journal.ExportAll(ctx)
	if err != nil {
		return counts, &SyncError{Provider: name, Phase: "upload", Err: err}
	}
	for _, record := range records {
		if err := provider.Upload(ctx, record.Path, record.Content); err != nil {
			return counts, &SyncError{Provider: name, Phase: "upload", Err: err}
		}
		counts.Uploaded++
	}
	o.logger.Debug("upload phase complete", "provider", name, "uploaded", counts.Uploaded)

	files, err := provider.ListJournalFiles(ctx)
	if err != nil {
		return counts, &SyncError{Provider: name, Phase: "download", Err: err}
	}
	for _, file := range files {
		content, err := provider.Download(ctx, file.Ref)
		if err != nil {
			return counts, &SyncError{Provider: name, Phase: "download", Err: err}
		}
		if err := o.journal.ImportRecord(ctx, file.Path, content); err != nil {
			return counts, &SyncError{Provider: name, Phase: "download", Err: err}
		}
		counts.Downloaded++
	}
	o.logger.Debug("download phase complete", "provider", name, "downloaded", counts.Downloaded)

	return counts, nil
}

// begin flips the syncing flag, rejecting overlap.
func (o *Orchestrator) begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Syncing {
		return ErrSyncInProgress
	}
	o.state.Syncing = true
	o.state.LastError = ""
	return nil
}

// finish records the cycle's outcome: the error message on failure, a
// fresh persisted last-sync time on success.
func (o *Orchestrator) finish(ctx context.Context, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Syncing = false

	if err != nil {
		o.state.LastError = err.Error()
		o.logger.Error("sync failed", "err", err)
		return
	}

	now := o.now()
	if err := o.journal.SetLastSyncTime(ctx, now); err != nil {
		o.logger.Warn("could not persist last sync time", "err", err)
	}
	o.state.LastSyncTime = now
	o.logger.Info("sync complete", "at", now.Format(time.RFC3339))
}

func (o *Orchestrator) setConnected(name string, connected bool) {
	switch name {
	case ProviderDrive:
		o.state.ConnectedDrive = connected
	case ProviderGraph:
		o.state.ConnectedGraph = connected
	}
}

func (o *Orchestrator) connected(name string) bool {
	switch name {
	case ProviderDrive:
		return o.state.ConnectedDrive
	case ProviderGraph:
		return o.state.ConnectedGraph
	default:
		return false
	}
}
