package main

import (
	"github.com/kompox/tfcsync/adapters/tfc"
	"github.com/kompox/tfcsync/adapters/webhook"
	"github.com/kompox/tfcsync/config/syncenv"
	"github.com/kompox/tfcsync/internal/metrics"
	"github.com/kompox/tfcsync/usecase/history"
	"github.com/kompox/tfcsync/usecase/statesync"
)

// buildTFCClient creates the state-management API client from cfg.
func buildTFCClient(cfg *syncenv.Config) (*tfc.Client, error) {
	return tfc.NewClient(cfg.Address, cfg.Token)
}

// buildSyncUseCase creates the sync use case with its ports, repository and metrics.
func buildSyncUseCase(cfg *syncenv.Config) (*statesync.UseCase, error) {
	client, err := buildTFCClient(cfg)
	if err != nil {
		return nil, err
	}
	repo, err := buildRunRepository(cfg)
	if err != nil {
		return nil, err
	}
	return &statesync.UseCase{
		Repos:     &statesync.Repos{Run: repo},
		StatePort: client,
		Publisher: webhook.NewPublisher(cfg.WebhookURL, nil),
		Metrics:   metrics.NewRecorder(),
	}, nil
}

// buildHistoryUseCase creates history use case with required repositories.
func buildHistoryUseCase(cfg *syncenv.Config) (*history.UseCase, error) {
	repo, err := buildRunRepository(cfg)
	if err != nil {
		return nil, err
	}
	return &history.UseCase{Repos: &history.Repos{Run: repo}}, nil
}
