package cli

import (
	"context"
	"fmt"
	"io"

	"scrapi-go/pkg/cli/format"
	"scrapi-go/pkg/models"
)

// Marketplace prints public actors matching q.
func (a *App) Marketplace(ctx context.Context, w io.Writer, q models.MarketplaceQuery) error {
	apiClient, err := a.getClient()
	if err != nil {
		return err
	}
	actors, err := apiClient.Marketplace(ctx, q)
	if err != nil {
		return fmt.Errorf("error fetching marketplace: %w", err)
	}
	format.Actors(w, actors)
	return nil
}

// ListActors prints the actors owned by the current user.
func (a *App) ListActors(ctx context.Context, w io.Writer) error {
	apiClient, err := a.getClient()
	if err != nil {
		return err
	}
	actors, err := apiClient.ListActors(ctx)
	if err != nil {
		return fmt.Errorf("error fetching actors: %w", err)
	}
	format.Actors(w, actors)
	return nil
}

// ForkActor copies an actor into the user's account.
func (a *App) ForkActor(ctx context.Context, w io.Writer, actorID string) error {
	apiClient, err := a.getClient()
	if err != nil {
		return err
	}
	forked, err := apiClient.ForkActor(ctx, actorID)
	if err != nil {
		return fmt.Errorf("fork failed: %w", err)
	}
	_, _ = fmt.Fprintln(w, format.SuccessMessage("Actor forked successfully!"))
	format.ActorDetails(w, forked)
	return nil
}
