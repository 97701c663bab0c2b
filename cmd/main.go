package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"distream/internal/api"
	"distream/internal/credentials"
	"distream/internal/services"
	"distream/internal/session"
	"distream/internal/shared"
	"distream/internal/tasks"
)

func main() {
	logger := shared.WithLogger(shared.NewLogger(nil), "run", shared.GenerateID())

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	store := credentials.NewStore(config.CredentialsDir(), config.API.BaseURL)

	httpClient := &http.Client{Timeout: time.Duration(config.API.Timeout) * time.Second}
	client := api.NewClient(config.API.BaseURL, httpClient, store)

	auth := services.NewAuth(client)
	movies := services.NewMovies(client)
	genres := services.NewGenres(client)
	actors := services.NewActors(client)
	reviews := services.NewReviews(client)
	history := services.NewHistory(client)

	controller := session.NewController(store, auth)
	client.SetUnauthorizedHandler(controller.HandleUnauthorized)
	controller.Hydrate()

	var engine *tasks.CatalogEngine
	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		engine = tasks.NewCatalogEngineWithDB(movies, genres, client, db)
	} else {
		logger.Debug("local cache unavailable", "error", err)
		engine = tasks.NewCatalogEngine(movies, genres, client, nil, nil)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		Store:      store,
		Client:     client,
		Session:    controller,
		Auth:       auth,
		Movies:     movies,
		Genres:     genres,
		Actors:     actors,
		Reviews:    reviews,
		History:    history,
		Engine:     engine,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "distream",
		Usage:    "Browse and manage the DiStreaming movie catalog",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
