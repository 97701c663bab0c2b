package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/urfave/cli/v3"

	"distream/internal/models"
	"distream/internal/session"
	"distream/internal/shared"
)

// AuthLogin signs in with email and password and persists the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireGuest(); err != nil {
		return err
	}

	input := models.LoginInput{
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
	}
	if input.Email == "" || input.Password == "" {
		return fmt.Errorf("%w: --email and --password are required", shared.ErrMissingArgument)
	}

	r.logger.Info("signing in", "email", input.Email)

	user, err := r.session.Login(ctx, input)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	r.writePlain("✓ Signed in as %s (%s)\n", user.Nickname, user.Email)
	if user.IsAdmin() {
		r.writePlain("Role: admin\n")
	}
	return nil
}

// AuthRegister creates an account with the chosen plan and signs in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireGuest(); err != nil {
		return err
	}

	plan, err := models.ParsePlan(cmd.String("plan"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	input := models.RegisterInput{
		Nickname:             cmd.String("nickname"),
		Email:                cmd.String("email"),
		Password:             cmd.String("password"),
		PasswordConfirmation: cmd.String("password"),
		Plan:                 plan,
	}
	if err := input.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	r.logger.Info("registering", "email", input.Email, "plan", plan)

	user, err := r.session.Register(ctx, input)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	r.writePlain("✓ Account created for %s\n", user.Email)
	r.writePlain("Plan: %s\n", user.Plan)
	return nil
}

// AuthLogout ends the session. Local credentials are cleared even when the
// server rejects or never sees the logout request.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if _, ok := r.session.User(); !ok {
		r.writePlain("Not signed in\n")
		return nil
	}

	r.session.Logout(ctx)
	r.writePlain("✓ Signed out\n")
	return nil
}

// AuthWhoami prints the current session's user profile.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuthenticated(); err != nil {
		return err
	}

	user, _ := r.session.User()
	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}

	r.writePlain("User: %s\n", user.Nickname)
	r.writePlain("Email: %s\n", user.Email)
	r.writePlain("Role: %s\n", user.Role)
	if user.Plan != "" {
		r.writePlain("Plan: %s\n", user.Plan)
	}
	return nil
}

// AuthStatus reports the session state and whether the API is reachable.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	switch state := r.session.Current().(type) {
	case session.Authenticated:
		r.writePlain("Session: ✓ Authenticated as %s\n", state.User.Email)
	case session.Anonymous:
		r.writePlain("Session: ✗ Anonymous\n")
	default:
		r.writePlain("Session: … Initializing\n")
	}

	resp, err := r.client.Get(ctx, "/movies")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		r.writePlain("API: ✓ Reachable (%s)\n", r.client.BaseURL())
		return nil
	}
	r.writePlain("API: ✗ Status %d\n", resp.StatusCode)
	return nil
}

// AuthImport extracts a bearer token from a browser DevTools cURL capture,
// verifies it against the catalog, and persists it so a browser session
// carries over to the CLI.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	curlFile := cmd.String("curl-file")
	if curlFile == "" {
		return fmt.Errorf("%w: --curl-file must be provided", shared.ErrMissingArgument)
	}

	r.logger.Info("parsing cURL capture", "file", curlFile)

	token, err := shared.ParseCurlFile(curlFile)
	if err != nil {
		return fmt.Errorf("failed to parse cURL file: %w", err)
	}

	if err := r.probeToken(ctx, token); err != nil {
		return err
	}

	// Persist a placeholder profile alongside the token so the session
	// hydrates Authenticated on the next run. Login replaces it with the
	// real one.
	profile := models.User{Nickname: "imported", Role: models.RoleUser}
	if err := r.store.Save(token, profile); err != nil {
		return fmt.Errorf("failed to persist credentials: %w", err)
	}

	r.writePlain("✓ Token verified and imported\n")
	r.writePlain("Signed-in commands now use the imported session; 'distream auth login' restores the full profile.\n")
	return nil
}

// probeToken checks a captured token against the catalog before it is
// trusted. A rejection means the browser session already expired.
func (r *Runner) probeToken(ctx context.Context, token string) error {
	probeURL := fmt.Sprintf("%s/movies?page=1&limit=1", r.config.API.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build probe request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: the captured token was rejected, sign in again in the browser", shared.ErrAuthFailed)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: verification returned status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}
	return nil
}

// authCommand handles session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "nickname",
						Usage:    "Display name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password (min 8 characters)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "plan",
						Usage: "Subscription plan (mobile, basic, standard, premium)",
						Value: "basic",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and clear stored credentials",
				Action: r.AuthLogout,
			},
			{
				Name:  "whoami",
				Usage: "Show the signed-in user",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthWhoami,
			},
			{
				Name:   "status",
				Usage:  "Check session state and API reachability",
				Action: r.AuthStatus,
			},
			{
				Name:  "import",
				Usage: "Import a bearer token from a browser cURL capture",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to file containing a cURL command (Copy as cURL)",
					},
				},
				Action: r.AuthImport,
			},
		},
	}
}
