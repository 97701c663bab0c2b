package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"distream/internal/models"
	"distream/internal/services"
	"distream/internal/shared"
)

// PlansList prints the subscription plan catalog.
func (r *Runner) PlansList(ctx context.Context, cmd *cli.Command) error {
	plans := models.PlanCatalog()

	if cmd.Bool("json") {
		return r.writeJSON(plans, true)
	}

	r.writePlainHeader("Subscription Plans")
	for _, plan := range plans {
		marker := " "
		if user, ok := r.session.User(); ok && user.Plan == plan.ID {
			marker = "*"
		}
		r.writePlain("%s %-10s %-12s %s (%s)\n", marker, plan.Name, plan.Price, plan.Quality, plan.Resolution)
	}
	return nil
}

// PlansSet changes the signed-in user's subscription plan.
func (r *Runner) PlansSet(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuthenticated(); err != nil {
		return err
	}

	plan, err := models.ParsePlan(cmd.String("plan"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	user, _ := r.session.User()

	r.logger.Info("changing plan", "user", user.UserID, "plan", plan)

	updated, err := r.auth.UpdateUser(ctx, user.UserID, services.UserUpdate{Plan: plan})
	if err != nil {
		return fmt.Errorf("failed to change plan: %w", err)
	}

	r.session.UpdateUser(*updated)

	r.writePlain("✓ Plan changed to %s\n", updated.Plan)
	return nil
}

// plansCommand handles subscription plan operations
func plansCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "plans",
		Usage: "View and change subscription plans",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show the plan catalog",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlansList,
			},
			{
				Name:  "set",
				Usage: "Change your subscription plan",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "plan",
						Usage:    "Target plan (mobile, basic, standard, premium)",
						Required: true,
					},
				},
				Action: r.PlansSet,
			},
		},
	}
}
