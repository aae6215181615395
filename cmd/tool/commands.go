package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/baechuer/nutrition-service/internal/application/catalog"
	"github.com/baechuer/nutrition-service/internal/application/role"
	"github.com/baechuer/nutrition-service/internal/infrastructure/db/postgres"
)

const commandTimeout = time.Minute

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create missing tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if err := postgres.EnsureSchema(ctx, db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema ok (%d statements)\n", len(postgres.SchemaStatements()))
			return nil
		},
	}
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install canonical roles, units and meal types",
		Long: `Insert the canonical roles (ROLE_GUEST, ROLE_USER, ROLE_ADMIN) when missing,
and the default units and meal types into empty tables. Safe to run repeatedly.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			roles, err := role.NewService(postgres.NewRoleRepo(db)).Seed(ctx)
			if err != nil {
				return fmt.Errorf("seed roles: %w", err)
			}
			res, err := catalog.NewService(postgres.NewCatalogRepo(db)).Seed(ctx)
			if err != nil {
				return fmt.Errorf("seed catalog: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted roles=%d units=%d meal_types=%d\n", roles, res.Units, res.MealTypes)
			return nil
		},
	}
}

func newRolesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List roles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			rs, err := role.NewService(postgres.NewRoleRepo(db)).GetAllRoles(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tFRIENDLY NAME")
			for _, r := range rs {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", r.ID, r.Name, r.FriendlyName)
			}
			return tw.Flush()
		},
	}
}
