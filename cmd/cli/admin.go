package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Tushar365/reportappmedghor/internal/config"
	"github.com/Tushar365/reportappmedghor/internal/models"
	"github.com/Tushar365/reportappmedghor/internal/repositories"
	"github.com/Tushar365/reportappmedghor/internal/services"
	"github.com/Tushar365/reportappmedghor/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func connect(ctx context.Context, cmd *cobra.Command, logger zerolog.Logger) (*config.Config, *pgxpool.Pool, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	pool, err := database.NewPool(ctx, cfg.Database.URL, 2, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return cfg, pool, nil
}

func NewMigrateCmd(logger zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			_, pool, err := connect(ctx, cmd, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := database.Migrate(ctx, pool); err != nil {
				return err
			}
			logger.Info().Msg("schema is up to date")
			return nil
		},
	}
}

type CreateAdminCmd struct {
	username string
	email    string
	password string
	fullName string
	logger   zerolog.Logger
}

// NewCreateAdminCmd bootstraps the first administrator account
func NewCreateAdminCmd(logger zerolog.Logger) *cobra.Command {
	ac := &CreateAdminCmd{logger: logger}
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.username, "username", "", "Login name")
	cmd.Flags().StringVar(&ac.email, "email", "", "Email address")
	cmd.Flags().StringVar(&ac.password, "password", "", "Password (at least 6 characters)")
	cmd.Flags().StringVar(&ac.fullName, "full-name", "", "Display name")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func (ac *CreateAdminCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, pool, err := connect(ctx, cmd, ac.logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		return err
	}

	authSvc := services.NewAuthService(repositories.NewUserRepo(pool), cfg.Auth.JWTSecret, cfg.TokenTTL())
	user, err := authSvc.Register(ac.logger.WithContext(ctx), services.RegisterInput{
		Username: ac.username,
		Email:    ac.email,
		Password: ac.password,
		FullName: ac.fullName,
	}, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	ac.logger.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("admin created")
	return nil
}
