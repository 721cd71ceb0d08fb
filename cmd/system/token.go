package system

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	pasetotoken "github.com/Alijeyrad/clinica_backend/pkg/paseto"
	"github.com/Alijeyrad/clinica_backend/cmd/cliutil"
	"github.com/Alijeyrad/clinica_backend/pkg/redis"
)

func NewTokenCommand() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a user",
		Long: `Issue a PASETO access token for a user and register its session in Redis.

Deleting the session key (session:<id>) revokes the token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("--user must be a UUID: %w", err)
			}

			cfg, err := cliutil.Config(cmd)
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = time.Duration(cfg.Authentication.SessionTTLMinutes) * time.Minute
			}
			if ttl <= 0 {
				ttl = time.Duration(cfg.Authentication.Paseto.AccessTTLMinutes) * time.Minute
			}

			mgr, err := pasetotoken.NewPasetoManager(cfg)
			if err != nil {
				return fmt.Errorf("failed to load paseto keys: %w", err)
			}
			if !mgr.CanIssue() {
				return fmt.Errorf("paseto %s mode has no signing key configured", cfg.Authentication.Paseto.Mode)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			rdb, err := redis.Connect(ctx, cfg.Redis)
			if err != nil {
				return err
			}
			defer rdb.Close()

			sessionID := uuid.Must(uuid.NewV7())
			if err := redis.NewSessions(rdb).Put(ctx, sessionID, id, ttl); err != nil {
				return err
			}

			tok, err := mgr.IssueAccess(id, &sessionID, ttl)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}
			fmt.Println(tok)
			fmt.Fprintf(cmd.ErrOrStderr(), "session %s expires in %s\n", sessionID, ttl)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to the configured session TTL)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
