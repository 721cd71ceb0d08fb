package system

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Alijeyrad/clinica_backend/cmd/cliutil"
	"github.com/Alijeyrad/clinica_backend/pkg/redis"
)

func NewRevokeCommand() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke a token session",
		Long:  "Delete a session from Redis. Tokens issued for it are rejected on the next request.",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(sessionID)
			if err != nil {
				return fmt.Errorf("--session must be a UUID: %w", err)
			}

			cfg, err := cliutil.Config(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			rdb, err := redis.Connect(ctx, cfg.Redis)
			if err != nil {
				return err
			}
			defer rdb.Close()

			if err := redis.NewSessions(rdb).Revoke(ctx, id); err != nil {
				return err
			}
			fmt.Printf("session %s revoked\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "session id")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}
