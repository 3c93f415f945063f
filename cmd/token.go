package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/gan-shmuel/weight-service/internal/service"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token <operator-id>",
	Short: "Issue an operator token for admin routes",
	Long: `Issue a signed operator token using JWT_SECRET_KEY and JWT_ISSUER.

The token is accepted as "Authorization: Bearer <token>" on POST /batch-weight
when AUTH_ENABLED is true.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Auth.JWTSecret == "" {
			return errors.New("JWT_SECRET_KEY is not set")
		}
		tokens, err := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
		if err != nil {
			return err
		}
		token, err := tokens.Issue(args[0], name, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Generate a JWT secret and an API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, err := generateSecureKey(32)
		if err != nil {
			return fmt.Errorf("generate JWT secret: %w", err)
		}
		apiKey, err := generateSecureKey(24)
		if err != nil {
			return fmt.Errorf("generate API key: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "JWT_SECRET_KEY=%s\n", secret)
		fmt.Fprintf(out, "API_KEYS=%s\n", apiKey)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("name", "", "Operator display name")
	tokenCmd.Flags().Duration("ttl", 12*time.Hour, "Token lifetime")
}

func generateSecureKey(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
