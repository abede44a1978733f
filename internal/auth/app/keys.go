package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/careerhive/careerhive/pkg/jwtx"
)

// InitCodec builds the token codec from the configured Ed25519 key.
//
// With AUTH_SIGNING_KEY_FILE set, the PKCS8 PEM at that path is loaded
// and tokens survive service restarts. Without it a throwaway keypair
// is generated on startup, which invalidates every outstanding token —
// fine for dev, loud warning in the logs so it never sneaks into prod.
func InitCodec(cfg Config, logger *slog.Logger) (*jwtx.Codec, error) {
	if cfg.SigningKeyFile != "" {
		pemKey, err := os.ReadFile(cfg.SigningKeyFile)
		if err != nil {
			return nil, fmt.Errorf("read signing key %s: %w", cfg.SigningKeyFile, err)
		}

		codec, err := jwtx.NewCodec(cfg.Issuer, pemKey)
		if err != nil {
			return nil, fmt.Errorf("load signing key %s: %w", cfg.SigningKeyFile, err)
		}

		logger.Info("signing key loaded", "path", cfg.SigningKeyFile, "issuer", cfg.Issuer)
		return codec, nil
	}

	codec, err := jwtx.NewEphemeralCodec(cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("generate ephemeral signing key: %w", err)
	}

	logger.Info("generated ephemeral signing key", "issuer", cfg.Issuer)
	logger.Warn("all existing tokens are now invalid due to key rotation on startup")

	return codec, nil
}
