package app

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
)

// verifierLeeway absorbs clock skew between hosts sharing a signing key.
const verifierLeeway = 30 * time.Second

// tokenKeys bundles what the token service needs to sign and verify.
type tokenKeys struct {
	signer   jwtx.Signer
	verifier jwtx.Verifier
}

// InitTokenKeys loads the Ed25519 signing key from cfg.SigningKeyFile,
// creating the file on first start. Without a file an ephemeral key is
// generated and every token dies with the process.
func InitTokenKeys(cfg Config, logger *slog.Logger) (tokenKeys, error) {
	var (
		priv ed25519.PrivateKey
		err  error
	)

	if cfg.SigningKeyFile != "" {
		priv, err = cryptox.LoadOrCreateEd25519Key(cfg.SigningKeyFile)
		if err != nil {
			return tokenKeys{}, fmt.Errorf("failed to load signing key: %w", err)
		}
		logger.Info("signing key loaded", "path", cfg.SigningKeyFile)
	} else {
		if _, priv, err = ed25519.GenerateKey(rand.Reader); err != nil {
			return tokenKeys{}, fmt.Errorf("failed to generate signing key: %w", err)
		}
		logger.Warn("using an ephemeral signing key, tokens will not survive a restart")
	}

	signer, err := jwtx.NewSignerEdDSA("", priv)
	if err != nil {
		return tokenKeys{}, err
	}

	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)

	logger.Info("token signer ready", "kid", signer.KID(), "issuer", cfg.TokenIssuer)
	return tokenKeys{
		signer:   signer,
		verifier: jwtx.NewVerifierEdDSA(keys, cfg.TokenIssuer, verifierLeeway),
	}, nil
}

// InitPepper loads the password pepper, creating it on first start.
func InitPepper(cfg Config) (string, error) {
	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return "", fmt.Errorf("failed to load pepper: %w", err)
	}
	return pepper, nil
}
