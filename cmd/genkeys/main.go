// Command genkeys writes the PEM key material the fixture generator
// consumes. Rerunning it replaces the identities, so the fixtures must be
// regenerated afterwards.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/acmemail/smime-fixtures/fixtures"
	"github.com/acmemail/smime-fixtures/internal/keys"
	"github.com/acmemail/smime-fixtures/internal/logger"
)

// The invalid signer carries a matching email SAN but is a different
// self-signed certificate, so it never chains to the trusted one.
var identities = []struct {
	name    string
	email   string
	withSAN bool
}{
	{"valid-signer", "valid-ca@example.com", true},
	{"valid-signer-nosan", "valid-ca@example.com", false},
	{"invalid-signer", "valid-ca@example.com", true},
}

func main() {
	logger.Init()
	defer logger.Sync()

	cfg, err := fixtures.LoadConfig("fixtures.json")
	if err != nil {
		logger.LogError("invalid configuration", err, nil)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.KeyDir, 0755); err != nil {
		logger.LogError("cannot create key directory", err, nil)
		os.Exit(1)
	}

	for _, id := range identities {
		ident, err := keys.New(id.name, id.email, id.withSAN)
		if err != nil {
			logger.LogError("key generation failed", err, map[string]string{"identity": id.name})
			os.Exit(1)
		}

		certPath := filepath.Join(cfg.KeyDir, id.name+".pem")
		keyPath := filepath.Join(cfg.KeyDir, id.name+"-privkey.pem")
		if err := ident.WritePEM(certPath, keyPath); err != nil {
			logger.LogError("cannot write key material", err, map[string]string{"identity": id.name})
			os.Exit(1)
		}

		logger.LogKeyMaterial(id.name, certPath, keyPath)
	}

	fmt.Printf("Wrote %d identities to %s\n", len(identities), cfg.KeyDir)
}
