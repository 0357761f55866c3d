package fixtures

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/acmemail/smime-fixtures/internal/logger"
	"github.com/acmemail/smime-fixtures/smime"
)

// Generate signs every scenario and writes the resulting .eml files. The
// first failure aborts the run; generation is idempotent and can simply be
// rerun after the cause is fixed.
func Generate(cfg *Config) error {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("cannot create output directory: %w", err)
	}

	for _, sc := range Scenarios {
		if err := generateOne(cfg, sc); err != nil {
			return fmt.Errorf("fixture %s: %w", sc.Output, err)
		}
	}
	return nil
}

func generateOne(cfg *Config, sc Scenario) error {
	signer, err := smime.LoadSigner(
		filepath.Join(cfg.KeyDir, sc.KeyFile),
		filepath.Join(cfg.KeyDir, sc.CertFile),
	)
	if err != nil {
		return err
	}

	msg := smime.Message{
		From:    sc.From,
		To:      sc.To,
		Subject: sc.Subject,
		Body:    sc.Body,
	}
	signed, err := signer.SignMail(msg, sc.Envelope)
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.OutputDir, sc.Output)
	if err := os.WriteFile(path, signed.Bytes(), 0644); err != nil {
		return fmt.Errorf("cannot write fixture: %w", err)
	}

	logger.LogFixtureWritten(sc.Output, path, signed.Envelope.From, signed.Envelope.To)
	return nil
}
