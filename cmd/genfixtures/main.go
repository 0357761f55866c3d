// Command genfixtures creates the signed S/MIME test mails consumed by the
// ACME email client's unit tests. All parameters are fixed in the scenario
// table; run it from the repository root after genkeys.
//
// WARNING: DO NOT USE THIS CODE TO GENERATE REAL S/MIME MAILS! The output
// deliberately includes tampered envelopes and untrusted signers.
package main

import (
	"fmt"
	"os"

	"github.com/acmemail/smime-fixtures/fixtures"
	"github.com/acmemail/smime-fixtures/internal/logger"
)

func main() {
	logger.Init()
	defer logger.Sync()

	cfg, err := fixtures.LoadConfig("fixtures.json")
	if err != nil {
		logger.LogError("invalid configuration", err, nil)
		os.Exit(1)
	}

	if err := fixtures.Generate(cfg); err != nil {
		logger.LogError("fixture generation failed", err, nil)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d fixtures to %s\n", len(fixtures.Scenarios), cfg.OutputDir)
}
