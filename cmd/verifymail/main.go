// Command verifymail checks generated fixture mails the way a consuming
// ACME client would: signature, certificate chain, sender SAN, and
// envelope-vs-signed header comparison.
package main

import (
	"crypto/x509"
	"fmt"
	"os"

	"github.com/pborman/getopt"
	"github.com/pkg/errors"

	"github.com/acmemail/smime-fixtures/smime"
)

var (
	caOpt    = getopt.StringLong("ca", 'c', "", "PEM certificate to trust instead of the system roots", "file")
	helpFlag = getopt.BoolLong("help", 'h', "print this help message")
)

func main() {
	getopt.SetParameters("file.eml ...")
	getopt.Parse()

	if *helpFlag {
		getopt.Usage()
		os.Exit(0)
	}

	args := getopt.Args()
	if len(args) == 0 {
		getopt.Usage()
		os.Exit(1)
	}

	var opts smime.VerifyOptions
	if *caOpt != "" {
		pool, err := loadRoots(*caOpt)
		if err != nil {
			fail(err)
		}
		opts.Roots = pool
	}

	for _, path := range args {
		if err := verifyFile(path, opts); err != nil {
			fail(errors.Wrap(err, path))
		}
		fmt.Printf("%s: OK\n", path)
	}
}

func verifyFile(path string, opts smime.VerifyOptions) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	parsed, err := smime.ParseMail(raw)
	if err != nil {
		return err
	}

	return smime.VerifyMail(parsed, opts)
}

func loadRoots(path string) (*x509.CertPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CA file")
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return nil, errors.Errorf("no certificates found in %s", path)
	}
	return pool, nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "verifymail:", err)
	os.Exit(1)
}
