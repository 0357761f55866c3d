package smime

import (
	"crypto/x509"
	"net/mail"
	"strings"

	"github.com/certifi/gocertifi"
	cms "github.com/github/smimesign/ietf-cms"
	"github.com/pkg/errors"
)

// VerifyOptions controls trust decisions during mail verification.
type VerifyOptions struct {
	// Roots is the trust pool for the signer certificate chain. When nil,
	// the system pool is used, with the Mozilla bundle as fallback.
	Roots *x509.CertPool
}

// VerifyMail runs the checks a consuming ACME client applies to an incoming
// challenge mail: the detached signature must validate over the signed block,
// the signer certificate must chain to a trusted root and name the signed
// From address in an email SAN, and the unsigned envelope headers must agree
// with the signed ones.
func VerifyMail(parsed *ParsedMail, opts VerifyOptions) error {
	sd, err := cms.ParseSignedData(parsed.Signature)
	if err != nil {
		return errors.Wrap(err, "failed to parse signature")
	}

	chains, err := sd.VerifyDetached(parsed.SignedBlock, verifyOpts(opts))
	if err != nil {
		return errors.Wrap(err, "failed to verify signature")
	}
	cert := chains[0][0][0]

	if !certHasEmail(cert, parsed.Message.From) {
		return errors.Errorf("signer certificate does not cover %q", parsed.Message.From)
	}

	if !strings.HasPrefix(parsed.AutoSubmitted, "auto-generated") ||
		!strings.Contains(parsed.AutoSubmitted, "type=acme") {
		return errors.Errorf("unexpected Auto-Submitted header: %q", parsed.AutoSubmitted)
	}

	return CheckEnvelope(parsed)
}

// CheckEnvelope compares the outer envelope headers with the signed inner
// ones and reports the first header that was tampered with.
func CheckEnvelope(parsed *ParsedMail) error {
	if parsed.Envelope.From != parsed.Message.From {
		return &HeaderMismatchError{Header: "From", Signed: parsed.Message.From, Envelope: parsed.Envelope.From}
	}
	if parsed.Envelope.To != parsed.Message.To {
		return &HeaderMismatchError{Header: "To", Signed: parsed.Message.To, Envelope: parsed.Envelope.To}
	}
	if parsed.Envelope.Subject != parsed.Message.Subject {
		return &HeaderMismatchError{Header: "Subject", Signed: parsed.Message.Subject, Envelope: parsed.Envelope.Subject}
	}
	return nil
}

func verifyOpts(opts VerifyOptions) x509.VerifyOptions {
	roots := opts.Roots
	if roots == nil {
		var err error
		roots, err = x509.SystemCertPool()
		if err != nil {
			// SystemCertPool isn't implemented everywhere. Fall back to the
			// Mozilla trust store.
			roots, err = gocertifi.CACerts()
			if err != nil {
				roots = x509.NewCertPool()
			}
		}
	}

	return x509.VerifyOptions{
		Roots:     roots,
		KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	}
}

func certHasEmail(cert *x509.Certificate, address string) bool {
	if addr, err := mail.ParseAddress(address); err == nil {
		address = addr.Address
	}
	for _, san := range cert.EmailAddresses {
		if strings.EqualFold(san, address) {
			return true
		}
	}
	return false
}
