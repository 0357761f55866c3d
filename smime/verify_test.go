package smime

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"strings"
	"testing"

	"github.com/github/fakeca"
)

func signTestMail(t *testing.T, signer *Signer, msg Message, overrides Envelope) *ParsedMail {
	t.Helper()

	signed, err := signer.SignMail(msg, overrides)
	if err != nil {
		t.Fatalf("SignMail failed: %v", err)
	}
	parsed, err := ParseMail(signed.Bytes())
	if err != nil {
		t.Fatalf("ParseMail failed: %v", err)
	}
	return parsed
}

func rootsFor(signer *Signer) *x509.CertPool {
	pool := x509.NewCertPool()
	pool.AddCert(signer.Cert)
	return pool
}

func TestVerifyMail_Valid(t *testing.T) {
	signer := newTestSigner(t, "a@example.com", true)
	msg := Message{From: "a@example.com", To: "b@example.org", Subject: "S", Body: "hello"}

	parsed := signTestMail(t, signer, msg, Envelope{})

	if err := VerifyMail(parsed, VerifyOptions{Roots: rootsFor(signer)}); err != nil {
		t.Errorf("expected valid mail to verify, got %v", err)
	}
}

func TestVerifyMail_TamperedHeaders(t *testing.T) {
	signer := newTestSigner(t, "a@example.com", true)
	msg := Message{From: "a@example.com", To: "b@example.org", Subject: "S", Body: "hello"}

	testCases := []struct {
		header    string
		overrides Envelope
	}{
		{"From", Envelope{From: "tampered@example.net"}},
		{"To", Envelope{To: "tampered@example.net"}},
		{"Subject", Envelope{Subject: "tampered"}},
	}

	for _, tc := range testCases {
		parsed := signTestMail(t, signer, msg, tc.overrides)

		err := VerifyMail(parsed, VerifyOptions{Roots: rootsFor(signer)})
		if err == nil {
			t.Errorf("%s: expected tampered envelope to fail verification", tc.header)
			continue
		}

		var mismatch *HeaderMismatchError
		if !errors.As(err, &mismatch) {
			t.Errorf("%s: expected HeaderMismatchError, got %T: %v", tc.header, err, err)
			continue
		}
		if mismatch.Header != tc.header {
			t.Errorf("expected mismatch on %s, got %s", tc.header, mismatch.Header)
		}
	}
}

func TestVerifyMail_UntrustedSigner(t *testing.T) {
	trusted := newTestSigner(t, "a@example.com", true)
	untrusted := fakeca.New(fakeca.Subject(pkix.Name{CommonName: "untrusted signer"}))
	signer := &Signer{Cert: untrusted.Certificate, Key: untrusted.PrivateKey}

	msg := Message{From: "a@example.com", To: "b@example.org", Subject: "S", Body: "hello"}
	parsed := signTestMail(t, signer, msg, Envelope{})

	err := VerifyMail(parsed, VerifyOptions{Roots: rootsFor(trusted)})
	if err == nil {
		t.Fatal("expected untrusted signer to fail verification")
	}
	if !strings.Contains(err.Error(), "failed to verify signature") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestVerifyMail_SenderNotInSAN(t *testing.T) {
	signer := newTestSigner(t, "a@example.com", true)

	// signed From differs from the certificate's email SAN
	msg := Message{From: "someone-else@example.com", To: "b@example.org", Subject: "S", Body: "hello"}
	parsed := signTestMail(t, signer, msg, Envelope{})

	err := VerifyMail(parsed, VerifyOptions{Roots: rootsFor(signer)})
	if err == nil {
		t.Fatal("expected SAN mismatch to fail verification")
	}
	if !strings.Contains(err.Error(), "does not cover") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestVerifyMail_NoSAN(t *testing.T) {
	signer := newTestSigner(t, "a@example.com", false)

	msg := Message{From: "a@example.com", To: "b@example.org", Subject: "S", Body: "hello"}
	parsed := signTestMail(t, signer, msg, Envelope{})

	err := VerifyMail(parsed, VerifyOptions{Roots: rootsFor(signer)})
	if err == nil {
		t.Fatal("expected missing SAN to fail verification")
	}
	if !strings.Contains(err.Error(), "does not cover") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCheckEnvelope(t *testing.T) {
	parsed := &ParsedMail{
		Envelope: Envelope{From: "a@example.com", To: "b@example.org", Subject: "S"},
		Message:  Message{From: "a@example.com", To: "b@example.org", Subject: "S"},
	}
	if err := CheckEnvelope(parsed); err != nil {
		t.Errorf("expected matching envelope to pass, got %v", err)
	}

	parsed.Envelope.Subject = "T"
	err := CheckEnvelope(parsed)
	if err == nil {
		t.Fatal("expected mismatch error")
	}

	var mismatch *HeaderMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected HeaderMismatchError, got %T", err)
	}
	if mismatch.Header != "Subject" || mismatch.Signed != "S" || mismatch.Envelope != "T" {
		t.Errorf("unexpected mismatch details: %+v", mismatch)
	}
}
