package fixtures

import "github.com/acmemail/smime-fixtures/smime"

// Scenario describes one generated test mail.
type Scenario struct {
	Output   string // file name under the email directory
	From     string
	To       string
	Subject  string
	Body     string
	KeyFile  string // file names under the key directory
	CertFile string
	// Non-empty Envelope fields override the corresponding signed header in
	// the outer, unsigned envelope.
	Envelope smime.Envelope
}

const (
	challengeBody    = "This is an automatically generated ACME challenge."
	challengeSubject = "ACME: LgYemJLy3F1LDkiJrdIGbEzyFJyOyf6vBdyZ1TG3sME="
	recipient        = "recipient@example.org"
	validSender      = "valid-ca@example.com"
)

// Scenarios is the fixed fixture set consumed by the client's unit tests.
// The protected-mail fixtures carry a valid signature over the inner message
// while exactly one envelope header disagrees with its signed counterpart.
var Scenarios = []Scenario{
	{
		Output:   "valid-mail.eml",
		From:     validSender,
		To:       recipient,
		Subject:  challengeSubject,
		Body:     challengeBody,
		KeyFile:  "valid-signer-privkey.pem",
		CertFile: "valid-signer.pem",
	},
	{
		// The signer certificate covers valid-ca@example.com, not the sender.
		Output:   "invalid-cert-mismatch.eml",
		From:     "different-ca@example.com",
		To:       recipient,
		Subject:  challengeSubject,
		Body:     challengeBody,
		KeyFile:  "valid-signer-privkey.pem",
		CertFile: "valid-signer.pem",
		Envelope: smime.Envelope{From: "different-ca@example.org"},
	},
	{
		Output:   "invalid-nosan.eml",
		From:     validSender,
		To:       recipient,
		Subject:  challengeSubject,
		Body:     challengeBody,
		KeyFile:  "valid-signer-nosan-privkey.pem",
		CertFile: "valid-signer-nosan.pem",
	},
	{
		Output:   "invalid-signed-mail.eml",
		From:     validSender,
		To:       recipient,
		Subject:  challengeSubject,
		Body:     challengeBody,
		KeyFile:  "invalid-signer-privkey.pem",
		CertFile: "invalid-signer.pem",
	},
	{
		Output:   "invalid-protected-mail-from.eml",
		From:     validSender,
		To:       recipient,
		Subject:  challengeSubject,
		Body:     challengeBody,
		KeyFile:  "valid-signer-privkey.pem",
		CertFile: "valid-signer.pem",
		Envelope: smime.Envelope{From: "tampered-ca@example.org"},
	},
	{
		Output:   "invalid-protected-mail-to.eml",
		From:     validSender,
		To:       recipient,
		Subject:  challengeSubject,
		Body:     challengeBody,
		KeyFile:  "valid-signer-privkey.pem",
		CertFile: "valid-signer.pem",
		Envelope: smime.Envelope{To: "tampered-recipient@example.com"},
	},
	{
		Output:   "invalid-protected-mail-subject.eml",
		From:     validSender,
		To:       recipient,
		Subject:  challengeSubject,
		Body:     challengeBody,
		KeyFile:  "valid-signer-privkey.pem",
		CertFile: "valid-signer.pem",
		Envelope: smime.Envelope{Subject: "ACME: aDiFfErEnTtOkEn"},
	},
}
