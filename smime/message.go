package smime

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
)

// MessageID is the fixed Message-ID shared by all generated test mails. The
// consuming client does not validate it, so a constant keeps fixtures stable
// across runs.
const MessageID = "<A2299BB.FF7788@example.org>"

// Message is the inner part of a test mail. Its rendered form is the exact
// byte sequence the detached signature is computed over.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Render serializes the message as a forwarded message/RFC822 block. Every
// line is terminated with CRLF.
func (m *Message) Render() []byte {
	var b strings.Builder
	b.WriteString("Content-Type: message/RFC822; forwarded=no\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	fmt.Fprintf(&b, "Message-ID: %s\r\n", MessageID)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(m.Body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// Envelope holds the outer, unsigned headers of a test mail.
type Envelope struct {
	From    string
	To      string
	Subject string
}

// EnvelopeFor returns the envelope matching msg. Non-empty override fields
// replace the corresponding value. Overridden fields are not covered by the
// signature, which is how the tampered fixtures are produced.
func EnvelopeFor(msg *Message, overrides Envelope) Envelope {
	env := Envelope{From: msg.From, To: msg.To, Subject: msg.Subject}
	if overrides.From != "" {
		env.From = overrides.From
	}
	if overrides.To != "" {
		env.To = overrides.To
	}
	if overrides.Subject != "" {
		env.Subject = overrides.Subject
	}
	return env
}

// SignedMail composes an unsigned envelope with a signed inner message. The
// two are kept as separate values until serialization so the envelope can
// legitimately disagree with what was signed.
type SignedMail struct {
	Envelope  Envelope
	Message   Message
	Signature []byte // detached PKCS#7 signed-data, DER
}

// Bytes serializes the complete multipart/signed mail. The boundary is
// derived from a digest of the inner block, so the output is deterministic
// up to the randomness of the signature itself.
func (sm *SignedMail) Bytes() []byte {
	inner := sm.Message.Render()
	sum := sha256.Sum256(inner)
	boundary := fmt.Sprintf("----=_Part_%x", sum[:8])

	var out strings.Builder
	fmt.Fprintf(&out, "From: %s\r\n", sm.Envelope.From)
	fmt.Fprintf(&out, "To: %s\r\n", sm.Envelope.To)
	fmt.Fprintf(&out, "Subject: %s\r\n", sm.Envelope.Subject)
	out.WriteString("Auto-Submitted: auto-generated; type=acme\r\n")
	fmt.Fprintf(&out, "Message-ID: %s\r\n", MessageID)
	out.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&out, "Content-Type: multipart/signed; protocol=\"application/pkcs7-signature\"; micalg=sha256; boundary=\"%s\"\r\n", boundary)
	out.WriteString("\r\n")
	out.WriteString("This is a multi-part message in MIME format.\r\n")
	out.WriteString("\r\n")
	fmt.Fprintf(&out, "--%s\r\n", boundary)
	out.Write(inner)
	out.WriteString("\r\n")
	fmt.Fprintf(&out, "--%s\r\n", boundary)
	out.WriteString("Content-Type: application/pkcs7-signature; name=\"smime.p7s\"\r\n")
	out.WriteString("Content-Transfer-Encoding: base64\r\n")
	out.WriteString("Content-Disposition: attachment; filename=\"smime.p7s\"\r\n")
	out.WriteString("\r\n")
	out.WriteString(formatBase64(base64.StdEncoding.EncodeToString(sm.Signature), 76))
	out.WriteString("\r\n")
	fmt.Fprintf(&out, "--%s--\r\n", boundary)

	return []byte(out.String())
}

// formatBase64 formats base64 string with line breaks
func formatBase64(data string, lineLength int) string {
	var result strings.Builder
	for i := 0; i < len(data); i += lineLength {
		end := i + lineLength
		if end > len(data) {
			end = len(data)
		}
		result.WriteString(data[i:end])
		if end < len(data) {
			result.WriteString("\r\n")
		}
	}
	return result.String()
}
