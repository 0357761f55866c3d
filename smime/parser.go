package smime

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message"
)

// ParsedMail is a test mail read back from its serialized form.
type ParsedMail struct {
	Envelope      Envelope
	AutoSubmitted string
	MessageID     string
	Message       Message // parsed inner headers and payload
	SignedBlock   []byte  // exact bytes the signature covers
	Signature     []byte  // detached PKCS#7 signed-data, DER
}

// ParseMail reads a multipart/signed test mail and splits it into its
// envelope, the raw signed block, and the decoded signature. The signed block
// is recovered byte for byte so the detached signature can be re-verified.
func ParseMail(raw []byte) (*ParsedMail, error) {
	entity, err := message.Read(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse email message: %w", err)
	}

	parsed := &ParsedMail{
		Envelope: Envelope{
			From:    entity.Header.Get("From"),
			To:      entity.Header.Get("To"),
			Subject: entity.Header.Get("Subject"),
		},
		AutoSubmitted: entity.Header.Get("Auto-Submitted"),
		MessageID:     entity.Header.Get("Message-ID"),
	}

	mediaType, params, err := entity.Header.ContentType()
	if err != nil {
		return nil, fmt.Errorf("failed to parse content type: %w", err)
	}
	if mediaType != "multipart/signed" {
		return nil, fmt.Errorf("not a signed S/MIME message: %s", mediaType)
	}
	boundary := params["boundary"]
	if boundary == "" {
		return nil, errors.New("missing multipart boundary")
	}

	block, sig, err := splitSignedParts(raw, boundary)
	if err != nil {
		return nil, err
	}
	parsed.SignedBlock = block
	parsed.Signature = sig

	inner, err := parseSignedBlock(block)
	if err != nil {
		return nil, err
	}
	parsed.Message = *inner

	return parsed, nil
}

// splitSignedParts cuts the two parts of a multipart/signed message out of
// the raw byte stream. The MIME parts must not go through a decoding reader:
// the first part has to come back byte-identical to what was signed.
func splitSignedParts(raw []byte, boundary string) ([]byte, []byte, error) {
	marker := []byte("\r\n--" + boundary)
	crlf := []byte("\r\n")

	i1 := bytes.Index(raw, marker)
	if i1 < 0 {
		return nil, nil, errors.New("multipart boundary not found")
	}
	p1 := i1 + len(marker)
	if !bytes.HasPrefix(raw[p1:], crlf) {
		return nil, nil, errors.New("malformed opening boundary line")
	}
	p1 += len(crlf)

	i2 := bytes.Index(raw[p1:], marker)
	if i2 < 0 {
		return nil, nil, errors.New("missing signature part")
	}
	block := raw[p1 : p1+i2]

	p2 := p1 + i2 + len(marker)
	if !bytes.HasPrefix(raw[p2:], crlf) {
		return nil, nil, errors.New("malformed signature boundary line")
	}
	p2 += len(crlf)

	i3 := bytes.Index(raw[p2:], marker)
	if i3 < 0 {
		return nil, nil, errors.New("missing closing boundary")
	}
	sigPart := raw[p2 : p2+i3]

	hdrEnd := bytes.Index(sigPart, []byte("\r\n\r\n"))
	if hdrEnd < 0 {
		return nil, nil, errors.New("malformed signature part")
	}
	b64 := strings.Join(strings.Fields(string(sigPart[hdrEnd+4:])), "")
	sig, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode signature: %w", err)
	}

	return block, sig, nil
}

// parseSignedBlock parses the message/RFC822 block and extracts the embedded
// mail's headers and payload.
func parseSignedBlock(block []byte) (*Message, error) {
	outer, err := message.Read(bytes.NewReader(block))
	if err != nil {
		return nil, fmt.Errorf("failed to parse signed block: %w", err)
	}
	mediaType, _, err := outer.Header.ContentType()
	if err != nil {
		return nil, fmt.Errorf("failed to parse signed block content type: %w", err)
	}
	if mediaType != "message/rfc822" {
		return nil, fmt.Errorf("signed block is not a forwarded message: %s", mediaType)
	}

	embedded, err := message.Read(outer.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded message: %w", err)
	}
	payload, err := io.ReadAll(embedded.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded message body: %w", err)
	}

	return &Message{
		From:    embedded.Header.Get("From"),
		To:      embedded.Header.Get("To"),
		Subject: embedded.Header.Get("Subject"),
		Body:    strings.TrimSuffix(string(payload), "\r\n"),
	}, nil
}
