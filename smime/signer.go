package smime

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"go.mozilla.org/pkcs7"
)

// Signer holds a certificate and the matching private key.
type Signer struct {
	Cert *x509.Certificate
	Key  crypto.PrivateKey
}

// LoadSigner reads a PEM private key and certificate pair from disk. The
// certificate must belong to the private key.
func LoadSigner(keyPath, certPath string) (*Signer, error) {
	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, &KeyLoadError{Path: keyPath, Err: err}
	}
	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, &KeyLoadError{Path: certPath, Err: err}
	}

	block, _ := pem.Decode(certPEM)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, &KeyLoadError{Path: certPath, Err: errors.New("no CERTIFICATE block")}
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, &KeyLoadError{Path: certPath, Err: err}
	}

	keyBlock, _ := pem.Decode(keyPEM)
	if keyBlock == nil {
		return nil, &KeyLoadError{Path: keyPath, Err: errors.New("no PEM block")}
	}
	key, err := parsePrivateKey(keyBlock.Bytes)
	if err != nil {
		return nil, &KeyLoadError{Path: keyPath, Err: err}
	}

	if err := checkKeyPair(cert, key); err != nil {
		return nil, &KeyLoadError{Path: certPath, Err: err}
	}

	return &Signer{Cert: cert, Key: key}, nil
}

func parsePrivateKey(der []byte) (crypto.PrivateKey, error) {
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	return nil, errors.New("unsupported private key format")
}

func checkKeyPair(cert *x509.Certificate, key crypto.PrivateKey) error {
	signer, ok := key.(crypto.Signer)
	if !ok {
		return errors.New("private key cannot sign")
	}
	pub, ok := cert.PublicKey.(interface{ Equal(crypto.PublicKey) bool })
	if !ok {
		return errors.New("unsupported certificate public key")
	}
	if !pub.Equal(signer.Public()) {
		return errors.New("certificate does not match private key")
	}
	return nil
}

// SignDetached produces a detached PKCS#7 signed-data structure over content.
// The digest is pinned to SHA-256 so the fixture output does not depend on
// library defaults.
func (s *Signer) SignDetached(content []byte) ([]byte, error) {
	signedData, err := pkcs7.NewSignedData(content)
	if err != nil {
		return nil, &SigningError{Err: fmt.Errorf("failed to create signed data: %w", err)}
	}
	signedData.SetDigestAlgorithm(pkcs7.OIDDigestAlgorithmSHA256)

	if err := signedData.AddSigner(s.Cert, s.Key, pkcs7.SignerInfoConfig{}); err != nil {
		return nil, &SigningError{Err: fmt.Errorf("failed to add signer: %w", err)}
	}
	signedData.Detach()

	sig, err := signedData.Finish()
	if err != nil {
		return nil, &SigningError{Err: fmt.Errorf("failed to finish signature: %w", err)}
	}
	return sig, nil
}

// SignMail renders and signs msg, then attaches the unsigned envelope.
// Non-empty override fields replace the envelope value that would otherwise
// mirror the signed header.
func (s *Signer) SignMail(msg Message, overrides Envelope) (*SignedMail, error) {
	sig, err := s.SignDetached(msg.Render())
	if err != nil {
		return nil, err
	}
	return &SignedMail{
		Envelope:  EnvelopeFor(&msg, overrides),
		Message:   msg,
		Signature: sig,
	}, nil
}
