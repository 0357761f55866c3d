package smime

import "fmt"

// KeyLoadError reports key material that could not be read or parsed, or a
// certificate that does not belong to its private key.
type KeyLoadError struct {
	Path string
	Err  error
}

func (e *KeyLoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("cannot load key material from %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("cannot load key material: %v", e.Err)
}

func (e *KeyLoadError) Unwrap() error { return e.Err }

// SigningError reports a failed PKCS#7 signing operation.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string { return fmt.Sprintf("signing failed: %v", e.Err) }

func (e *SigningError) Unwrap() error { return e.Err }

// HeaderMismatchError reports an envelope header that disagrees with its
// signed counterpart inside the message.
type HeaderMismatchError struct {
	Header   string
	Signed   string
	Envelope string
}

func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("envelope header %s does not match signed value: %q != %q",
		e.Header, e.Envelope, e.Signed)
}
