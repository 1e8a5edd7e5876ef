// Package credential loads signing credentials out of PKCS#12 (PFX)
// bundles.
package credential

import (
	"crypto"
	"crypto/x509"
	"os"

	"github.com/pkg/errors"
	"software.sslmate.com/src/go-pkcs12"
)

// Sentinel errors for the credential-loading taxonomy. Callers should use
// errors.Is against these rather than matching on message text.
var (
	ErrUnreadableFile = errors.New("failed to read PKCS#12 file")
	ErrBadPassword    = errors.New("incorrect PKCS#12 password")
	ErrMalformedP12   = errors.New("malformed PKCS#12 bundle")
	ErrUnsupportedKey = errors.New("unsupported private key type in PKCS#12 bundle")
)

// Bundle holds the material extracted from a PKCS#12 file: a signing key,
// the end-entity certificate bound to it, and any CA chain carried
// alongside.
type Bundle struct {
	PrivateKey  crypto.Signer
	Certificate *x509.Certificate
	CAChain     []*x509.Certificate
}

// Release drops Bundle's references so the garbage collector can reclaim
// the key material. crypto.Signer implementations in the standard library
// don't expose a way to scrub their internal state, so this only removes
// the Bundle's own pointers; call it on every exit path of a signing
// pipeline regardless.
func (b *Bundle) Release() {
	b.PrivateKey = nil
	b.Certificate = nil
	b.CAChain = nil
}

// Load reads and decrypts the PKCS#12 file at path with password,
// returning the signing key and certificate chain it contains.
func Load(path string, password string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(ErrUnreadableFile, err.Error())
	}
	return LoadBytes(data, password)
}

// LoadBytes decrypts an in-memory PKCS#12 bundle with password.
func LoadBytes(data []byte, password string) (*Bundle, error) {
	key, cert, caChain, err := pkcs12.DecodeChain(data, password)
	if err != nil {
		if errors.Is(err, pkcs12.ErrIncorrectPassword) {
			return nil, errors.WithStack(ErrBadPassword)
		}
		return nil, errors.Wrap(ErrMalformedP12, err.Error())
	}

	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, errors.WithStack(ErrUnsupportedKey)
	}

	return &Bundle{
		PrivateKey:  signer,
		Certificate: cert,
		CAChain:     caChain,
	}, nil
}
