package dtlsclient

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/pion/dtls/v2/pkg/crypto/fingerprint"
)

// certValidityPeriod is how long a freshly generated self-signed
// certificate remains valid; the client regenerates one on every run, so
// this only needs to outlive a single session.
const certValidityPeriod = 30 * 24 * time.Hour

// Certificate pairs a self-signed ECDSA certificate with the private key
// that signed it, ready to be handed to a dtls.Config.
type Certificate struct {
	PrivateKey *ecdsa.PrivateKey
	X509Cert   *x509.Certificate
	Raw        []byte // DER encoding, as required by tls.Certificate
}

// GenerateSelfSigned creates a fresh ECDSA P-256 self-signed certificate
// suitable for DTLS client authentication.
func GenerateSelfSigned() (*Certificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("dtlsclient: generating key: %w", err)
	}

	origin := make([]byte, 16)
	if _, err := rand.Read(origin); err != nil {
		return nil, fmt.Errorf("dtlsclient: generating serial origin: %w", err)
	}

	maxBigInt := new(big.Int).Exp(big.NewInt(2), big.NewInt(130), nil)
	maxBigInt.Sub(maxBigInt, big.NewInt(1))
	serialNumber, err := rand.Int(rand.Reader, maxBigInt)
	if err != nil {
		return nil, fmt.Errorf("dtlsclient: generating serial number: %w", err)
	}

	tpl := &x509.Certificate{
		ExtKeyUsage: []x509.ExtKeyUsage{
			x509.ExtKeyUsageClientAuth,
			x509.ExtKeyUsageServerAuth,
		},
		BasicConstraintsValid: true,
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(certValidityPeriod),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		SerialNumber:          serialNumber,
		Version:               2,
		Subject:               pkix.Name{CommonName: hex.EncodeToString(origin)},
		IsCA:                  true,
	}

	der, err := x509.CreateCertificate(rand.Reader, tpl, tpl, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("dtlsclient: creating certificate: %w", err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("dtlsclient: parsing generated certificate: %w", err)
	}

	return &Certificate{PrivateKey: key, X509Cert: cert, Raw: der}, nil
}

// Fingerprint returns the SHA-256 fingerprint in the colon-hex form SDP's
// a=fingerprint attribute uses.
func (c *Certificate) Fingerprint() (string, error) {
	hash, err := fingerprint.HashFromString("sha-256")
	if err != nil {
		return "", fmt.Errorf("dtlsclient: resolving fingerprint hash: %w", err)
	}
	return fingerprint.Fingerprint(c.X509Cert, hash)
}
