package webrtc

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/hex"
	"math/big"
	"strings"
	"time"

	"github.com/pion/dtls/v3/pkg/crypto/fingerprint"
	"github.com/webrtcbin/peerconn/pkg/rtcerr"
)

// DTLSFingerprint is a single algorithm/value pair emitted on an SDP
// fingerprint line (spec.md §6): pairs of uppercase hex bytes separated by
// ':'.
type DTLSFingerprint struct {
	Algorithm string
	Value     string
}

// Certificate is the x509 certificate and private key backing a Transport's
// DTLS transport. A Transport's DTLS pair and its RTCP pair share one
// Certificate (spec.md §3 invariant).
type Certificate struct {
	privateKey crypto.PrivateKey
	x509Cert   *x509.Certificate
}

// GenerateCertificate creates a short-lived self-signed ECDSA certificate,
// mirroring the teacher's GenerateCertificate.
func GenerateCertificate() (*Certificate, error) {
	sk, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, &rtcerr.UnknownError{Err: err}
	}

	origin := make([]byte, 16)
	if _, err := rand.Read(origin); err != nil {
		return nil, &rtcerr.UnknownError{Err: err}
	}

	maxBigInt := new(big.Int).Exp(big.NewInt(2), big.NewInt(130), nil)
	maxBigInt.Sub(maxBigInt, big.NewInt(1))
	serialNumber, err := rand.Int(rand.Reader, maxBigInt)
	if err != nil {
		return nil, &rtcerr.UnknownError{Err: err}
	}

	tpl := x509.Certificate{
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth, x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		NotBefore:             time.Now(),
		NotAfter:              time.Now().AddDate(0, 1, 0),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		SerialNumber:          serialNumber,
		Subject:               pkix.Name{CommonName: hex.EncodeToString(origin)},
		SignatureAlgorithm:    x509.ECDSAWithSHA256,
		IsCA:                  true,
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &tpl, &tpl, sk.Public(), sk)
	if err != nil {
		return nil, &rtcerr.UnknownError{Err: err}
	}
	cert, err := x509.ParseCertificate(certDER)
	if err != nil {
		return nil, &rtcerr.UnknownError{Err: err}
	}

	return &Certificate{privateKey: sk, x509Cert: cert}, nil
}

// Expires returns the timestamp after which this certificate is no longer
// usable to negotiate a new session.
func (c Certificate) Expires() time.Time {
	if c.x509Cert == nil {
		return time.Time{}
	}
	return c.x509Cert.NotAfter
}

// Equals compares two certificates by their underlying key material.
func (c Certificate) Equals(o Certificate) bool {
	csk, ok := c.privateKey.(*ecdsa.PrivateKey)
	if !ok {
		return false
	}
	osk, ok := o.privateKey.(*ecdsa.PrivateKey)
	if !ok {
		return false
	}
	return csk.X.Cmp(osk.X) == 0 && csk.Y.Cmp(osk.Y) == 0
}

// Fingerprint returns the SHA-256 fingerprint of the certificate, formatted
// as pairs of uppercase hex bytes separated by ':' (spec.md §6). SHA-256 is
// the only algorithm the core emits (spec.md §4.2: "SHA-256 by default");
// multiple simultaneous fingerprints per transport are a non-goal.
func (c Certificate) Fingerprint() (DTLSFingerprint, error) {
	value, err := fingerprint.Fingerprint(c.x509Cert, fingerprint.HashAlgorithmSHA256)
	if err != nil {
		return DTLSFingerprint{}, &rtcerr.UnknownError{Err: err}
	}
	return DTLSFingerprint{
		Algorithm: "sha-256",
		Value:     strings.ToUpper(value),
	}, nil
}
