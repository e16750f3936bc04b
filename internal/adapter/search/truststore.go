package search

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"software.sslmate.com/src/go-pkcs12"
)

// TrustStore is the set of CA certificates the upstream connection trusts
type TrustStore struct {
	Pool         *x509.CertPool
	Certificates []*x509.Certificate
}

// LoadTrustStore reads a PKCS#12 trust store (as produced by keytool) or a
// PEM bundle. The password is only used for PKCS#12 files.
func LoadTrustStore(path, password string) (*TrustStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trust store %s: %w", path, err)
	}

	var certs []*x509.Certificate
	if bytes.Contains(data, []byte("-----BEGIN")) {
		certs, err = parsePEMCertificates(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificate in %s: %w", path, err)
		}
	} else {
		certs, err = pkcs12.DecodeTrustStore(data, password)
		if err != nil {
			return nil, fmt.Errorf("failed to decode PKCS#12 trust store %s: %w", path, err)
		}
	}

	store := &TrustStore{Pool: x509.NewCertPool()}
	for _, cert := range certs {
		store.Pool.AddCert(cert)
		store.Certificates = append(store.Certificates, cert)
	}

	if len(store.Certificates) == 0 {
		return nil, fmt.Errorf("trust store %s contains no certificates", path)
	}

	return store, nil
}

func parsePEMCertificates(data []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return certs, nil
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}
}
