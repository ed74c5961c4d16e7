// Package p7m reads electronic invoices wrapped in a CMS signature
// envelope, the .xml.p7m files distributed by the exchange system.
package p7m

import (
	"bytes"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/beevik/etree"
	"go.mozilla.org/pkcs7"

	fx "github.com/reoring/fatturex"
	_ "github.com/reoring/fatturex/fattura"
	_ "github.com/reoring/fatturex/fattura/semplificata"
)

// Envelope is a parsed CMS envelope holding a signed invoice.
type Envelope struct {
	data []byte
	p7   *pkcs7.PKCS7
}

// Load reads an envelope from a file.
func Load(path string) (*Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	env, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return env, nil
}

// Parse reads an envelope from raw bytes. Envelopes are sometimes
// distributed base64-encoded; that wrapping is removed transparently.
func Parse(data []byte) (*Envelope, error) {
	if decoded, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(data))); err == nil {
		data = decoded
	}
	p7, err := pkcs7.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("cannot parse CMS envelope: %w", err)
	}
	return &Envelope{data: data, p7: p7}, nil
}

// Payload returns the raw signed content, normally the invoice XML.
func (e *Envelope) Payload() []byte {
	return e.p7.Content
}

// Root parses the payload and returns the XML root element.
func (e *Envelope) Root() (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(e.Payload()); err != nil {
		return nil, fmt.Errorf("cannot parse envelope payload: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("envelope payload has no root element")
	}
	return root, nil
}

// Document returns the invoice contained in the envelope, dispatched to
// whichever registered document family matches it.
func (e *Envelope) Document() (*fx.Document, error) {
	root, err := e.Root()
	if err != nil {
		return nil, err
	}
	return fx.DocumentFromXML(root)
}

// Expired reports whether any signer certificate is past its validity at
// the given instant.
func (e *Envelope) Expired(now time.Time) bool {
	for _, cert := range e.p7.Certificates {
		if !cert.NotAfter.After(now) {
			return true
		}
	}
	return false
}

// Verify checks the signature against the certificates embedded in the
// envelope. It does not check the certificate chain against a trust store;
// pass one to VerifyWithChain for that.
func (e *Envelope) Verify() error {
	if err := e.p7.Verify(); err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}
	return nil
}

// VerifyWithChain checks the signature and validates the signer
// certificates against the given trust store.
func (e *Envelope) VerifyWithChain(truststore *x509.CertPool) error {
	if err := e.p7.VerifyWithChain(truststore); err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}
	return nil
}
