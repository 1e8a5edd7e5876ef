package cms

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/sha512"
	"crypto/x509"
	"encoding/asn1"
	"time"

	"github.com/lucbsm2/DesafioBRY/utils"
)

// Status literals. These are part of the external contract and must not
// be altered.
const (
	StatusValid   = "VALIDO"
	StatusInvalid = "INVALIDO"
)

// Result is the outcome of a Verify call. Metadata fields are populated
// whenever the CMS structure can be parsed far enough to read them, even
// when Valid is false; callers that must hide metadata on invalid
// signatures do so themselves (see httpapi).
type Result struct {
	Valid         bool
	Status        string
	SignerName    string
	SigningTime   string
	HashHex       string
	HashAlgorithm string
}

// Verify parses der as a CMS ContentInfo/SignedData and checks that the
// first signer's signature is mathematically valid over the signed
// attributes. It does not attempt to build a trust path to any root;
// the signer's certificate is trusted at face value (integrity-only
// verification).
func Verify(der []byte) Result {
	res := Result{Status: StatusInvalid}

	var ci ContentInfo
	if _, err := asn1.Unmarshal(der, &ci); err != nil {
		return res
	}
	if !ci.ContentType.Equal(OIDSignedData) {
		return res
	}

	var sd SignedData
	if _, err := asn1.Unmarshal(ci.Content.Bytes, &sd); err != nil {
		return res
	}
	if len(sd.SignerInfos) == 0 {
		return res
	}
	si := sd.SignerInfos[0]

	certs, err := parseCertificateSet(sd.Certificates)
	if err != nil || len(certs) == 0 {
		return res
	}

	signerCert := findSignerCertificate(certs, si.IssuerAndSerial)
	if signerCert == nil {
		return res
	}

	attrs, err := parseSignedAttributes(si.SignedAttrs)
	if err == nil {
		res.SignerName = signerName(signerCert)
		res.SigningTime = signingTimeString(attrs)
		res.HashHex = messageDigestHex(attrs)
	}
	res.HashAlgorithm = si.DigestAlgorithm.Algorithm.String()

	if !si.DigestAlgorithm.Algorithm.Equal(OIDDigestSHA512) {
		return res
	}

	attrsForSigning, err := retagAsSet(si.SignedAttrs)
	if err != nil {
		return res
	}
	attrsDigest := sha512.Sum512(attrsForSigning)

	if verifySignature(signerCert.PublicKey, attrsDigest[:], si.Signature) {
		res.Valid = true
		res.Status = StatusValid
	}

	return res
}

func verifySignature(pub crypto.PublicKey, digest, signature []byte) bool {
	switch key := pub.(type) {
	case *rsa.PublicKey:
		return rsa.VerifyPKCS1v15(key, crypto.SHA512, digest, signature) == nil
	case *ecdsa.PublicKey:
		return ecdsa.VerifyASN1(key, digest, signature)
	default:
		return false
	}
}

// retagAsSet reconstructs the SET-tagged DER bytes that were originally
// hashed and signed from the IMPLICIT [0]-tagged value embedded in the
// SignerInfo.
func retagAsSet(signedAttrs asn1.RawValue) ([]byte, error) {
	return asn1.Marshal(asn1.RawValue{
		Class:      asn1.ClassUniversal,
		Tag:        asn1.TagSet,
		IsCompound: true,
		Bytes:      signedAttrs.Bytes,
	})
}

// parseSignedAttributes re-tags the embedded attributes as a SEQUENCE
// (their natural universal type) and decodes them as []Attribute.
func parseSignedAttributes(signedAttrs asn1.RawValue) ([]Attribute, error) {
	seqBytes, err := asn1.Marshal(asn1.RawValue{
		Class:      asn1.ClassUniversal,
		Tag:        asn1.TagSequence,
		IsCompound: true,
		Bytes:      signedAttrs.Bytes,
	})
	if err != nil {
		return nil, err
	}
	var attrs []Attribute
	if _, err := asn1.Unmarshal(seqBytes, &attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

func findAttribute(attrs []Attribute, oid asn1.ObjectIdentifier) (asn1.RawValue, bool) {
	for _, a := range attrs {
		if a.Type.Equal(oid) {
			return a.Values, true
		}
	}
	return asn1.RawValue{}, false
}

func signingTimeString(attrs []Attribute) string {
	values, ok := findAttribute(attrs, OIDAttributeSigningTime)
	if !ok {
		return ""
	}
	var probe asn1.RawValue
	if _, err := asn1.Unmarshal(values.Bytes, &probe); err != nil {
		return ""
	}
	var t time.Time
	switch probe.Tag {
	case asn1.TagUTCTime:
		if _, err := asn1.Unmarshal(values.Bytes, &t); err != nil {
			return ""
		}
	case asn1.TagGeneralizedTime:
		if _, err := asn1.UnmarshalWithParams(values.Bytes, &t, "generalized"); err != nil {
			return ""
		}
	default:
		return ""
	}
	return utils.FormatASN1Time(t)
}

func messageDigestHex(attrs []Attribute) string {
	values, ok := findAttribute(attrs, OIDAttributeMessageDigest)
	if !ok {
		return ""
	}
	var digest []byte
	if _, err := asn1.Unmarshal(values.Bytes, &digest); err != nil {
		return ""
	}
	return utils.UpperHex(digest)
}

func signerName(cert *x509.Certificate) string {
	if cn := cert.Subject.CommonName; cn != "" {
		return cn
	}
	return cert.Subject.String()
}

// parseCertificateSet splits the CertificateSet's concatenated DER
// certificates back into individual *x509.Certificate values.
func parseCertificateSet(raw asn1.RawValue) ([]*x509.Certificate, error) {
	data := raw.Bytes
	var certs []*x509.Certificate
	for len(data) > 0 {
		var rv asn1.RawValue
		rest, err := asn1.Unmarshal(data, &rv)
		if err != nil {
			return nil, err
		}
		cert, err := x509.ParseCertificate(rv.FullBytes)
		if err != nil {
			return nil, err
		}
		certs = append(certs, cert)
		data = rest
	}
	return certs, nil
}

func findSignerCertificate(certs []*x509.Certificate, ias IssuerAndSerial) *x509.Certificate {
	for _, c := range certs {
		if c.SerialNumber == nil || ias.SerialNumber == nil {
			continue
		}
		if c.SerialNumber.Cmp(ias.SerialNumber) == 0 && bytes.Equal(c.RawIssuer, ias.Issuer.FullBytes) {
			return c
		}
	}
	return nil
}
