// Package cms implements CMS/PKCS#7 SignedData (RFC 5652) with a single
// detached signer bound to SHA-512, as produced by the credential package's
// PKCS#12 bundles.
package cms

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha512"
	"crypto/x509/pkix"
	"encoding/asn1"
	"math/big"
	"time"

	"github.com/lucbsm2/DesafioBRY/credential"
	"github.com/pkg/errors"
)

// Sentinel errors.
var (
	ErrSignedAttributes  = errors.New("failed to create signed attributes")
	ErrSign              = errors.New("failed to sign")
	ErrMarshalSignedData = errors.New("failed to marshal SignedData")
	ErrUnsupportedKey    = errors.New("unsupported private key type for CMS signing")
)

// PKCS#7 / CMS object identifiers.
var (
	OIDData       = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 7, 1}
	OIDSignedData = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 7, 2}

	OIDAttributeContentType   = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 3}
	OIDAttributeSigningTime   = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 5}
	OIDAttributeMessageDigest = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 4}

	// id-sha512
	OIDDigestSHA512 = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 3}
	// sha512WithRSAEncryption
	OIDSignatureRSASHA512 = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 13}
	// ecdsa-with-SHA512
	OIDSignatureECDSASHA512 = asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 4}
)

// ContentInfo is the top-level CMS structure.
type ContentInfo struct {
	ContentType asn1.ObjectIdentifier
	Content     asn1.RawValue `asn1:"explicit,tag:0"`
}

// SignedData represents the CMS SignedData structure.
type SignedData struct {
	Version          int
	DigestAlgorithms []pkix.AlgorithmIdentifier `asn1:"set"`
	EncapContentInfo EncapsulatedContentInfo
	Certificates     asn1.RawValue `asn1:"optional,tag:0"`
	SignerInfos      []SignerInfo  `asn1:"set"`
}

// EncapsulatedContentInfo holds the content being signed. EContent is
// always absent here: this package only produces and consumes detached
// signatures.
type EncapsulatedContentInfo struct {
	EContentType asn1.ObjectIdentifier
	EContent     asn1.RawValue `asn1:"optional,explicit,tag:0"`
}

// SignerInfo describes one signer.
type SignerInfo struct {
	Version            int
	IssuerAndSerial    IssuerAndSerial
	DigestAlgorithm    pkix.AlgorithmIdentifier
	SignedAttrs        asn1.RawValue `asn1:"optional,tag:0"`
	SignatureAlgorithm pkix.AlgorithmIdentifier
	Signature          []byte
}

// IssuerAndSerial identifies the signer's certificate.
type IssuerAndSerial struct {
	Issuer       asn1.RawValue
	SerialNumber *big.Int
}

// Attribute is one signed attribute.
type Attribute struct {
	Type   asn1.ObjectIdentifier
	Values asn1.RawValue `asn1:"set"`
}

// Signer produces CMS SignedData bytes for a single credential bundle.
type Signer struct {
	bundle *credential.Bundle
}

// NewSigner binds a Signer to an already-loaded credential bundle.
func NewSigner(bundle *credential.Bundle) *Signer {
	return &Signer{bundle: bundle}
}

// Sign builds a detached CMS SignedData over content and returns its DER
// encoding. content is treated as opaque bytes; no newline translation is
// performed.
func (s *Signer) Sign(content []byte) ([]byte, error) {
	digest := sha512.Sum512(content)

	signedAttrs, attrsForSigning, err := createSignedAttributes(digest[:], time.Now())
	if err != nil {
		return nil, errors.Wrap(ErrSignedAttributes, err.Error())
	}

	attrsDigest := sha512.Sum512(attrsForSigning)

	sigAlgID, err := signatureAlgorithmFor(s.bundle.PrivateKey.Public())
	if err != nil {
		return nil, err
	}

	signature, err := s.bundle.PrivateKey.Sign(rand.Reader, attrsDigest[:], crypto.SHA512)
	if err != nil {
		return nil, errors.Wrap(ErrSign, err.Error())
	}

	cert := s.bundle.Certificate
	signerInfo := SignerInfo{
		Version: 1,
		IssuerAndSerial: IssuerAndSerial{
			Issuer:       asn1.RawValue{FullBytes: cert.RawIssuer},
			SerialNumber: cert.SerialNumber,
		},
		DigestAlgorithm: pkix.AlgorithmIdentifier{
			Algorithm:  OIDDigestSHA512,
			Parameters: asn1.NullRawValue,
		},
		SignedAttrs:        signedAttrs,
		SignatureAlgorithm: sigAlgID,
		Signature:          signature,
	}

	certificatesBytes := append([]byte{}, cert.Raw...)
	for _, ca := range s.bundle.CAChain {
		certificatesBytes = append(certificatesBytes, ca.Raw...)
	}

	signedData := SignedData{
		Version: 1,
		DigestAlgorithms: []pkix.AlgorithmIdentifier{
			{Algorithm: OIDDigestSHA512, Parameters: asn1.NullRawValue},
		},
		EncapContentInfo: EncapsulatedContentInfo{
			EContentType: OIDData,
			// Detached: EContent intentionally omitted.
		},
		Certificates: asn1.RawValue{
			Class:      asn1.ClassContextSpecific,
			Tag:        0,
			IsCompound: true,
			Bytes:      certificatesBytes,
		},
		SignerInfos: []SignerInfo{signerInfo},
	}

	signedDataBytes, err := asn1.Marshal(signedData)
	if err != nil {
		return nil, errors.Wrap(ErrMarshalSignedData, err.Error())
	}

	contentInfo := ContentInfo{
		ContentType: OIDSignedData,
		Content: asn1.RawValue{
			Class:      asn1.ClassContextSpecific,
			Tag:        0,
			IsCompound: true,
			Bytes:      signedDataBytes,
		},
	}

	return asn1.Marshal(contentInfo)
}

// signatureAlgorithmFor picks the signatureAlgorithm AlgorithmIdentifier
// bound to SHA-512 for the signer's key type. The combination is driven
// entirely by key type and is not configurable.
func signatureAlgorithmFor(pub crypto.PublicKey) (pkix.AlgorithmIdentifier, error) {
	switch pub.(type) {
	case *rsa.PublicKey:
		return pkix.AlgorithmIdentifier{Algorithm: OIDSignatureRSASHA512, Parameters: asn1.NullRawValue}, nil
	case *ecdsa.PublicKey:
		// ECDSA signature AlgorithmIdentifiers carry no parameters.
		return pkix.AlgorithmIdentifier{Algorithm: OIDSignatureECDSASHA512}, nil
	default:
		return pkix.AlgorithmIdentifier{}, errors.WithStack(ErrUnsupportedKey)
	}
}

// createSignedAttributes builds the contentType/signingTime/messageDigest
// signed attributes, returning both the IMPLICIT [0]-tagged value for
// embedding in a SignerInfo and the SET-tagged DER bytes that are actually
// hashed and signed.
func createSignedAttributes(digest []byte, signingTime time.Time) (asn1.RawValue, []byte, error) {
	contentTypeBytes, err := asn1.Marshal(OIDData)
	if err != nil {
		return asn1.RawValue{}, nil, errors.Wrap(err, "failed to marshal content type OID")
	}
	contentTypeAttr := Attribute{
		Type: OIDAttributeContentType,
		Values: asn1.RawValue{
			Class:      asn1.ClassUniversal,
			Tag:        asn1.TagSet,
			IsCompound: true,
			Bytes:      contentTypeBytes,
		},
	}

	signingTimeBytes, err := asn1.Marshal(signingTime.UTC())
	if err != nil {
		return asn1.RawValue{}, nil, errors.Wrap(err, "failed to marshal signing time")
	}
	signingTimeAttr := Attribute{
		Type: OIDAttributeSigningTime,
		Values: asn1.RawValue{
			Class:      asn1.ClassUniversal,
			Tag:        asn1.TagSet,
			IsCompound: true,
			Bytes:      signingTimeBytes,
		},
	}

	digestBytes, err := asn1.Marshal(digest)
	if err != nil {
		return asn1.RawValue{}, nil, errors.Wrap(err, "failed to marshal digest")
	}
	messageDigestAttr := Attribute{
		Type: OIDAttributeMessageDigest,
		Values: asn1.RawValue{
			Class:      asn1.ClassUniversal,
			Tag:        asn1.TagSet,
			IsCompound: true,
			Bytes:      digestBytes,
		},
	}

	// Order matches the OpenSSL convention: contentType (1.9.3),
	// signingTime (1.9.5), messageDigest (1.9.4).
	attrs := []Attribute{contentTypeAttr, signingTimeAttr, messageDigestAttr}
	seqBytes, err := asn1.Marshal(attrs)
	if err != nil {
		return asn1.RawValue{}, nil, errors.Wrap(err, "failed to marshal attributes")
	}

	// seqBytes is a SEQUENCE; strip its header regardless of short- or
	// long-form length by round-tripping through RawValue, then re-tag
	// the bare content as SET (what gets hashed/signed) and separately
	// as IMPLICIT [0] (what gets embedded in the SignerInfo).
	var seq asn1.RawValue
	if _, err := asn1.Unmarshal(seqBytes, &seq); err != nil {
		return asn1.RawValue{}, nil, errors.Wrap(err, "failed to unwrap attribute sequence")
	}

	attrsForSigning, err := asn1.Marshal(asn1.RawValue{
		Class:      asn1.ClassUniversal,
		Tag:        asn1.TagSet,
		IsCompound: true,
		Bytes:      seq.Bytes,
	})
	if err != nil {
		return asn1.RawValue{}, nil, errors.Wrap(err, "failed to re-tag attributes as SET")
	}

	signedAttrs := asn1.RawValue{
		Class:      asn1.ClassContextSpecific,
		Tag:        0,
		IsCompound: true,
		Bytes:      seq.Bytes,
	}

	return signedAttrs, attrsForSigning, nil
}
