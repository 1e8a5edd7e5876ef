// Package httpapi provides HTTP handlers for signing documents and
// verifying digital signatures.
//
// @title DesafioBRY Digital Signature API
// @version 1.0
// @description HTTP API for signing documents with PKCS#12 credentials and verifying detached CMS/PKCS#7 signatures.
// @description
// @description Supports:
// @description - RSA and ECDSA signing keys
// @description - SHA-512 document digests
// @description - CMS/PKCS#7 SignedData generation and verification
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host 0.0.0.0:8080
// @BasePath /
// @schemes http
//
// @tag.name Health
// @tag.description Health check endpoints
//
// @tag.name Signing
// @tag.description Sign documents with a PKCS#12 credential
//
// @tag.name Verification
// @tag.description Verify detached CMS/PKCS#7 signatures
package httpapi
