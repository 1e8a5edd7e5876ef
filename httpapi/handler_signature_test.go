package httpapi

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"io"
	"math/big"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"software.sslmate.com/src/go-pkcs12"
)

func buildP12(t *testing.T) []byte {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(7),
		Subject:      pkix.Name{CommonName: "Signatario HTTP"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	p12Bytes, err := pkcs12.Modern.Encode(key, cert, nil, "segredo")
	require.NoError(t, err)
	return p12Bytes
}

func newMultipartRequest(t *testing.T, path string, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	for name, content := range files {
		part, err := w.CreateFormFile(name, name+".bin")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

// go test -run ^TestHandleSignatureMissingParams$
func TestHandleSignatureMissingParams(t *testing.T) {
	req := newMultipartRequest(t, "/signature", nil, map[string][]byte{"file": []byte("doc")})
	rr := httptest.NewRecorder()

	HandleSignature(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	b, _ := io.ReadAll(rr.Result().Body)
	assert.Equal(t, "Missing parameters: file, p12, or password.", string(b))
}

// go test -run ^TestHandleSignatureSuccess$
func TestHandleSignatureSuccess(t *testing.T) {
	p12 := buildP12(t)
	req := newMultipartRequest(t, "/signature",
		map[string]string{"password": "segredo"},
		map[string][]byte{"file": []byte("Conteudo critico para verificacao"), "p12": p12},
	)
	rr := httptest.NewRecorder()

	HandleSignature(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "text/plain", rr.Header().Get("Content-Type"))

	b, _ := io.ReadAll(rr.Result().Body)
	_, err := base64.StdEncoding.DecodeString(string(b))
	assert.NoError(t, err)
}

// go test -run ^TestHandleSignatureWrongPasswordFails$
func TestHandleSignatureWrongPasswordFails(t *testing.T) {
	p12 := buildP12(t)
	req := newMultipartRequest(t, "/signature",
		map[string]string{"password": "errada"},
		map[string][]byte{"file": []byte("doc"), "p12": p12},
	)
	rr := httptest.NewRecorder()

	HandleSignature(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	b, _ := io.ReadAll(rr.Result().Body)
	assert.Equal(t, "Failed to sign document.", string(b))
}

// go test -run ^TestHandleSignatureMethodNotAllowed$
func TestHandleSignatureMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/signature", nil)
	rr := httptest.NewRecorder()

	HandleSignature(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
