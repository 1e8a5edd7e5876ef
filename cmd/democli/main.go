// Command democli exercises the digest, credential, and cms packages
// end to end: it digests a document, signs it with a PKCS#12
// credential, and verifies the signature it just produced.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"syscall"

	"github.com/lucbsm2/DesafioBRY/cms"
	"github.com/lucbsm2/DesafioBRY/config"
	"github.com/lucbsm2/DesafioBRY/credential"
	"github.com/lucbsm2/DesafioBRY/digest"
	"golang.org/x/term"
)

func main() {
	var documentPath string
	var p12Path string
	var envPath string

	flag.StringVar(&documentPath, "document", "", "Path to the document to sign")
	flag.StringVar(&p12Path, "p12", "", "Path to the PKCS#12 (.p12/.pfx) credential bundle")
	flag.StringVar(&envPath, "env", ".env", "Path to a .env file providing P12_PASSWORD")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if documentPath == "" || p12Path == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -document <path> -p12 <path> [-env <path>]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := config.LoadEnvFile(envPath); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "path", envPath, "error", err)
	}

	password := os.Getenv("P12_PASSWORD")
	if password == "" && term.IsTerminal(int(syscall.Stdin)) {
		fmt.Print("Enter PKCS#12 password: ")
		pwBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			slog.Error("failed to read password", "error", err)
			os.Exit(1)
		}
		password = string(pwBytes)
	}

	hash, err := digest.File(documentPath)
	if err != nil {
		slog.Error("failed to digest document", "error", err)
		os.Exit(1)
	}
	slog.Info("document digested", "path", documentPath, "sha512", hash)

	bundle, err := credential.Load(p12Path, password)
	if err != nil {
		slog.Error("failed to load PKCS#12 credential", "error", err)
		os.Exit(1)
	}
	defer bundle.Release()

	content, err := os.ReadFile(documentPath)
	if err != nil {
		slog.Error("failed to read document", "error", err)
		os.Exit(1)
	}

	signer := cms.NewSigner(bundle)
	der, err := signer.Sign(content)
	if err != nil {
		slog.Error("failed to sign document", "error", err)
		os.Exit(1)
	}
	slog.Info("document signed", "signature_bytes", len(der))

	result := cms.Verify(der)
	if !result.Valid {
		slog.Error("freshly produced signature failed to verify", "status", result.Status)
		os.Exit(1)
	}

	slog.Info("signature verified",
		"status", result.Status,
		"nome_signatario", result.SignerName,
		"data_assinatura", result.SigningTime,
		"hash_documento", result.HashHex,
		"algoritmo_hash", result.HashAlgorithm,
	)
}
