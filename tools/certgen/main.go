// Package main generates a self-signed server certificate and key for running
// the planner with -tls-cert and -tls-key, writing them under the "certs"
// directory by default.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atinyakov/sbp/internal/certgen"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses args, generates the key pair and reports where it was written.
func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("certgen", flag.ContinueOnError)
	fs.SetOutput(out)
	dir := fs.String("out", "certs", "directory for server.crt and server.key")
	hosts := fs.String("host", "localhost,127.0.0.1", "comma-separated host names and IPs")
	days := fs.Int("days", 365, "validity in days")
	if err := fs.Parse(args); err != nil {
		return err
	}

	certPEM, keyPEM, err := certgen.GenerateServerCertificate(strings.Split(*hosts, ","), time.Duration(*days)*24*time.Hour)
	if err != nil {
		return err
	}
	certPath, keyPath, err := certgen.WriteKeyPair(*dir, certPEM, keyPEM)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Certificate written to %s\nKey written to %s\nStart the server with -tls-cert %s -tls-key %s\n",
		certPath, keyPath, certPath, keyPath)
	return nil
}
