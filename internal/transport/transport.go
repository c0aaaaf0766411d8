// Package transport builds the http.Client instances the REST and
// Legacy clients share: TLS policy, cookie jar, timeouts, and default
// headers are all decided here so the callers above never touch
// crypto/tls or net/http/cookiejar directly.
package transport

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"
)

// TlsMode selects how server certificates are validated.
type TlsMode int

const (
	// TlsSystemRoots validates against the OS trust store (default).
	TlsSystemRoots TlsMode = iota
	// TlsCustomCaBundle validates against a caller-supplied PEM bundle.
	TlsCustomCaBundle
	// TlsAcceptAllInvalid disables chain and hostname verification.
	// Controllers on local networks commonly ship self-signed certs.
	TlsAcceptAllInvalid
)

// TlsConfig parameterizes TLS policy; CaBundlePath is only consulted
// when Mode == TlsCustomCaBundle.
type TlsConfig struct {
	Mode         TlsMode
	CaBundlePath string
}

// Error is the transport package's error taxonomy (§4.1).
type Error struct {
	Kind    string // "InvalidTlsConfig" | "InvalidHeaderValue"
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("transport: %s: %s", e.Kind, e.Message) }

func invalidTlsConfig(format string, args ...any) *Error {
	return &Error{Kind: "InvalidTlsConfig", Message: fmt.Sprintf(format, args...)}
}

// SensitiveHeader is an http.RoundTripper that injects a single static
// header (e.g. X-API-KEY) on every outgoing request. It logs nothing,
// so the header value never reaches a log.
type SensitiveHeader struct {
	Name  string
	Value string
	Base  http.RoundTripper
}

func (t *SensitiveHeader) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	req2.Header.Set(t.Name, t.Value)
	return t.Base.RoundTrip(req2)
}

// DefaultHeaders is an http.RoundTripper that sets a fixed set of
// non-sensitive headers (e.g. Accept, User-Agent) on every request
// without overwriting a header the caller already set explicitly.
type DefaultHeaders struct {
	Headers http.Header
	Base    http.RoundTripper
}

func (t *DefaultHeaders) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	for k, vs := range t.Headers {
		if req2.Header.Get(k) == "" {
			for _, v := range vs {
				req2.Header.Add(k, v)
			}
		}
	}
	return t.Base.RoundTrip(req2)
}

// Build constructs an *http.Client per the transport contract in §4.1:
// TLS policy, a request timeout, optional default headers, and an
// optional shared cookie jar (the Legacy client needs one; the REST
// client, being header-authenticated, does not).
func Build(tlsCfg TlsConfig, timeout time.Duration, defaultHeaders http.Header, withCookieJar bool) (*http.Client, error) {
	tlsClientConfig, err := buildTLSConfig(tlsCfg)
	if err != nil {
		return nil, err
	}

	var rt http.RoundTripper = &http.Transport{
		TLSClientConfig: tlsClientConfig,
	}

	if len(defaultHeaders) > 0 {
		rt = &DefaultHeaders{Headers: defaultHeaders, Base: rt}
	}

	client := &http.Client{
		Timeout:   timeout,
		Transport: rt,
	}

	if withCookieJar {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, invalidTlsConfig("cookie jar: %v", err)
		}
		client.Jar = jar
	}

	return client, nil
}

func buildTLSConfig(cfg TlsConfig) (*tls.Config, error) {
	switch cfg.Mode {
	case TlsSystemRoots:
		return &tls.Config{}, nil
	case TlsCustomCaBundle:
		pem, err := os.ReadFile(cfg.CaBundlePath)
		if err != nil {
			return nil, invalidTlsConfig("read ca bundle %q: %v", cfg.CaBundlePath, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, invalidTlsConfig("ca bundle %q contains no usable certificates", cfg.CaBundlePath)
		}
		return &tls.Config{RootCAs: pool}, nil
	case TlsAcceptAllInvalid:
		// Disables both chain and hostname verification, per §4.1.
		return &tls.Config{InsecureSkipVerify: true}, nil
	default:
		return nil, invalidTlsConfig("unknown tls mode %d", cfg.Mode)
	}
}

// IsInsecure reports whether cfg disables certificate verification;
// the event-stream client mirrors this flag onto its own dialer.
func IsInsecure(cfg TlsConfig) bool { return cfg.Mode == TlsAcceptAllInvalid }
