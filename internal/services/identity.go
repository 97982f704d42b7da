package services

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// UnknownIdentity is the shared identity of every caller whose address could
// not be resolved. All such callers share one throttling bucket.
const UnknownIdentity = "unknown"

const (
	IdentityModeRequest = "request"
	IdentityModeLookup  = "lookup"
)

// IdentityResolver names the caller of a demand submission. It never fails;
// an unresolvable caller is UnknownIdentity.
type IdentityResolver interface {
	Resolve(ctx context.Context, remoteAddr string) string
}

// RequestIdentity uses the client address observed by the HTTP server.
type RequestIdentity struct{}

func (RequestIdentity) Resolve(_ context.Context, remoteAddr string) string {
	addr := strings.TrimSpace(remoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	if ip := net.ParseIP(addr); ip != nil {
		return ip.String()
	}
	return UnknownIdentity
}

// LookupIdentity asks an external "what is my IP" endpoint that answers
// {"ip": "..."}.
type LookupIdentity struct {
	url    string
	client *http.Client
	log    *logrus.Entry
}

func NewLookupIdentity(url string, timeout time.Duration, log *logrus.Entry) *LookupIdentity {
	return &LookupIdentity{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log.WithField("component", "ip_lookup"),
	}
}

func (l *LookupIdentity) Resolve(ctx context.Context, _ string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		l.log.WithError(err).Warn("failed to build ip lookup request")
		return UnknownIdentity
	}

	resp, err := l.client.Do(req)
	if err != nil {
		l.log.WithError(err).Warn("ip lookup failed")
		return UnknownIdentity
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.log.WithField("status", resp.StatusCode).Warn("ip lookup returned non-200")
		return UnknownIdentity
	}

	var body struct {
		IP string `json:"ip"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.IP == "" {
		l.log.WithError(err).Warn("ip lookup returned no ip")
		return UnknownIdentity
	}
	return body.IP
}

// NewIdentityResolver picks the resolver for mode; unknown modes fall back
// to the request address.
func NewIdentityResolver(mode, lookupURL string, log *logrus.Entry) IdentityResolver {
	if mode == IdentityModeLookup {
		return NewLookupIdentity(lookupURL, 5*time.Second, log)
	}
	return RequestIdentity{}
}
