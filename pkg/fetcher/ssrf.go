package fetcher

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// blockedNetworks lists the private/reserved ranges a fetch target may never
// resolve into. The check runs before any request is issued.
var blockedNetworks []*net.IPNet

func init() {
	cidrs := []string{
		"0.0.0.0/8",
		"10.0.0.0/8",
		"100.64.0.0/10", // carrier-grade NAT
		"127.0.0.0/8",
		"169.254.0.0/16", // link-local, includes cloud metadata endpoints
		"172.16.0.0/12",
		"192.0.0.0/24",
		"192.168.0.0/16",
		"198.18.0.0/15", // benchmarking
		"::1/128",
		"fc00::/7",
		"fe80::/10",
	}
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("invalid blocked network %q: %v", cidr, err))
		}
		blockedNetworks = append(blockedNetworks, network)
	}
}

const (
	dnsVerdictTTL     = 5 * time.Minute
	dnsCleanupEvery   = 10 * time.Minute
	allowedCacheValue = true
)

type lookupIPFn func(ctx context.Context, host string) ([]net.IP, error)

func defaultLookupIP(ctx context.Context, host string) ([]net.IP, error) {
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	ips := make([]net.IP, len(addrs))
	for i, a := range addrs {
		ips[i] = a.IP
	}
	return ips, nil
}

// ValidateURLTarget resolves the URL's hostname and rejects it if any
// returned address falls in a blocked network range (SSRF guard).
// Allowed verdicts are cached briefly to avoid re-resolving hot hostnames.
func (f *Fetcher) ValidateURLTarget(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return &FetchError{URL: rawURL, Message: fmt.Sprintf("invalid URL (no hostname): %s", rawURL)}
	}
	hostname := parsed.Hostname()

	if _, found := f.dnsVerdicts.Get(hostname); found {
		return nil
	}

	ips, err := f.lookupIP(ctx, hostname)
	if err != nil {
		return &FetchError{URL: rawURL, Message: fmt.Sprintf("cannot resolve hostname: %s", hostname), Err: err}
	}

	for _, ip := range ips {
		for _, network := range blockedNetworks {
			if network.Contains(ip) {
				return &FetchError{
					URL:     rawURL,
					Message: fmt.Sprintf("URL targets a blocked network (%s): %s", network, rawURL),
				}
			}
		}
	}

	f.dnsVerdicts.Set(hostname, allowedCacheValue, gocache.DefaultExpiration)
	return nil
}
