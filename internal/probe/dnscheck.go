package probe

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// DNSClass buckets a resolution outcome for diagnostics.
type DNSClass string

const (
	DNSResolves          DNSClass = "RESOLVES"
	DNSNXDomain          DNSClass = "NXDOMAIN"
	DNSNoARecord         DNSClass = "NO_A_RECORD"
	DNSServfailOrTimeout DNSClass = "SERVFAIL_or_TIMEOUT"
	DNSInvalidName       DNSClass = "INVALID_NAME"
)

// DNSReport is the result of diagnosing a hostname with the OS resolver.
type DNSReport struct {
	Host        string
	Class       DNSClass
	IPs         []net.IP
	Nameservers []string
	Err         string
}

var dnsTimeout = 3 * time.Second

// DiagnoseDNS classifies why a hostname does or does not resolve. Used by
// the one-off check command when an HTTP check fails, to tell apart a dead
// server from a dead name.
func DiagnoseDNS(ctx context.Context, host string) DNSReport {
	rep := DNSReport{Host: strings.TrimSpace(host)}
	if rep.Host == "" || strings.Contains(rep.Host, "://") {
		rep.Class = DNSInvalidName
		return rep
	}

	ctx, cancel := context.WithTimeout(ctx, dnsTimeout)
	defer cancel()
	r := &net.Resolver{}

	ips, err := r.LookupIP(ctx, "ip", rep.Host)
	if err == nil && len(ips) > 0 {
		rep.IPs = ips
		rep.Class = DNSResolves
	} else if err != nil {
		rep.Err = err.Error()
		var de *net.DNSError
		if errors.As(err, &de) {
			switch {
			case de.IsNotFound:
				rep.Class = DNSNXDomain
			case de.IsTemporary || de.Timeout():
				rep.Class = DNSServfailOrTimeout
			}
		}
	}

	if ns, err := r.LookupNS(ctx, rep.Host); err == nil && len(ns) > 0 {
		for _, n := range ns {
			rep.Nameservers = append(rep.Nameservers, strings.TrimSuffix(n.Host, "."))
		}
		// A zone with nameservers but no address records is delegated, not gone.
		if rep.Class == DNSNXDomain {
			rep.Class = DNSNoARecord
		}
	}

	if rep.Class == "" {
		switch {
		case len(rep.Nameservers) > 0:
			rep.Class = DNSNoARecord
		case rep.Err != "":
			rep.Class = DNSServfailOrTimeout
		default:
			rep.Class = DNSNXDomain
		}
	}
	return rep
}
