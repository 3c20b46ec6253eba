package probe

import (
	"context"
	"testing"
)

func TestDiagnoseDNS_InvalidName(t *testing.T) {
	for _, host := range []string{"", "   ", "https://example.com"} {
		rep := DiagnoseDNS(context.Background(), host)
		if rep.Class != DNSInvalidName {
			t.Fatalf("host %q: want %s, got %s", host, DNSInvalidName, rep.Class)
		}
	}
}

func TestDiagnoseDNS_AlwaysClassifies(t *testing.T) {
	// Reserved TLD, guaranteed not to resolve (RFC 2606). Whatever the local
	// resolver does, the report must end up in some class.
	rep := DiagnoseDNS(context.Background(), "host.invalid")
	if rep.Class == "" {
		t.Fatalf("expected a class, got empty report: %+v", rep)
	}
	if rep.Class == DNSResolves {
		t.Fatalf(".invalid must not resolve, got %+v", rep)
	}
}
