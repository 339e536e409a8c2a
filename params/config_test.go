package params

import "testing"

func TestDomainConfigOf(t *testing.T) {
	for name, want := range SupportedDomains {
		cfg, ok := DomainConfigOf(name)
		if !ok {
			t.Fatalf("domain %q not found", name)
		}
		if cfg != want {
			t.Fatalf("domain %q: config mismatch", name)
		}
		if cfg.Coordinator == (MainnetConfig.Coordinator) && name != MainnetDomain {
			t.Fatalf("domain %q shares the mainnet coordinator address", name)
		}
	}
	if _, ok := DomainConfigOf("ibex"); ok {
		t.Fatal("unknown domain must not resolve")
	}
}

func TestChainlistURL(t *testing.T) {
	got := ChainlistURL(LynxDomain)
	want := ChainlistBaseURL + "/lynx.json"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
