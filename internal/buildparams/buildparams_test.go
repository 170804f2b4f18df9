package buildparams

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadAP(t *testing.T) {
	path := writeTemp(t, "ap.yaml", `
pin_digest_hex: "abc123"
token_digest_hex: "def456"
component_ids: [287454020, 2882343476]
boot_message: "AP booted"
prng_seed: 42
`)

	ap, err := LoadAP(path)
	if err != nil {
		t.Fatalf("LoadAP: %v", err)
	}
	if ap.PINDigestHex != "abc123" || ap.TokenDigestHex != "def456" {
		t.Fatalf("ap = %+v", ap)
	}
	if len(ap.ComponentIDs) != 2 {
		t.Fatalf("component ids = %v", ap.ComponentIDs)
	}
	if ap.PRNGSeed != 42 {
		t.Fatalf("prng seed = %d", ap.PRNGSeed)
	}
}

func TestLoadAPMissingRequiredField(t *testing.T) {
	path := writeTemp(t, "ap.yaml", `
boot_message: "AP booted"
`)
	if _, err := LoadAP(path); err != ErrMissingField {
		t.Fatalf("err = %v, want ErrMissingField", err)
	}
}

func TestLoadComponent(t *testing.T) {
	path := writeTemp(t, "component.yaml", `
component_id: 287454020
boot_message: "Component booted"
attestation_location: "McLean, VA"
attestation_date: "2024-04-01"
attestation_customer: "Acme Corp"
private_key_der_hex: "deadbeef"
ap_public_key_der_hex: "cafebabe"
prng_seed: 7
`)

	comp, err := LoadComponent(path)
	if err != nil {
		t.Fatalf("LoadComponent: %v", err)
	}
	if comp.ComponentID != 287454020 {
		t.Fatalf("component id = %d", comp.ComponentID)
	}
	if comp.AttestationCustomer != "Acme Corp" {
		t.Fatalf("customer = %q", comp.AttestationCustomer)
	}

	der, err := DecodeHexDER(comp.PrivateKeyDERHex)
	if err != nil {
		t.Fatalf("DecodeHexDER: %v", err)
	}
	if len(der) != 4 {
		t.Fatalf("der len = %d, want 4", len(der))
	}
}
