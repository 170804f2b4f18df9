// Package buildparams loads the per-board parameters the original fixed
// at compile time through C preprocessor macros (spec Section 6, "Build-
// time parameters"): PINs, tokens, Component IDs and boot messages,
// attestation seed fields, DER-encoded RSA key material, and PRNG seeds.
// Here they come from a YAML deployment file instead of a header, loaded
// with koanf.
package buildparams

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrMissingField is returned when a required parameter is blank.
var ErrMissingField = errors.New("buildparams: required field missing")

// AP holds the Application Processor's board parameters (spec Section 6,
// "AP_PIN", "AP_TOKEN", "COMPONENT_IDS", "COMPONENT_CNT", "AP_BOOT_MSG",
// "AP_PRIV_AT", "AP_SEED").
type AP struct {
	PINDigestHex     string   `koanf:"pin_digest_hex"`
	TokenDigestHex   string   `koanf:"token_digest_hex"`
	ComponentIDs     []uint32 `koanf:"component_ids"`
	BootMessage      string   `koanf:"boot_message"`
	PrivateKeyDERHex string   `koanf:"private_key_der_hex"`
	PRNGSeed         int64    `koanf:"prng_seed"`

	// ComponentPublicKeysDERHex maps each provisioned Component ID to
	// the hex-encoded DER of that Component's public key (one COMPn_PUB
	// per Component, spec Section 4.2 directionality notes).
	ComponentPublicKeysDERHex map[uint32]string `koanf:"component_public_keys_der_hex"`
}

// Component holds one Component's board parameters (spec Section 6,
// "COMPONENT_ID", "COMPONENT_BOOT_MSG", "ATTESTATION_LOCATION",
// "ATTESTATION_DATE", "ATTESTATION_CUSTOMER", "COMP1_PRIV", "AP_PUB_AT",
// "COMP_SEED").
type Component struct {
	ComponentID         uint32 `koanf:"component_id"`
	BootMessage         string `koanf:"boot_message"`
	AttestationLocation string `koanf:"attestation_location"`
	AttestationDate     string `koanf:"attestation_date"`
	AttestationCustomer string `koanf:"attestation_customer"`
	PrivateKeyDERHex    string `koanf:"private_key_der_hex"`
	APPublicKeyDERHex   string `koanf:"ap_public_key_der_hex"`
	PRNGSeed            int64  `koanf:"prng_seed"`
}

// LoadAP reads an AP parameter file from path.
func LoadAP(path string) (*AP, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("buildparams: load %s: %w", path, err)
	}
	var ap AP
	if err := k.Unmarshal("", &ap); err != nil {
		return nil, fmt.Errorf("buildparams: unmarshal %s: %w", path, err)
	}
	if ap.PINDigestHex == "" || ap.TokenDigestHex == "" {
		return nil, ErrMissingField
	}
	return &ap, nil
}

// LoadComponent reads a Component parameter file from path.
func LoadComponent(path string) (*Component, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("buildparams: load %s: %w", path, err)
	}
	var comp Component
	if err := k.Unmarshal("", &comp); err != nil {
		return nil, fmt.Errorf("buildparams: unmarshal %s: %w", path, err)
	}
	if comp.ComponentID == 0 || comp.PrivateKeyDERHex == "" {
		return nil, ErrMissingField
	}
	return &comp, nil
}

// DecodeHexDER decodes a hex-encoded DER blob, as produced by
// `openssl ... | xxd -p` during provisioning.
func DecodeHexDER(s string) ([]byte, error) {
	return hex.DecodeString(s)
}
