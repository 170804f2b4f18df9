// component is a single peripheral binary: it loads its board parameters,
// pre-encrypts its attestation record, attaches to the bus, and serves
// SCAN/VALIDATE/BOOT/ATTEST forever (spec Section 4.5, "Component state
// machine").
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/internal/addr"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/internal/buildparams"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/internal/led"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/internal/trng"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/internal/transport"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/attestation"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/cryptoprim"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/handshake"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/nonce"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/securechannel"
)

// postBootLEDStep is the original's three-LED chase interval (spec
// Section 4.5, the post-boot idle loop).
const postBootLEDStep = 500 * time.Millisecond

var (
	paramsPath string
	busAddr    string
)

var rootCmd = &cobra.Command{
	Use:           "component",
	Short:         "Component: serves SCAN/VALIDATE/BOOT/ATTEST on its bus address",
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVar(&paramsPath, "params", "component.yaml", "path to Component board parameters file")
	rootCmd.Flags().StringVar(&busAddr, "bus", "127.0.0.1:5540", "address of the AP's bus listener to dial")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "component:", err)
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	params, err := buildparams.LoadComponent(paramsPath)
	if err != nil {
		return err
	}

	privDER, err := buildparams.DecodeHexDER(params.PrivateKeyDERHex)
	if err != nil {
		return fmt.Errorf("component: decode private key: %w", err)
	}
	privateKey, err := cryptoprim.ParseRSAPrivateKeyDER(privDER)
	if err != nil {
		return fmt.Errorf("component: parse private key: %w", err)
	}

	apPubDER, err := buildparams.DecodeHexDER(params.APPublicKeyDERHex)
	if err != nil {
		return fmt.Errorf("component: decode AP public key: %w", err)
	}
	apPublicKey, err := cryptoprim.ParseRSAPublicKeyDER(apPubDER)
	if err != nil {
		return fmt.Errorf("component: parse AP public key: %w", err)
	}

	record, err := attestation.Encrypt(trng.Reader(), apPublicKey, attestation.Seed{
		Customer: params.AttestationCustomer,
		Location: params.AttestationLocation,
		Date:     params.AttestationDate,
	})
	if err != nil {
		return fmt.Errorf("component: encrypt attestation record: %w", err)
	}

	// Dial the AP's bus listener and announce this Component's address
	// (spec Section 2, two physically separate images communicating over
	// the bus; internal/transport.SimulatedBus is reserved for
	// in-process tests, since it cannot be shared across OS processes).
	link, err := transport.DialComponentLink(busAddr, addr.FromComponentID(params.ComponentID))
	if err != nil {
		return fmt.Errorf("component: dial bus at %s: %w", busAddr, err)
	}

	channel := securechannel.New(securechannel.Config{
		Link:            link,
		LocalPrivateKey: privateKey,
		PeerPublicKey:   apPublicKey,
	})

	comp := handshake.NewComponent(handshake.ComponentConfig{
		ComponentID: params.ComponentID,
		BootMessage: params.BootMessage,
		Channel:     channel,
		Link:        link,
		Record:      record,
		Nonces:      nonce.New(nonce.NewSeededPRNG(params.PRNGSeed), nil),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	postBootStarted := false

	for {
		if err := comp.ServeOne(); err != nil {
			return err
		}
		// Once BOOT succeeds, the Component idles into the three-LED
		// chase until power-off (spec Section 4.5, "post-boot loop"; the
		// original's boot() never returns from this loop). No physical
		// indicator exists in this software port, so NullIndicator
		// stands in for led1/led2/led3 — a real board wires its own
		// Indicator implementations in here instead.
		if comp.Booted() && !postBootStarted {
			postBootStarted = true
			go led.RunPostBootLoop(ctx, led.NullIndicator{}, led.NullIndicator{}, led.NullIndicator{}, postBootLEDStep)
		}
	}
}
