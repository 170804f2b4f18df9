// ap is the Application Processor binary: it loads build-time board
// parameters, provisions the flash-backed component list, and runs the
// command REPL (spec Section 4.9, "AP command REPL").
package main

import (
	"crypto/rsa"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/internal/addr"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/internal/buildparams"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/internal/flashpage"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/internal/metrics"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/internal/transport"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/internal/uart"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/credential"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/cryptoprim"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/dispatcher"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/handshake"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/nonce"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/provisioning"
	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/securechannel"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	paramsPath  string
	flashPath   string
	busAddr     string
	metricsAddr string
)

// Silence cobra's own usage/error printing; the REPL controls its own
// error reporting through the UART output classes.
var rootCmd = &cobra.Command{
	Use:           "ap",
	Short:         "Application Processor: handshake orchestrator and command REPL",
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVar(&paramsPath, "params", "ap.yaml", "path to AP board parameters file")
	rootCmd.Flags().StringVar(&flashPath, "flash", "ap-flash.bin", "path to the simulated flash page backing file")
	rootCmd.Flags().StringVar(&busAddr, "bus", "127.0.0.1:5540", "address to listen on for Component connections")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ap:", err)
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	params, err := buildparams.LoadAP(paramsPath)
	if err != nil {
		return err
	}

	privDER, err := buildparams.DecodeHexDER(params.PrivateKeyDERHex)
	if err != nil {
		return fmt.Errorf("ap: decode private key: %w", err)
	}
	privateKey, err := cryptoprim.ParseRSAPrivateKeyDER(privDER)
	if err != nil {
		return fmt.Errorf("ap: parse private key: %w", err)
	}

	page := flashpage.New(flashPath, provisioning.MaxComponents*4+8)
	store, err := provisioning.Load(provisioning.Config{
		Page:    page,
		SeedIDs: params.ComponentIDs,
	})
	if err != nil {
		return fmt.Errorf("ap: load provisioning store: %w", err)
	}

	// The AP and each Component are separate OS processes (spec Section
	// 2, two physically separate images); NetworkBus listens for
	// Components to dial in, rather than sharing an in-memory bus that
	// only exists within one process (internal/transport.SimulatedBus is
	// reserved for in-process tests).
	bus, err := transport.ListenBus(busAddr)
	if err != nil {
		return fmt.Errorf("ap: listen on %s: %w", busAddr, err)
	}
	defer bus.Close()

	var reg *metrics.Registry
	if metricsAddr != "" {
		promReg := prometheus.NewRegistry()
		reg = metrics.NewRegistry(promReg)
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
			http.ListenAndServe(metricsAddr, nil)
		}()
	}

	hs, err := buildHandshake(store, params, bus, privateKey)
	if err != nil {
		return err
	}

	gate := credential.New(credential.Config{
		PINDigestHex:   params.PINDigestHex,
		TokenDigestHex: params.TokenDigestHex,
	})

	console := uart.New(os.Stdin, os.Stdout, int(os.Stdin.Fd()))
	disp := dispatcher.NewAP(dispatcher.Config{
		Console:       console,
		Handshake:     hs,
		Store:         store,
		Gate:          gate,
		APBootMessage: params.BootMessage,
		Metrics:       reg,
	})

	for {
		if err := disp.Run(); err != nil {
			return err
		}
		if disp.Booted() {
			return nil
		}
	}
}

// buildHandshake wires one secure channel per currently provisioned
// Component (spec Section 4.2, directionality: one AP private key shared
// across every channel, one peer public key per Component).
func buildHandshake(store *provisioning.Store, params *buildparams.AP, bus transport.Bus, privateKey *rsa.PrivateKey) (*handshake.AP, error) {
	var endpoints []handshake.Endpoint
	for _, id := range store.List() {
		derHex, ok := params.ComponentPublicKeysDERHex[id]
		if !ok {
			return nil, fmt.Errorf("ap: no public key configured for component 0x%08x", id)
		}
		der, err := buildparams.DecodeHexDER(derHex)
		if err != nil {
			return nil, fmt.Errorf("ap: decode public key for 0x%08x: %w", id, err)
		}
		peerPublic, err := cryptoprim.ParseRSAPublicKeyDER(der)
		if err != nil {
			return nil, fmt.Errorf("ap: parse public key for 0x%08x: %w", id, err)
		}

		link, err := bus.Link(addr.FromComponentID(id))
		if err != nil {
			return nil, fmt.Errorf("ap: attach component 0x%08x: %w", id, err)
		}

		channel := securechannel.New(securechannel.Config{
			Link:            link,
			LocalPrivateKey: privateKey,
			PeerPublicKey:   peerPublic,
		})
		endpoints = append(endpoints, handshake.Endpoint{
			ComponentID: id,
			Address:     addr.FromComponentID(id),
			Channel:     channel,
			Link:        link,
		})
	}

	return handshake.NewAP(handshake.Config{
		Components: endpoints,
		Nonces:     nonce.New(nonce.NewSeededPRNG(params.PRNGSeed), nil),
		PrivateKey: privateKey,
	}), nil
}
