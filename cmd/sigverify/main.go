package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Layr-Labs/chain-sigverify/pkg/client"
	"github.com/Layr-Labs/chain-sigverify/pkg/config"
	"github.com/Layr-Labs/chain-sigverify/pkg/logger"
	"github.com/Layr-Labs/chain-sigverify/pkg/server"
	"github.com/Layr-Labs/chain-sigverify/pkg/verifier"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// Exit codes returned by the verify command
const (
	exitInvalidSignature = 1
	exitInvalidEncoding  = 2
	exitUsage            = 3
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "sigverify",
		Usage: "Verify Ethereum and Solana signed text messages",
		Description: `Checks message signatures for multiple chains behind one interface.

Supported schemes:
- ethereum: personal_sign (keccak256, secp256k1 address recovery), hex signatures
- solana: Ed25519 over the raw message, base58 signatures and keys

Scheme support is selected at build time with the no_ethereum / no_solana
build tags and can be narrowed further at runtime with --schemes.`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "schemes",
				Usage:   fmt.Sprintf("Comma separated schemes to enable (%s); empty enables all compiled-in schemes", config.GetSupportedSchemesString()),
				EnvVars: []string{config.EnvSchemes},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable verbose logging",
				EnvVars: []string{config.EnvVerbose},
			},
		},
		Commands: []*cli.Command{
			verifyCommand(),
			schemesCommand(),
			signCommand(),
			serveCommand(),
		},
	}
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Verify a signature over a message",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scheme", Aliases: []string{"s"}, Usage: "Signature scheme", Required: true},
			&cli.StringFlag{Name: "signature", Aliases: []string{"sig"}, Usage: "Encoded signature", Required: true},
			&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Usage: "Signed message text"},
			&cli.StringFlag{Name: "signer", Usage: "Expected signer address or public key", Required: true},
			&cli.StringFlag{
				Name:    "server",
				Usage:   "Verify through a running sigverify server at this URL instead of in-process",
				EnvVars: []string{"SIGVERIFY_SERVER_URL"},
			},
		},
		Action: runVerify,
	}
}

func schemesCommand() *cli.Command {
	return &cli.Command{
		Name:   "schemes",
		Usage:  "List compiled-in and enabled signature schemes",
		Action: runSchemes,
	}
}

func signCommand() *cli.Command {
	return &cli.Command{
		Name:  "sign",
		Usage: "Sign a message (development helper for producing test vectors)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scheme", Aliases: []string{"s"}, Usage: "Signature scheme", Required: true},
			&cli.StringFlag{
				Name:     "private-key",
				Usage:    "ethereum: hex secp256k1 key; solana: base58 keypair or seed",
				EnvVars:  []string{"SIGVERIFY_PRIVATE_KEY"},
				Required: true,
			},
			&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Usage: "Message text to sign"},
		},
		Action: runSign,
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the verification HTTP API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   config.DefaultPort,
				Usage:   "HTTP server port",
				EnvVars: []string{config.EnvPort},
			},
			&cli.Float64Flag{
				Name:    "rate-limit",
				Value:   config.DefaultRateLimit,
				Usage:   "Requests per second across all clients, 0 disables limiting",
				EnvVars: []string{config.EnvRateLimit},
			},
			&cli.IntFlag{
				Name:    "rate-burst",
				Value:   config.DefaultRateBurst,
				Usage:   "Token bucket burst size",
				EnvVars: []string{config.EnvRateBurst},
			},
		},
		Action: runServe,
	}
}

func runVerify(c *cli.Context) error {
	cfg, l, err := setup(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	defer func() { _ = l.Sync() }()

	scheme, err := verifier.ParseScheme(c.String("scheme"))
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	v, err := resolveVerifier(c, cfg, l, scheme)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	err = v.Verify(c.String("signature"), c.String("message"), c.String("signer"))
	switch verifier.KindOf(err) {
	case verifier.KindUnknown:
		if err != nil {
			return cli.Exit(err.Error(), exitUsage)
		}
	case verifier.KindInvalidEncoding:
		return cli.Exit(fmt.Sprintf("invalid encoding: %v", err), exitInvalidEncoding)
	case verifier.KindInvalidSignature:
		return cli.Exit(err.Error(), exitInvalidSignature)
	}

	fmt.Fprintf(c.App.Writer, "signature is valid (%s)\n", scheme)
	return nil
}

// resolveVerifier returns the local verifier for scheme, or a remote one when
// --server is set.
func resolveVerifier(c *cli.Context, cfg *config.Config, l *zap.Logger, scheme verifier.Scheme) (verifier.SignatureVerifier, error) {
	if serverURL := c.String("server"); serverURL != "" {
		kc, err := client.NewClient(&client.ClientConfig{ServerURL: serverURL, Logger: l})
		if err != nil {
			return nil, err
		}
		return kc.Verifier(scheme), nil
	}

	reg, err := buildRegistry(cfg, l)
	if err != nil {
		return nil, err
	}
	return reg.Get(scheme)
}

func runSchemes(c *cli.Context) error {
	cfg, err := parseConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	for _, scheme := range compiledSchemeNames() {
		state := "disabled"
		if cfg.SchemeEnabled(scheme) {
			state = "enabled"
		}
		fmt.Fprintf(c.App.Writer, "%s\t%s\n", scheme, state)
	}
	return nil
}

func runSign(c *cli.Context) error {
	scheme, err := verifier.ParseScheme(c.String("scheme"))
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	support, ok := compiledSchemes[scheme]
	if !ok {
		return cli.Exit(fmt.Sprintf("scheme %q is not compiled into this binary", scheme), exitUsage)
	}

	sig, signer, err := support.sign(c.String("private-key"), c.String("message"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to sign message: %v", err), exitUsage)
	}

	fmt.Fprintf(c.App.Writer, "signature: %s\nsigner: %s\n", sig, signer)
	return nil
}

func runServe(c *cli.Context) error {
	cfg, l, err := setup(c)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	defer func() { _ = l.Sync() }()

	reg, err := buildRegistry(cfg, l)
	if err != nil {
		return err
	}

	srv := server.NewServer(reg, cfg, l)
	if err := srv.Start(); err != nil {
		return errors.Wrap(err, "failed to start server")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	received := <-sigCh

	l.Sugar().Infow("Shutting down", "signal", received.String())
	return srv.Stop()
}

// setup parses and validates configuration and builds the logger.
func setup(c *cli.Context) (*config.Config, *zap.Logger, error) {
	cfg, err := parseConfig(c)
	if err != nil {
		return nil, nil, err
	}

	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Verbose})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create logger")
	}
	return cfg, l, nil
}

func parseConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.NewDefaultConfig()

	schemes, err := config.ParseSchemes(c.String("schemes"))
	if err != nil {
		return nil, err
	}
	cfg.EnabledSchemes = schemes
	cfg.Verbose = c.Bool("verbose")

	if c.IsSet("port") {
		cfg.Port = c.Int("port")
	}
	if c.IsSet("rate-limit") {
		cfg.RateLimit = c.Float64("rate-limit")
	}
	if c.IsSet("rate-burst") {
		cfg.RateBurst = c.Int("rate-burst")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}
