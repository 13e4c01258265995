package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/opsfort/trustcore/secrets"
	"github.com/rs/zerolog"
)

const passphraseEnv = "TRUSTCORE_PASSPHRASE"

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "hash":
		err = runHash(log, os.Args[2:])
	case "verify":
		err = runVerify(log, os.Args[2:])
	case "encrypt":
		err = runEncrypt(log, os.Args[2:])
	case "decrypt":
		err = runDecrypt(log, os.Args[2:])
	case "token":
		err = runToken(log, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Error().Err(err).Str("command", os.Args[1]).Msg("command failed")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: trustcore-vault <hash|verify|encrypt|decrypt|token> [flags]")
	fmt.Fprintln(os.Stderr, "  hash    -password <pw>                          print a storable credential record")
	fmt.Fprintln(os.Stderr, "  verify  -password <pw> -record <record>         check a password against a record")
	fmt.Fprintln(os.Stderr, "  encrypt -in <file> -out <file> [-passphrase p]  encrypt a file")
	fmt.Fprintln(os.Stderr, "  decrypt -in <file> -out <file> [-passphrase p]  decrypt a file")
	fmt.Fprintln(os.Stderr, "  token   [-n count]                              generate opaque session tokens")
	fmt.Fprintf(os.Stderr, "passphrase falls back to the %s environment variable\n", passphraseEnv)
}

func engineFlags(fs *flag.FlagSet) *int {
	iterations := fs.Int("iterations", secrets.DefaultConfig().Iterations, "PBKDF2 iteration count")
	return iterations
}

func buildEngine(iterations int) (*secrets.Engine, error) {
	cfg := secrets.DefaultConfig()
	cfg.Iterations = iterations
	return secrets.NewEngine(cfg)
}

func runHash(log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("hash", flag.ExitOnError)
	password := fs.String("password", "", "password to hash")
	iterations := engineFlags(fs)
	_ = fs.Parse(args)

	if *password == "" {
		return errors.New("-password is required")
	}

	engine, err := buildEngine(*iterations)
	if err != nil {
		return err
	}

	record, err := engine.HashPassword(*password)
	if err != nil {
		return err
	}

	fmt.Println(record)
	log.Info().Int("iterations", *iterations).Msg("credential record generated")
	return nil
}

func runVerify(log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	password := fs.String("password", "", "password to check")
	record := fs.String("record", "", "stored credential record")
	iterations := engineFlags(fs)
	_ = fs.Parse(args)

	if *password == "" || *record == "" {
		return errors.New("-password and -record are required")
	}

	engine, err := buildEngine(*iterations)
	if err != nil {
		return err
	}

	if !engine.VerifyPassword(*password, *record) {
		return errors.New("password does not match record")
	}

	log.Info().Msg("password matches record")
	return nil
}

func runEncrypt(log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("encrypt", flag.ExitOnError)
	in := fs.String("in", "", "input file")
	out := fs.String("out", "", "output file")
	passphrase := fs.String("passphrase", "", "encryption passphrase")
	iterations := engineFlags(fs)
	_ = fs.Parse(args)

	pw, err := resolvePassphrase(*passphrase)
	if err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return errors.New("-in and -out are required")
	}

	engine, err := buildEngine(*iterations)
	if err != nil {
		return err
	}

	plaintext, err := os.ReadFile(*in)
	if err != nil {
		return err
	}

	payload, err := engine.EncryptBytes(plaintext, pw)
	if err != nil {
		return err
	}

	if err := os.WriteFile(*out, payload, 0o600); err != nil {
		return err
	}

	log.Info().Str("in", *in).Str("out", *out).Int("bytes", len(payload)).Msg("file encrypted")
	return nil
}

func runDecrypt(log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("decrypt", flag.ExitOnError)
	in := fs.String("in", "", "input file")
	out := fs.String("out", "", "output file")
	passphrase := fs.String("passphrase", "", "decryption passphrase")
	iterations := engineFlags(fs)
	_ = fs.Parse(args)

	pw, err := resolvePassphrase(*passphrase)
	if err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return errors.New("-in and -out are required")
	}

	engine, err := buildEngine(*iterations)
	if err != nil {
		return err
	}

	payload, err := os.ReadFile(*in)
	if err != nil {
		return err
	}

	plaintext, err := engine.DecryptBytes(payload, pw)
	if err != nil {
		return err
	}

	if err := os.WriteFile(*out, plaintext, 0o600); err != nil {
		return err
	}

	log.Info().Str("in", *in).Str("out", *out).Int("bytes", len(plaintext)).Msg("file decrypted")
	return nil
}

func runToken(log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	count := fs.Int("n", 1, "number of tokens to generate")
	_ = fs.Parse(args)

	if *count <= 0 {
		return errors.New("-n must be > 0")
	}

	for i := 0; i < *count; i++ {
		token, err := secrets.NewToken()
		if err != nil {
			return err
		}
		fmt.Println(token)
	}

	log.Info().Int("count", *count).Msg("tokens generated")
	return nil
}

func resolvePassphrase(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv(passphraseEnv); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("passphrase required: pass -passphrase or set %s", passphraseEnv)
}
