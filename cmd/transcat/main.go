package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	args := os.Args[2:]
	switch sub {
	case "check":
		cfg, err := parseCheckFlags(args)
		if err != nil {
			fail(err)
		}
		clean, err := runCheck(cfg, os.Stdout)
		if err != nil {
			fail(err)
		}
		if !clean {
			os.Exit(1)
		}
	case "gen":
		cfg, err := parseGenFlags(args)
		if err != nil {
			fail(err)
		}
		if err := runGen(cfg); err != nil {
			fail(err)
		}
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "transcat: unknown subcommand %q\n", sub)
		usage()
		os.Exit(2)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "transcat: %v\n", err)
	os.Exit(2)
}

func usage() {
	fmt.Fprintf(os.Stderr, `transcat - translation catalog validation and codegen CLI

usage: transcat <command> [options]

commands:
  check      Validate every locale catalog in a directory against the reference
             locale; exits 1 when blocking divergences are found.
  gen        Generate typed Go accessors from the reference locale's schema.

Use 'transcat check -h' or 'transcat gen -h' for command-specific flags.
`)
}
