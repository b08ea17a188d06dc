// Package main provides the entry point for the fieldcrypt operator CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/casevault/fieldcrypt"
	"github.com/casevault/fieldcrypt/cmd/app/commands"
)

func main() {
	client := fieldcrypt.New(fieldcrypt.Options{})

	identityFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "user-id",
			Aliases: []string{"u"},
			Usage:   "Stable user identifier of the session owner",
		},
		&cli.StringFlag{
			Name:    "email",
			Aliases: []string{"e"},
			Usage:   "Email address of the session owner",
		},
	}

	cmd := &cli.Command{
		Name:    "fieldcrypt",
		Usage:   "Client-side field encryption tooling for case records",
		Version: "1.0.0",
		Commands: []*cli.Command{
			{
				Name:  "derive-key",
				Usage: "Derive the session key for an identity pair and print its fingerprint",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "reveal",
						Usage: "Print the raw key material instead of its fingerprint",
					},
				}, identityFlags...),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunDeriveKey(
						ctx,
						client,
						cmd.String("user-id"),
						cmd.String("email"),
						cmd.Bool("reveal"),
						os.Stdout,
					)
				},
			},
			{
				Name:  "encrypt-fields",
				Usage: "Encrypt the listed fields of a JSON record read from stdin",
				Flags: append([]cli.Flag{
					&cli.StringSliceFlag{
						Name:    "fields",
						Aliases: []string{"f"},
						Usage:   "Field names to encrypt (repeatable)",
					},
				}, identityFlags...),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunEncryptFields(
						ctx,
						client,
						cmd.String("user-id"),
						cmd.String("email"),
						cmd.StringSlice("fields"),
						os.Stdin,
						os.Stdout,
					)
				},
			},
			{
				Name:  "decrypt-fields",
				Usage: "Decrypt the listed fields of a JSON record read from stdin",
				Flags: append([]cli.Flag{
					&cli.StringSliceFlag{
						Name:    "fields",
						Aliases: []string{"f"},
						Usage:   "Field names to decrypt (repeatable)",
					},
				}, identityFlags...),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunDecryptFields(
						ctx,
						client,
						cmd.String("user-id"),
						cmd.String("email"),
						cmd.StringSlice("fields"),
						os.Stdin,
						os.Stdout,
					)
				},
			},
			{
				Name:  "inspect",
				Usage: "Report which fields of a JSON record are encrypted, without decrypting",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunInspect(os.Stdin, os.Stdout)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
