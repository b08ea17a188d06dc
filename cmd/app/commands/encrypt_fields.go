package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/casevault/fieldcrypt"
)

// RunEncryptFields encrypts the listed fields of a JSON record read from in
// and writes the resulting record to out.
func RunEncryptFields(
	ctx context.Context,
	client *fieldcrypt.Client,
	userID, email string,
	fields []string,
	in io.Reader,
	out io.Writer,
) error {
	logger := commandLogger("encrypt-fields")

	if len(fields) == 0 {
		return fmt.Errorf("at least one --fields value is required")
	}

	record, err := readRecord(in)
	if err != nil {
		return err
	}

	key, err := client.DeriveKey(ctx, userID, email)
	if err != nil {
		return fmt.Errorf("failed to derive key: %w", err)
	}

	encrypted, err := client.EncryptFields(ctx, record, fields, key)
	if err != nil {
		return fmt.Errorf("failed to encrypt fields: %w", err)
	}
	logger.Info("record encrypted", "fields", len(fields))

	return writeRecord(out, encrypted)
}
