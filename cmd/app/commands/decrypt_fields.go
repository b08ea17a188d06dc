package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/casevault/fieldcrypt"
)

// RunDecryptFields decrypts the listed fields of a JSON record read from in
// and writes the resulting record to out. Fields that fail to decrypt come
// back null rather than failing the whole record.
func RunDecryptFields(
	ctx context.Context,
	client *fieldcrypt.Client,
	userID, email string,
	fields []string,
	in io.Reader,
	out io.Writer,
) error {
	logger := commandLogger("decrypt-fields")

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

	decrypted, err := client.DecryptFields(ctx, record, fields, key)
	if err != nil {
		return fmt.Errorf("failed to decrypt fields: %w", err)
	}
	logger.Info("record decrypted", "fields", len(fields))

	return writeRecord(out, decrypted)
}
