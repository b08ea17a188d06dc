package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/casevault/fieldcrypt"
)

// RunDeriveKey derives the session key for the identity pair and prints its
// fingerprint (SHA-256 of the key material, truncated to 8 bytes).
//
// The raw key is only printed with reveal=true; the fingerprint is enough to
// check that two sessions derived the same key without exposing material that
// can decrypt records.
func RunDeriveKey(
	ctx context.Context,
	client *fieldcrypt.Client,
	userID, email string,
	reveal bool,
	out io.Writer,
) error {
	logger := commandLogger("derive-key")

	key, err := client.DeriveKey(ctx, userID, email)
	if err != nil {
		return fmt.Errorf("failed to derive key: %w", err)
	}
	logger.Info("session key derived", "user_id", userID)

	if reveal {
		fmt.Fprintf(out, "KEY=%s\n", key)
		return nil
	}

	sum := sha256.Sum256([]byte(key))
	fmt.Fprintf(out, "FINGERPRINT=%s\n", hex.EncodeToString(sum[:8]))
	return nil
}
