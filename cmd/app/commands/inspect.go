package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	fieldcryptDomain "github.com/casevault/fieldcrypt/internal/fieldcrypt/domain"
)

// RunInspect reports which fields of a JSON record hold encrypted envelopes,
// with their version and encryption timestamp, without decrypting anything.
func RunInspect(in io.Reader, out io.Writer) error {
	record, err := readRecord(in)
	if err != nil {
		return err
	}

	fields := make([]string, 0, len(record))
	for field := range record {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		env, isEnvelope := fieldcryptDomain.FromValue(record[field])
		if !isEnvelope {
			fmt.Fprintf(out, "%s: plaintext\n", field)
			continue
		}
		fmt.Fprintf(out, "%s: encrypted (version %s, at %s)\n",
			field, env.Version, env.EncryptedAt.Format(time.RFC3339))
	}

	return nil
}
