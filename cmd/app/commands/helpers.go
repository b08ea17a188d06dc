// Package commands implements the fieldcrypt CLI commands.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// commandLogger returns a logger tagged with a fresh operation ID so every
// CLI invocation can be correlated in logs.
func commandLogger(command string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil)).With(
		slog.String("command", command),
		slog.String("operation_id", uuid.NewString()),
	)
}

// readRecord decodes one JSON object from in.
func readRecord(in io.Reader) (map[string]any, error) {
	var record map[string]any
	if err := json.NewDecoder(in).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode JSON record: %w", err)
	}
	return record, nil
}

// writeRecord encodes record to out as indented JSON.
func writeRecord(out io.Writer, record map[string]any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to encode JSON record: %w", err)
	}
	return nil
}
