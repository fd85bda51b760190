package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	authzService "github.com/allisson/gatekeeper/internal/authz/service"
)

// RunGenerateAPIKey creates a new API key and prints the plain key together
// with the configuration entry to add to AUTH_API_KEYS. The plain key is
// shown only once and never stored.
func RunGenerateAPIKey(
	keyGenerator authzService.APIKeyGenerator,
	logger *slog.Logger,
	name string,
	rolesStr string,
	format string,
	io IOTuple,
) error {
	logger.Info("generating api key", slog.String("name", name))

	plainKey, keyHash, err := keyGenerator.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate api key: %w", err)
	}

	entry := authzService.APIKeyEntry{
		Name:    name,
		KeyHash: keyHash,
		Roles:   parseCommaList(rolesStr),
	}

	if format == "json" {
		outputAPIKeyJSON(plainKey, entry, io.Writer)
	} else {
		outputAPIKeyText(plainKey, entry, io.Writer)
	}

	logger.Info("api key generated successfully", slog.String("name", name))
	return nil
}

// outputAPIKeyText outputs the key in human-readable text format.
func outputAPIKeyText(plainKey string, entry authzService.APIKeyEntry, writer io.Writer) {
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, "\nAPI key generated successfully!")
	_, _ = fmt.Fprintf(writer, "API key: %s\n", plainKey)
	_, _ = fmt.Fprintf(writer, "Configuration entry: %s\n", string(entryJSON))
	_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The key is shown only once. Store it securely.")
}

// outputAPIKeyJSON outputs the key in JSON format for machine consumption.
func outputAPIKeyJSON(plainKey string, entry authzService.APIKeyEntry, writer io.Writer) {
	result := map[string]any{
		"api_key": plainKey,
		"entry":   entry,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
