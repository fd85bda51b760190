package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
	authzUseCase "github.com/allisson/gatekeeper/internal/authz/usecase"
)

// RunCreatePolicy stores a new authorization policy.
// Requirements are given as a JSON array of requirement specs, schemes as a
// comma-separated list. Outputs the stored policy in text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreatePolicy(
	ctx context.Context,
	policyUseCase authzUseCase.PolicyUseCase,
	logger *slog.Logger,
	name string,
	requirementsJSON string,
	schemesStr string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating new policy", slog.String("name", name))

	var specs []authzDomain.RequirementSpec
	if err := json.Unmarshal([]byte(requirementsJSON), &specs); err != nil {
		return fmt.Errorf("failed to parse requirements JSON: %w", err)
	}
	if len(specs) == 0 {
		return fmt.Errorf("at least one requirement is required")
	}

	input := &authzDomain.CreatePolicyInput{
		Name: name,
		Document: authzDomain.PolicyDocument{
			Requirements: specs,
			Schemes:      parseCommaList(schemesStr),
		},
	}

	policy, err := policyUseCase.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create policy: %w", err)
	}

	if format == "json" {
		outputPolicyJSON(policy, io.Writer)
	} else {
		outputPolicyText(policy, io.Writer)
	}

	logger.Info("policy created successfully",
		slog.String("policy_id", policy.ID.String()),
		slog.String("name", name),
	)

	return nil
}

// parseCommaList converts a comma-separated list into a slice of trimmed values.
func parseCommaList(input string) []string {
	if input == "" {
		return nil
	}

	parts := strings.Split(input, ",")
	schemes := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			schemes = append(schemes, trimmed)
		}
	}
	return schemes
}

// outputPolicyText outputs the stored policy in human-readable text format.
func outputPolicyText(policy *authzDomain.StoredPolicy, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nPolicy created successfully!")
	_, _ = fmt.Fprintf(writer, "Policy ID: %s\n", policy.ID.String())
	_, _ = fmt.Fprintf(writer, "Name: %s\n", policy.Name)
	_, _ = fmt.Fprintf(writer, "Requirements: %d\n", len(policy.Document.Requirements))
	if len(policy.Document.Schemes) > 0 {
		_, _ = fmt.Fprintf(writer, "Schemes: %s\n", strings.Join(policy.Document.Schemes, ", "))
	}
}

// outputPolicyJSON outputs the stored policy in JSON format for machine consumption.
func outputPolicyJSON(policy *authzDomain.StoredPolicy, writer io.Writer) {
	result := map[string]any{
		"policy_id":    policy.ID.String(),
		"name":         policy.Name,
		"requirements": policy.Document.Requirements,
		"schemes":      policy.Document.Schemes,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
