package commands

import (
	"context"
	"fmt"
	"log/slog"

	authzUseCase "github.com/allisson/gatekeeper/internal/authz/usecase"
)

// RunDeletePolicy removes a stored authorization policy by name.
//
// Requirements: Database must be migrated and accessible.
func RunDeletePolicy(
	ctx context.Context,
	policyUseCase authzUseCase.PolicyUseCase,
	logger *slog.Logger,
	name string,
	io IOTuple,
) error {
	logger.Info("deleting policy", slog.String("name", name))

	if err := policyUseCase.Delete(ctx, name); err != nil {
		return fmt.Errorf("failed to delete policy: %w", err)
	}

	_, _ = fmt.Fprintf(io.Writer, "Policy %q deleted successfully.\n", name)

	logger.Info("policy deleted successfully", slog.String("name", name))
	return nil
}
