package main

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/cobra"

	"blog-backend/internal/domains/user"
	userRepo "blog-backend/internal/domains/user/repository"
	userService "blog-backend/internal/domains/user/service"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/jwt"
)

func newCreateSuperuserCmd() *cobra.Command {
	var req user.CreateSuperuserRequest

	cmd := &cobra.Command{
		Use:   "create-superuser",
		Short: "Create a staff superuser with an author profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := req.Validate(); err != nil {
				var verrs validation.Errors
				if errors.As(err, &verrs) {
					return fmt.Errorf("invalid input: %v", verrs)
				}
				return err
			}

			db, err := connectPool(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			// Tokens are never issued here; the manager only satisfies the constructor
			svc := userService.NewUserService(
				userRepo.NewPostgresRepository(db.Pool),
				cache.NewMemoryCache(),
				jwt.NewManager("blogctl", time.Minute, time.Minute),
			)

			dto, err := svc.CreateSuperuser(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Superuser %s <%s> created (id %s).\n", dto.Username, dto.Email, dto.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&req.Username, "username", "", "username (required)")
	cmd.Flags().StringVar(&req.Password, "password", "", "password, at least 8 characters (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
