package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "User commands",
	}

	cmd.AddCommand(newUsersListCmd())
	cmd.AddCommand(newUsersGetCmd())
	cmd.AddCommand(newUsersCreateCmd())
	cmd.AddCommand(newUsersUpdateCmd())
	cmd.AddCommand(newUsersPatchCmd())
	cmd.AddCommand(newUsersDeleteCmd())

	return cmd
}

func newUsersListCmd() *cobra.Command {
	var pageNumber, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users one page at a time",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("pageNumber", strconv.Itoa(pageNumber))
			query.Set("pageSize", strconv.Itoa(pageSize))

			var result UserPage
			headers, err := client.Do(http.MethodGet, "/api/users?"+query.Encode(), nil, &result.Users)
			if err != nil {
				return err
			}
			if raw := headers.Get("X-Pagination"); raw != "" {
				if err := json.Unmarshal([]byte(raw), &result.Pagination); err != nil {
					return fmt.Errorf("failed to parse X-Pagination: %w", err)
				}
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&pageNumber, "page", 1, "Page number (1-based)")
	cmd.Flags().IntVar(&pageSize, "size", 10, "Page size (1-20)")

	return cmd
}

func newUsersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <user-id>",
		Short: "Get a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result User

			if err := client.Get("/api/users/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

// userFields mirrors the writable fields accepted by create and update
type userFields struct {
	Login     string `json:"login"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func addUserFieldFlags(cmd *cobra.Command, fields *userFields) {
	cmd.Flags().StringVar(&fields.Login, "login", "", "Login (letters and digits only)")
	cmd.Flags().StringVar(&fields.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&fields.LastName, "last-name", "", "Last name")
}

func newUsersCreateCmd() *cobra.Command {
	var fields userFields

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string

			if err := client.Post("/api/users", fields, &id); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(CreatedResult{ID: id})
			return nil
		},
	}

	addUserFieldFlags(cmd, &fields)
	_ = cmd.MarkFlagRequired("login")

	return cmd
}

func newUsersUpdateCmd() *cobra.Command {
	var fields userFields

	cmd := &cobra.Command{
		Use:   "update <user-id>",
		Short: "Replace a user, creating it if it does not exist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			headers, err := client.Put("/api/users/"+args[0], fields, nil)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if headers.Get("Location") != "" {
				out.Print(CreatedResult{ID: args[0]})
			} else {
				out.PrintMessage("User updated")
			}
			return nil
		},
	}

	addUserFieldFlags(cmd, &fields)

	return cmd
}

// patchOperation is a single RFC 6902 operation
type patchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// buildPatch turns field=value pairs into replace operations
func buildPatch(sets []string) ([]byte, error) {
	ops := make([]patchOperation, 0, len(sets))
	for _, set := range sets {
		field, value, ok := strings.Cut(set, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid --set %q: expected field=value", set)
		}
		ops = append(ops, patchOperation{Op: "replace", Path: "/" + field, Value: value})
	}
	return json.Marshal(ops)
}

func newUsersPatchCmd() *cobra.Command {
	var sets []string
	var document string

	cmd := &cobra.Command{
		Use:   "patch <user-id>",
		Short: "Partially update a user with JSON-Patch",
		Long: `Partially update a user with a JSON-Patch (RFC 6902) document.

Either pass --set field=value (repeatable) to build replace operations, or
--document with a raw JSON-Patch array.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := []byte(document)
			if document == "" {
				if len(sets) == 0 {
					return fmt.Errorf("one of --set or --document is required")
				}
				var err error
				if patch, err = buildPatch(sets); err != nil {
					return err
				}
			}

			if err := client.Patch("/api/users/"+args[0], patch); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("User patched")
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Replace a field: field=value (repeatable)")
	cmd.Flags().StringVar(&document, "document", "", "Raw JSON-Patch document")

	return cmd
}

func newUsersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/users/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("User deleted")
			return nil
		},
	}
}
