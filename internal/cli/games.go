package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Game commands",
	}

	cmd.AddCommand(newGamesCreateCmd())
	cmd.AddCommand(newGamesGetCmd())
	cmd.AddCommand(newGamesJoinCmd())
	cmd.AddCommand(newGamesTransitionCmd("start", "Start a game with the joined players"))
	cmd.AddCommand(newGamesTransitionCmd("finish", "Finish a game in progress"))
	cmd.AddCommand(newGamesDeleteCmd())

	return cmd
}

func newGamesCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a new game",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Post("/api/games", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGamesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id>",
		Short: "Get game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Get("/api/games/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGamesJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <game-id> <user-id>",
		Short: "Add a user to a game that has not started",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			body := map[string]string{"userId": args[1]}
			if err := client.Post(fmt.Sprintf("/api/games/%s/players", args[0]), body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGamesTransitionCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <game-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Post(fmt.Sprintf("/api/games/%s/%s", args[0], action), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGamesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <game-id>",
		Short: "Delete a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/games/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Game deleted")
			return nil
		},
	}
}
