package service

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"yatube/app/forms"
	"yatube/app/services"

	"github.com/spf13/cobra"
)

func newCreateUserCommand(opts *options) *cobra.Command {
	var form forms.SignupForm

	cmd := &cobra.Command{
		Use:   "createuser",
		Short: "Create a user account",
		Long: `Create a user account that can log in and write posts.

Examples:
  yatube createuser --username leo --password 'correct horse'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.loadForAdmin()
			if err != nil {
				return err
			}
			store, err := env.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			form.Password2 = form.Password1
			auth := services.NewAuthService(store.Users, env.cfg.SecretKey, env.cfg.SessionTTL)
			user, errs, err := auth.Register(&form)
			if err != nil {
				return err
			}
			if errs.Any() {
				return formError(errs)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Username, "username", "", "Login name")
	cmd.Flags().StringVar(&form.Password1, "password", "", "Password, at least 8 characters")
	cmd.Flags().StringVar(&form.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&form.LastName, "last-name", "", "Last name")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newGroupCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage post groups",
		Long: `Manage the thematic groups posts can belong to.

Subcommands:
  create  - Add a group
  list    - Show all groups
  delete  - Remove a group; its posts stay, without a group`,
	}

	var title, slug, description string
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a group",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGroups(opts, func(groups *services.GroupService) error {
				group, err := groups.CreateGroup(title, slug, description)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created group %s at %s\n", group.Title, group.URL())
				return nil
			})
		},
	}
	create.Flags().StringVar(&title, "title", "", "Group title")
	create.Flags().StringVar(&slug, "slug", "", "URL slug: letters, digits, hyphens and underscores")
	create.Flags().StringVar(&description, "description", "", "What the group is about")
	create.MarkFlagRequired("title")
	create.MarkFlagRequired("slug")
	create.MarkFlagRequired("description")

	list := &cobra.Command{
		Use:   "list",
		Short: "Show all groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGroups(opts, func(groups *services.GroupService) error {
				all, err := groups.ListGroups()
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tSLUG\tTITLE")
				for _, g := range all {
					fmt.Fprintf(w, "%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
				}
				return w.Flush()
			})
		},
	}

	var deleteSlug string
	del := &cobra.Command{
		Use:   "delete",
		Short: "Remove a group",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGroups(opts, func(groups *services.GroupService) error {
				if err := groups.DeleteGroup(deleteSlug); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted group %s\n", deleteSlug)
				return nil
			})
		},
	}
	del.Flags().StringVar(&deleteSlug, "slug", "", "Slug of the group to delete")
	del.MarkFlagRequired("slug")

	cmd.AddCommand(create, list, del)
	return cmd
}

func withGroups(opts *options, fn func(*services.GroupService) error) error {
	env, err := opts.loadForAdmin()
	if err != nil {
		return err
	}
	store, err := env.openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(services.NewGroupService(store.Groups))
}

// formError flattens form errors into one error for the terminal.
func formError(errs forms.Errors) error {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var parts []string
	for _, field := range fields {
		for _, m := range errs[field] {
			parts = append(parts, field+": "+m)
		}
	}
	return fmt.Errorf("invalid input: %s", strings.Join(parts, "; "))
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "yatube version %s\n", Version)
		},
	}
}
