package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ayxworxfr/newcomer_admin/pkg/component"
	"github.com/ayxworxfr/newcomer_admin/pkg/navigation"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func parseID(s, name string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return id, nil
}

func newMenusCmd(opts *options) *cobra.Command {
	var userID uint64
	cmd := &cobra.Command{
		Use:   "menus",
		Short: "Resolve the menus granted to a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client(cmd)
			if err != nil {
				return err
			}
			res := navigation.NewResolver(client).ResolveUserMenus(cmd.Context(), userID)
			if !res.OK() {
				return res.Err
			}
			return writeJSON(cmd, res.Value)
		},
	}
	cmd.Flags().Uint64Var(&userID, "user-id", 0, "User id (required)")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func newTreeCmd(opts *options) *cobra.Command {
	var (
		userID uint64
		expand []uint
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the navigation tree of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client(cmd)
			if err != nil {
				return err
			}
			session := navigation.NewSession(navigation.NewResolver(client), nil)
			session.Start(cmd.Context(), userID)
			session.Wait()
			defer session.End()

			want := make(map[uint64]bool, len(expand))
			for _, id := range expand {
				want[uint64(id)] = true
			}
			// 只展开不收起，--all 与 --expand 同时给出时不会相互抵消
			for _, n := range session.Nodes() {
				if (all || want[n.Menu.ID]) && !n.Expanded {
					session.Toggle(n.Menu.ID)
				}
			}

			out := cmd.OutOrStdout()
			for _, n := range session.Nodes() {
				marker := "+"
				if n.Expanded {
					marker = "-"
				}
				fmt.Fprintf(out, "%s %s (%d)\n", marker, n.Menu.MenuName, len(n.Screens))
				if !n.Expanded {
					continue
				}
				for _, s := range n.Screens {
					fmt.Fprintf(out, "    %s\n", renderScreen(s))
				}
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&userID, "user-id", 0, "User id (required)")
	cmd.Flags().UintSliceVar(&expand, "expand", nil, "Menu ids to expand")
	cmd.Flags().BoolVar(&all, "all", false, "Expand every menu")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func newRouteCmd(opts *options) *cobra.Command {
	var fallback string
	cmd := &cobra.Command{
		Use:   "route SCREEN_ID",
		Short: "Resolve the route of a screen, falling back when it cannot be resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			screenID, err := parseID(args[0], "screen id")
			if err != nil {
				return err
			}
			client, err := opts.client(cmd)
			if err != nil {
				return err
			}
			if fallback == "" {
				fallback = navigation.DefaultRoute(screenID)
			}
			route := navigation.NewResolver(client).ResolveScreenRoute(cmd.Context(), screenID, fallback)
			fmt.Fprintln(cmd.OutOrStdout(), route)
			return nil
		},
	}
	cmd.Flags().StringVar(&fallback, "fallback", "", "Fallback path, default /screen/{id}")
	return cmd
}

func newTitleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "title PATH",
		Short: "Resolve the header title of a route path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), navigation.NewResolver(client).ResolveScreenTitle(cmd.Context(), args[0]))
			return nil
		},
	}
}

func newAvailableCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "available MENU_ID",
		Short: "List screens that can still be linked to a menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			menuID, err := parseID(args[0], "menu id")
			if err != nil {
				return err
			}
			client, err := opts.client(cmd)
			if err != nil {
				return err
			}
			screens, err := navigation.NewAdmin(client, nil).AvailableScreens(cmd.Context(), menuID)
			if err != nil {
				return err
			}
			return writeJSON(cmd, screens)
		},
	}
}

func newComponentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "components",
		Short: "List the screen components and whether the tree has a dedicated rendering",
		Args:  cobra.NoArgs,
		// 组件集合在编译期固定，不需要连接服务端
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			missing := lo.SliceToMap(renderers.Missing(), func(t component.Tag) (component.Tag, bool) { return t, true })
			out := cmd.OutOrStdout()
			for _, spec := range component.All() {
				rendering := "dedicated"
				if missing[spec.Tag] {
					rendering = "list"
				}
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", spec.Tag, spec.DefaultPath, rendering, spec.Title)
			}
			return nil
		},
	}
}

func newColorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "color NAME...",
		Short: "Print the group color assigned to each name",
		Args:  cobra.MinimumNArgs(1),
		// 不需要连接服务端
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", navigation.GroupColor(name), strings.TrimSpace(name))
			}
			return nil
		},
	}
}
