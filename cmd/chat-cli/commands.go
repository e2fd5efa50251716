package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"gochat/internal/chat/models"
	"gochat/internal/client"
	"gochat/internal/dbmysql"
)

type app struct {
	profilePath string
	server      string
	timeout     time.Duration
	profile     *profile
	api         *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "chat-cli",
		Short:         "Terminal client for gochat direct messages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVar(&a.profilePath, "profile", "", "profile file (default is $HOME/.gochat.yaml)")
	root.PersistentFlags().StringVarP(&a.server, "server", "s", "", "API root, e.g. http://localhost:7003/api/v1")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 15*time.Second, "request timeout")

	root.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		a.usersCmd(),
		a.friendsCmd(),
		a.historyCmd(),
		a.sendCmd(),
		a.editCmd(),
		a.deleteCmd(),
		a.onlineCmd(),
		a.watchCmd(),
	)
	return root
}

func (a *app) init() error {
	path, err := profilePath(a.profilePath)
	if err != nil {
		return err
	}
	a.profilePath = path
	if a.profile, err = loadProfile(path); err != nil {
		return err
	}
	if a.server == "" {
		a.server = a.profile.Server
	}
	if a.server == "" {
		a.server = "http://localhost:7003/api/v1"
	}
	a.api = client.New(a.server, a.timeout)
	if a.profile.Token != "" {
		a.api.SetToken(a.profile.Token)
	}
	return nil
}

func (a *app) remember(resp *client.AuthResponse) error {
	a.profile.Server = a.server
	a.profile.Token = resp.Token
	if resp.User != nil {
		a.profile.UserID = resp.User.UserID
		a.profile.Handle = resp.User.Handle
	}
	return saveProfile(a.profilePath, a.profile)
}

func (a *app) registerCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "register <handle> <password>",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.api.Register(cmd.Context(), args[0], email, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s (id %d)\n", resp.User.Handle, resp.User.UserID)
			return a.remember(resp)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <handle> <password>",
		Short: "Log in and store the token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.api.Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (id %d)\n", resp.User.Handle, resp.User.UserID)
			return a.remember(resp)
		},
	}
}

func printUsers(cmd *cobra.Command, users []*dbmysql.User) {
	if len(users) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "(none)")
		return
	}
	for _, u := range users {
		fmt.Fprintf(cmd.OutOrStdout(), "%6d  %s\n", u.UserID, u.Handle)
	}
}

func (a *app) usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List everyone you can message",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := a.api.SidebarUsers(cmd.Context())
			if err != nil {
				return err
			}
			printUsers(cmd, users)
			return nil
		},
	}
}

func (a *app) friendsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friends",
		Short: "List friends",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := a.api.Friends(cmd.Context())
			if err != nil {
				return err
			}
			printUsers(cmd, users)
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <userId>",
			Short: "Send a friend request",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := a.api.SendFriendRequest(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "friend request sent")
				return nil
			},
		},
		&cobra.Command{
			Use:   "accept <userId>",
			Short: "Accept a pending friend request",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := a.api.AcceptFriendRequest(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "friend request accepted")
				return nil
			},
		},
		&cobra.Command{
			Use:   "requests",
			Short: "List incoming and outgoing requests",
			RunE: func(cmd *cobra.Command, args []string) error {
				in, err := a.api.IncomingRequests(cmd.Context())
				if err != nil {
					return err
				}
				out, err := a.api.OutgoingRequests(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "incoming:")
				printUsers(cmd, in)
				fmt.Fprintln(cmd.OutOrStdout(), "sent:")
				printUsers(cmd, out)
				return nil
			},
		},
	)
	return cmd
}

func (a *app) openSession(ctx context.Context, peer uint64) (*client.Session, error) {
	cache, err := client.NewConversationCache(a.profile.UserID, peer, 256, time.Minute)
	if err != nil {
		return nil, err
	}
	s := client.NewSession(a.api, cache)
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (a *app) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <userId>",
		Short: "Show the conversation with a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			peer, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.openSession(cmd.Context(), peer)
			if err != nil {
				return err
			}
			client.Render(cmd.OutOrStdout(), s.Cache(), a.profile.UserID, nil)
			return nil
		},
	}
}

func (a *app) sendCmd() *cobra.Command {
	var imagePath, replyTo string
	cmd := &cobra.Command{
		Use:   "send <userId> [text...]",
		Short: "Send a text and/or image message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			peer, err := parseID(args[0])
			if err != nil {
				return err
			}
			var req models.SendRequest
			if text := strings.Join(args[1:], " "); text != "" {
				req.Text = &text
			}
			if imagePath != "" {
				uri, err := dataURI(imagePath)
				if err != nil {
					return err
				}
				req.Image = &uri
			}
			req.ReplyTo = replyTo

			m, err := a.api.Send(cmd.Context(), peer, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent #%s\n", m.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&imagePath, "image", "", "path of an image to attach")
	cmd.Flags().StringVar(&replyTo, "reply", "", "id of the message to reply to")
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <messageId> <text...>",
		Short: "Edit one of your messages",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.api.Edit(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "edited #%s\n", m.ID)
			return nil
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <messageId>",
		Short: "Delete one of your messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.api.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted #%s\n", args[0])
			return nil
		},
	}
}

func (a *app) onlineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "online",
		Short: "List users with a live connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := a.api.Online(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <userId>",
		Short: "Follow a conversation live",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			peer, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := a.openSession(ctx, peer)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			client.Render(out, s.Cache(), a.profile.UserID, nil)

			return s.Watch(ctx, func(ev models.Event) {
				fmt.Fprintf(out, "\n-- %s --\n", ev.Type)
				client.Render(out, s.Cache(), a.profile.UserID, nil)
			})
		},
	}
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}

func dataURI(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", errors.New("image file is empty")
	}
	return "data:" + http.DetectContentType(raw) + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}
