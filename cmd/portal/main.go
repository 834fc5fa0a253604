package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"coligo-portal/internal/client"
	"coligo-portal/internal/dto"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// run 执行一次命令；无论命令成功与否都会关闭 Token 存储
func run(ctx context.Context, args []string, out io.Writer) error {
	sess := &session{}
	defer sess.close()

	root := newRootCmd(sess)
	root.SetArgs(args)
	root.SetOut(out)
	return root.ExecuteContext(ctx)
}

// session 命令共享的客户端状态
type session struct {
	api    *client.APIClient
	auth   *client.AuthState
	tokens *client.BoltTokenStore
}

func (s *session) close() {
	if s.tokens != nil {
		s.tokens.Close()
		s.tokens = nil
	}
}

func newRootCmd(sess *session) *cobra.Command {
	var (
		apiURL    string
		tokenPath string
	)

	root := &cobra.Command{
		Use:          "portal",
		Short:        "Coligo 学习门户命令行客户端",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if tokenPath == "" {
				p, err := defaultTokenPath()
				if err != nil {
					return err
				}
				tokenPath = p
			}

			tokens, err := client.OpenBoltTokenStore(tokenPath)
			if err != nil {
				return err
			}
			sess.tokens = tokens
			sess.api = client.NewAPIClient(apiURL, tokens)
			sess.auth, err = client.NewAuthState(sess.api, tokens)
			if err != nil {
				sess.close()
			}
			return err
		},
	}

	root.PersistentFlags().StringVar(&apiURL, "api-url", envOr("PORTAL_API_URL", client.DefaultBaseURL), "API 服务地址")
	root.PersistentFlags().StringVar(&tokenPath, "token-file", "", "Token 存储文件（默认位于用户配置目录）")

	root.AddCommand(
		newLoginCmd(sess),
		newLogoutCmd(sess),
		newWhoamiCmd(sess),
		newDashboardCmd(sess),
		newAnnouncementsCmd(sess),
		newQuizzesCmd(sess),
	)
	return root
}

// ── 认证 ──

func newLoginCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "以演示账号登录",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.auth.Login(cmd.Context()); err != nil {
				return fmt.Errorf("%s", s.auth.Snapshot().Error)
			}
			snap := s.auth.Snapshot()
			fmt.Fprintln(cmd.OutOrStdout(), renderUser("已登录", snap.User))
			return nil
		},
	}
}

func newLogoutCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "退出登录",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.auth.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("%s", s.auth.Snapshot().Error)
			}
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("已退出登录"))
			return nil
		},
	}
}

func newWhoamiCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "显示当前用户",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := s.api.Me(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderUser("当前用户", &dto.UserResponse{
				ID: me.ID, Name: me.Name, Email: me.Email, Role: me.Role,
			}))
			return nil
		},
	}
}

// ── 数据 ──

func newDashboardCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "显示公告与测验（需登录）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := client.Guard(s.auth.IsAuthenticated(), client.RouteDashboard)
			if !d.Allow {
				return fmt.Errorf("访问 %s 需要先登录（portal login）", d.From)
			}

			announcements := client.NewAnnouncementSlice()
			quizzes := client.NewQuizSlice()
			ctx := cmd.Context()

			_ = announcements.Fetch(ctx, s.api.FetchAnnouncements)
			_ = quizzes.Fetch(ctx, func(ctx context.Context) ([]dto.QuizResponse, error) {
				return s.api.FetchQuizzes(ctx, "")
			})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderAnnouncements(announcements.State()))
			fmt.Fprintln(out, renderQuizzes(quizzes.State()))

			if !s.auth.IsAuthenticated() {
				return fmt.Errorf("会话已失效，请重新登录")
			}
			return nil
		},
	}
}

func newAnnouncementsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "announcements",
		Short: "列出公告",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slice := client.NewAnnouncementSlice()
			err := slice.Fetch(cmd.Context(), s.api.FetchAnnouncements)
			fmt.Fprintln(cmd.OutOrStdout(), renderAnnouncements(slice.State()))
			return err
		},
	}
}

func newQuizzesCmd(s *session) *cobra.Command {
	var course string
	cmd := &cobra.Command{
		Use:   "quizzes",
		Short: "列出测验",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slice := client.NewQuizSlice()
			err := slice.Fetch(cmd.Context(), func(ctx context.Context) ([]dto.QuizResponse, error) {
				return s.api.FetchQuizzes(ctx, course)
			})
			fmt.Fprintln(cmd.OutOrStdout(), renderQuizzes(slice.State()))
			return err
		},
	}
	cmd.Flags().StringVar(&course, "course", "", "按课程精确过滤")
	return cmd
}

// ── 工具函数 ──

func defaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("获取用户配置目录失败: %w", err)
	}
	dir = filepath.Join(dir, "portal")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("创建配置目录失败: %w", err)
	}
	return filepath.Join(dir, "token.db"), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
