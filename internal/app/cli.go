package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Manoj010104/news-summarizer/internal/config"
	"github.com/Manoj010104/news-summarizer/internal/logger"
	"github.com/Manoj010104/news-summarizer/internal/metrics"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type searchFlags struct {
	count     int
	images    bool
	summary   bool
	theme     string
	width     int
	jsonOut   bool
	favorites []int
}

// NewRootCommand builds the novanews command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "novanews",
		Short:         "Fetch news for a topic and rewrite the headlines with AI summaries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSearchCommand(), newServeCommand(), newVersionCommand())
	return root
}

func newSearchCommand() *cobra.Command {
	var f searchFlags
	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Fetch and summarize articles for a keyword",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("theme") {
				f.theme = cfg.Theme
			}

			session, err := NewSession(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer session.Close()

			return runSearch(cmd.Context(), cmd.OutOrStdout(), session, strings.Join(args, " "), f)
		},
	}

	cmd.Flags().IntVarP(&f.count, "count", "n", 0, "number of articles (default from DEFAULT_ARTICLES)")
	cmd.Flags().BoolVar(&f.images, "images", true, "resolve article images")
	cmd.Flags().BoolVar(&f.summary, "summary", true, "generate AI summaries and ROUGE scores")
	cmd.Flags().StringVar(&f.theme, "theme", "light", "card theme: light or dark")
	cmd.Flags().IntVar(&f.width, "width", 80, "card width in columns")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "print JSON instead of cards")
	cmd.Flags().IntSliceVar(&f.favorites, "favorite", nil, "1-based positions of articles to add to favorites, shown after the results")
	return cmd
}

func runSearch(ctx context.Context, w io.Writer, session *Session, keyword string, f searchFlags) error {
	items, err := session.Search(ctx, keyword, f.count, f.images, f.summary)
	if err != nil {
		if IsInputError(err) {
			return err
		}
		return fmt.Errorf("fetching articles: %w", err)
	}

	for _, pos := range f.favorites {
		if pos >= 1 && pos <= len(items) {
			session.AddFavorite(items[pos-1].Article)
		}
	}

	if f.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ArticlesResponse{Keyword: strings.TrimSpace(keyword), Articles: items})
	}

	r := NewRenderer(f.theme, f.width)
	fmt.Fprintln(w, r.Header("Rewriting the headlines with AI summaries."))
	if len(items) == 0 {
		fmt.Fprintln(w, r.Notice(noArticlesMessage))
		return nil
	}
	fmt.Fprintln(w, r.Cards(items, f.images))

	if favs := session.Favorites(ctx, f.images); len(favs) > 0 {
		fmt.Fprintln(w, r.Notice("🌟 Showing favorites"))
		fmt.Fprintln(w, r.Cards(favs, f.images))
	}
	return nil
}

func newServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the article API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.HTTPAddr
			}

			session, err := NewSession(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer session.Close()

			if !cfg.Debug {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           NewServer(session, metrics.Global).NewRouter(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return serve(cmd.Context(), srv)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from HTTP_ADDR)")
	return cmd
}

func serve(ctx context.Context, srv *http.Server) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "novanews %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger.Init(cfg.Debug, cfg.LogFormat)
	return cfg, nil
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
